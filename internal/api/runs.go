package api

import (
	"net/http"
	"strconv"

	"pdfcheck/internal/store"

	"github.com/gin-gonic/gin"
)

const defaultRunsLimit = 50

// RunsHandler handles GET /api/runs: recent check history, newest first.
// Returns an empty list when history is disabled.
func RunsHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultRunsLimit
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		if s == nil {
			c.JSON(http.StatusOK, gin.H{"runs": []store.Record{}})
			return
		}
		records, err := s.Recent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read check history"})
			return
		}
		if records == nil {
			records = []store.Record{}
		}
		c.JSON(http.StatusOK, gin.H{"runs": records})
	}
}
