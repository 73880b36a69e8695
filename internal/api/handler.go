package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"pdfcheck/internal/check"
	"pdfcheck/internal/config"
	"pdfcheck/internal/events"
	"pdfcheck/internal/extract"
	"pdfcheck/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CheckHandler handles POST /api/check-pdf: multipart form with a `pdf`
// file and a `rules` field holding a JSON array of rule strings.
func CheckHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const multipartOverhead = 1 << 20
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(config.MaxUploadBytes)+multipartOverhead)

		fh, err := c.FormFile("pdf")
		if err != nil {
			if isBodyTooLarge(err) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing required file: pdf"})
			return
		}

		rules, err := parseRules(c.PostForm("rules"), deps.MaxRules)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := os.MkdirAll(deps.UploadsDir, 0o755); err != nil {
			internalError(c, err)
			return
		}
		tmpPath := filepath.Join(deps.UploadsDir, fmt.Sprintf("upload_%s.pdf", uuid.NewString()))
		if err := c.SaveUploadedFile(fh, tmpPath); err != nil {
			internalError(c, err)
			return
		}
		// The one lifecycle invariant: the transient upload is removed
		// exactly once, on every exit path from here on.
		defer os.Remove(tmpPath)

		ok, err := sniffPDF(tmpPath)
		if err != nil {
			internalError(c, err)
			return
		}
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file must be a PDF"})
			return
		}

		text, err := deps.Extractor.Extract(c.Request.Context(), tmpPath)
		if err != nil {
			internalError(c, err)
			return
		}
		if extract.IsBlank(text) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no text could be extracted from the PDF"})
			return
		}

		results := deps.Runner.Run(c.Request.Context(), text, rules)

		recordCheck(c, deps, fh.Filename, rules, results)

		c.JSON(http.StatusOK, check.Response{Results: results})
	}
}

func parseRules(raw string, maxRules int) ([]string, error) {
	var rules []string
	if err := json.Unmarshal([]byte(raw), &rules); err != nil {
		return nil, fmt.Errorf("rules must be a JSON array of strings")
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("rules must be a non-empty array")
	}
	if maxRules > 0 && len(rules) > maxRules {
		return nil, fmt.Errorf("at most %d rules allowed", maxRules)
	}
	return rules, nil
}

func sniffPDF(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	header := make([]byte, 5)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return extract.LooksLikePDF(header[:n]), nil
}

// recordCheck persists history and publishes the event. Both are best
// effort; the client response does not depend on either.
func recordCheck(c *gin.Context, deps Deps, filename string, rules []string, results []check.RuleResult) {
	checkID := uuid.NewString()
	if deps.Store != nil {
		id, err := deps.Store.Record(c.Request.Context(), filename, rules, results)
		if err != nil {
			logging.Errorf("record check: %v", err)
		} else if id != "" {
			checkID = id
		}
	}
	if deps.Events != nil {
		if err := deps.Events.Publish(c.Request.Context(), events.NewEvent(checkID, filename, results)); err != nil {
			logging.Errorf("publish check event: %v", err)
		}
	}
}

func internalError(c *gin.Context, err error) {
	logging.Errorf("check-pdf: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal server error",
		"message": err.Error(),
	})
}

// isBodyTooLarge reports whether the error indicates the request body
// exceeded MaxBytesReader.
func isBodyTooLarge(err error) bool {
	if err == nil {
		return false
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
