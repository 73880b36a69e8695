package api

import (
	"context"

	"pdfcheck/internal/check"
	"pdfcheck/internal/config"
	"pdfcheck/internal/events"
	"pdfcheck/internal/extract"
	"pdfcheck/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RuleRunner evaluates rules against document text. Satisfied by
// check.Checker.
type RuleRunner interface {
	Run(ctx context.Context, docText string, rules []string) []check.RuleResult
}

// Deps carries everything the handlers need. Store and Events may be nil.
type Deps struct {
	Extractor  extract.Extractor
	Runner     RuleRunner
	Store      *store.Store
	Events     *events.Publisher
	UploadsDir string
	MaxRules   int
}

// NewRouter builds the gin engine with all routes attached.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = config.MaxMultipartMemory

	corsCfg := cors.DefaultConfig()
	if origins := config.AllowedOrigins(); len(origins) > 0 {
		corsCfg.AllowOrigins = origins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type"}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/check-pdf", CheckHandler(deps))
		api.GET("/runs", RunsHandler(deps.Store))
	}

	return r
}
