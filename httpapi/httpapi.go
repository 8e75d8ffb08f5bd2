// Package httpapi exposes the orchestrator over HTTP using gin, mirroring
// the teacher's handler-layer shape (src/handlers) minus the generated
// gRPC/Connect surface: a JSON request/response POST endpoint plus a
// Server-Sent-Events stream replacing the dropped RPC streaming surface.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tellimer/econify/domain"
	"github.com/tellimer/econify/orchestrator"
	"github.com/tellimer/econify/validate"
)

// Server wires orchestrator.Run behind a gin.Engine.
type Server struct {
	Engine      *gin.Engine
	DefaultOpts orchestrator.Options
}

// NewServer builds a Server with its routes registered.
func NewServer(defaultOpts orchestrator.Options) *Server {
	s := &Server{Engine: gin.New(), DefaultOpts: defaultOpts}
	s.Engine.Use(gin.Recovery())
	s.Engine.POST("/v1/normalize", s.handleNormalize)
	s.Engine.GET("/v1/normalize/stream", s.handleNormalizeStream)
	s.Engine.POST("/v1/validate", s.handleValidate)
	return s
}

// handleValidate exposes validateEconomicData (§6): schema/value sanity
// checking without running the rest of the pipeline.
func (s *Server) handleValidate(c *gin.Context) {
	var req normalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res := validate.ValidateEconomicData(req.Observations, s.DefaultOpts.ValidateConfig)
	c.JSON(http.StatusOK, res)
}

type normalizeRequest struct {
	Observations []domain.Observation `json:"observations" binding:"required"`
}

func (s *Server) handleNormalize(c *gin.Context) {
	var req normalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := orchestrator.Run(c.Request.Context(), req.Observations, s.DefaultOpts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// handleNormalizeStream runs the same pipeline but streams each
// orchestrator.Event as an SSE "progress" event as it happens, followed by
// a final "result" event carrying the full Report.
func (s *Server) handleNormalizeStream(c *gin.Context) {
	var req normalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	opts := s.DefaultOpts
	opts.OnProgress = func(ev orchestrator.Event) {
		c.SSEvent("progress", ev)
		c.Writer.Flush()
	}
	opts.OnWarning = func(msg string) {
		c.SSEvent("warning", gin.H{"message": msg})
		c.Writer.Flush()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	report, err := orchestrator.Run(ctx, req.Observations, opts)
	if err != nil {
		c.SSEvent("error", gin.H{"error": err.Error()})
		c.Writer.Flush()
		return
	}

	c.SSEvent("result", report)
	c.Writer.Flush()
}
