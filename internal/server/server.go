// Package server exposes the firewall over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ragfw/ragfw/internal/audit"
	"github.com/ragfw/ragfw/internal/firewall"
	"github.com/ragfw/ragfw/internal/graph"
	"github.com/ragfw/ragfw/internal/types"
)

const defaultTail = 10

type DecideRequest struct {
	Text      string         `json:"text"`
	Metadata  map[string]any `json:"metadata"`
	BaseScore *float64       `json:"base_score"`
	Context   map[string]any `json:"context"`
}

type DecideResponse struct {
	Decision types.Decision  `json:"decision"`
	Findings []types.Finding `json:"findings"`
}

type EvaluateRequest struct {
	Artifacts []types.Artifact `json:"artifacts" binding:"required"`
	BaseScore *float64         `json:"base_score"`
	Context   map[string]any   `json:"context"`
}

type EvaluateResponse struct {
	Artifacts []types.Artifact `json:"artifacts"`
}

type SanitizeRequest struct {
	Subgraph  graph.Subgraph `json:"subgraph"`
	Serialize bool           `json:"serialize"`
}

type SanitizeResponse struct {
	Subgraph  graph.Subgraph   `json:"subgraph"`
	Documents []types.Artifact `json:"documents,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Handlers serves the API. Tail may be nil when the audit sink cannot be
// read back.
type Handlers struct {
	FW        *firewall.Firewall
	Sanitizer *graph.Sanitizer
	Schema    graph.Schema
	Tail      audit.Tailer
	Log       *slog.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", h.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	RegisterRoutes(router.Group("/v1"), h)
	return router
}

func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.POST("/decide", h.handleDecide)
	rg.POST("/evaluate", h.handleEvaluate)
	rg.POST("/graph/sanitize", h.handleSanitize)
	rg.GET("/audit/tail", h.handleTail)
}

func (h *Handlers) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "scanners": h.FW.Scanners()})
}

func (h *Handlers) handleDecide(c *gin.Context) {
	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	a := types.Artifact{Text: req.Text, Metadata: req.Metadata}
	d, findings := h.FW.Decide(c.Request.Context(), a, baseScore(req.BaseScore), req.Context)
	c.JSON(http.StatusOK, DecideResponse{Decision: d, Findings: findings})
}

func (h *Handlers) handleEvaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	out, err := h.FW.Evaluate(c.Request.Context(), req.Artifacts, baseScore(req.BaseScore), req.Context)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, EvaluateResponse{Artifacts: out})
}

func (h *Handlers) handleSanitize(c *gin.Context) {
	var req SanitizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	out, err := h.Sanitizer.Sanitize(c.Request.Context(), req.Subgraph)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		return
	}
	resp := SanitizeResponse{Subgraph: out}
	if req.Serialize {
		resp.Documents = graph.TextSerializer{Schema: h.Schema}.Serialize(out)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) handleTail(c *gin.Context) {
	n := defaultTail
	if s := c.Query("n"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid n %q", s)})
			return
		}
		n = v
	}
	if h.Tail == nil {
		c.JSON(http.StatusOK, []audit.Event{})
		return
	}
	events, err := h.Tail.Tail(c.Request.Context(), n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}

func baseScore(p *float64) float64 {
	if p == nil {
		return 1.0
	}
	return *p
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func Run(ctx context.Context, addr string, h *Handlers) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if h.Log != nil {
			h.Log.Info("listening", "addr", addr)
		}
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
