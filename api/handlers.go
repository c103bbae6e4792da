package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/yojana/core"
)

// MaxTopK caps the evidence count a request may ask for.
const MaxTopK = 50

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Eligibility handles POST /v1/eligibility.
func (h *Handler) Eligibility(c *gin.Context) {
	var req EligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.TopK < 0 || req.TopK > MaxTopK {
		RespondError(c, http.StatusBadRequest, "invalid_top_k", fmt.Errorf("top_k must be between 1 and %d", MaxTopK))
		return
	}

	ctx := c.Request.Context()
	profile := core.UserProfile(req.Profile)
	var (
		results []core.EvaluationResult
		err     error
	)
	if req.TopK == 0 {
		results, err = h.service.Answer(ctx, profile, req.Question)
	} else {
		results, err = h.service.AnswerTopK(ctx, profile, req.Question, req.TopK)
	}
	if err != nil {
		status, code := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("eligibility query failed", "err", err, "request_id", c.GetString(requestIDKey))
		}
		RespondError(c, status, code, err)
		return
	}

	resp := EligibilityResponse{
		RequestID: c.GetString(requestIDKey),
		Results:   make([]SchemeResult, 0, len(results)),
	}
	for _, r := range results {
		resp.Results = append(resp.Results, toSchemeResult(r))
	}
	RespondOK(c, resp)
}

// Health handles GET /healthz. The process is healthy without a snapshot;
// Ready reports whether queries can be served.
func (h *Handler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok"}
	if snap, err := h.service.Snapshot(); err == nil {
		resp.Ready = true
		resp.Snapshot = string(snap.Version)
	}
	RespondOK(c, resp)
}

// Reload handles POST /v1/admin/reload.
func (h *Handler) Reload(c *gin.Context) {
	snap, err := h.service.Reload(c.Request.Context())
	if err != nil {
		status, code := statusFor(err)
		h.logger.Error("snapshot reload failed", "err", err, "request_id", c.GetString(requestIDKey))
		RespondError(c, status, code, err)
		return
	}
	RespondOK(c, ReloadResponse{
		Version: string(snap.Version),
		Nodes:   snap.Graph.NodeCount(),
		Edges:   snap.Graph.EdgeCount(),
		Chunks:  snap.Index.Len(),
	})
}
