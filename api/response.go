package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/yojana/ai"
	"github.com/poiesic/yojana/index"
	"github.com/poiesic/yojana/retrieval"
	"github.com/poiesic/yojana/snapshot"
	"github.com/poiesic/yojana/storage"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// statusFor maps service errors onto HTTP status codes and error codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, retrieval.ErrEmptyQuery):
		return http.StatusBadRequest, "empty_query"
	case errors.Is(err, ai.ErrEmbeddingUnavailable):
		return http.StatusBadGateway, "embedding_unavailable"
	case errors.Is(err, index.ErrDimensionMismatch):
		return http.StatusBadGateway, "embedding_dimension"
	case errors.Is(err, snapshot.ErrNoSnapshot):
		return http.StatusServiceUnavailable, "no_snapshot"
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "no_dataset"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
