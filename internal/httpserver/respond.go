package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/coreportal/internal/logic/authz"
	"github.com/skillcoder/coreportal/internal/logic/operations"
	"github.com/skillcoder/coreportal/internal/logic/registry"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctx := r.Context()
		logger.ErrorContext(ctx, "failed to encode response",
			"traceID", middleware.GetReqID(ctx),
			"path", r.URL.Path,
			"reason", err,
		)
	}
}

func writeError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(logger, w, r, status, errorResponse{Error: err.Error()})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, operations.ErrServiceNotFound), errors.Is(err, operations.ErrPodNotFound):
		return http.StatusNotFound
	case errors.Is(err, operations.ErrSimulatedFailure):
		return http.StatusConflict
	case errors.Is(err, operations.ErrShuttingDown):
		return http.StatusServiceUnavailable
	case errors.Is(err, operations.ErrInvalidReplicas), errors.Is(err, ErrSameReplicas):
		return http.StatusUnprocessableEntity
	case errors.Is(err, registry.ErrVersionConflict):
		return http.StatusPreconditionFailed
	case errors.Is(err, ErrInvalidBody), errors.Is(err, ErrInvalidVersion):
		return http.StatusBadRequest
	case errors.Is(err, authz.ErrForbidden), errors.Is(err, authz.ErrUnknownRole):
		return http.StatusForbidden
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
