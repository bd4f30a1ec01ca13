package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/quester/internal/sanitize"
	"github.com/aretw0/quester/pkg/domain"
	"github.com/aretw0/quester/pkg/game"
)

var (
	errMissingUser = errors.New("missing " + HeaderUser + " header")
	errBadRequest  = errors.New("invalid request body")
)

// badRequest lists the errors caused by the caller's input.
var badRequest = []error{
	domain.ErrEmptyString,
	domain.ErrNullValue,
	domain.ErrAlreadyExists,
	domain.ErrParentNotExists,
	domain.ErrParentMismatch,
	domain.ErrFlagNotExists,
	game.ErrNotRootNode,
	game.ErrIllegalRootType,
	sanitize.ErrInputTooLarge,
	sanitize.ErrInvalidUTF8,
	sanitize.ErrFieldLength,
	sanitize.ErrUnknownValue,
	errBadRequest,
}

// statusFor maps an error to its HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errMissingUser):
		return http.StatusUnauthorized
	case errors.Is(err, game.ErrGameNotFound),
		errors.Is(err, domain.ErrNodeNotFound),
		errors.Is(err, game.ErrRootNotExists):
		return http.StatusNotFound
	case errors.Is(err, game.ErrForbidden),
		errors.Is(err, domain.ErrRootNodeDeleting):
		return http.StatusForbidden
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = http.StatusText(status)
	} else {
		s.logger.Warn("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "err", err)
	}
}
