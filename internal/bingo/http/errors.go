package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/billybingo/internal/bingo/domain"
	"github.com/aussiebroadwan/billybingo/pkg/httpx"
	"github.com/aussiebroadwan/billybingo/pkg/slogx"
)

const (
	maxBodyBytes = 1 << 20

	msgInvalidJSON = "Invalid JSON body"
	msgInternal    = "Internal Server Error"
)

// writeError translates service errors into the error envelope. Anything
// that is not a *domain.Error is logged and reported as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		slogx.FromContext(r.Context()).Error("unhandled error", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	switch de.Kind {
	case domain.KindValidation:
		httpx.WriteError(w, http.StatusBadRequest, de.Message)
	case domain.KindUnauthenticated:
		httpx.WriteError(w, http.StatusUnauthorized, de.Message)
	case domain.KindNotFound:
		httpx.WriteError(w, http.StatusNotFound, de.Message)
	case domain.KindConflict:
		httpx.WriteError(w, http.StatusConflict, de.Message)
	case domain.KindInternal:
		slogx.FromContext(r.Context()).Error("internal error", slog.Any("error", de.Err))
		httpx.WriteError(w, http.StatusInternalServerError, msgInternal)
	default:
		slogx.FromContext(r.Context()).Error("unknown error kind", slog.String("kind", de.Kind.String()))
		httpx.WriteError(w, http.StatusInternalServerError, msgInternal)
	}
}

// decodeJSON reads a JSON body into v. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		slogx.FromContext(r.Context()).Debug("decode body failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusBadRequest, msgInvalidJSON)
		return false
	}
	return true
}

func writeOK(w http.ResponseWriter, code int, message string, data any) {
	httpx.WriteJSON(w, code, httpx.Envelope{Success: true, Message: message, Data: data})
}

func writeUpstreamError(w http.ResponseWriter, code int, message string, err error) {
	httpx.WriteJSON(w, code, UpstreamError{Message: message, Error: err.Error()})
}

// identity returns the caller set by AuthnMiddleware.
func identity(r *http.Request) httpx.Identity {
	id, _ := httpx.IdentityFromContext(r.Context())
	return id
}
