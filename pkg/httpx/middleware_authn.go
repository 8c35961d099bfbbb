package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/billybingo/pkg/jwtx"
	"github.com/aussiebroadwan/billybingo/pkg/slogx"
)

// ErrUnknownIdentity is returned by an IdentityResolver when the token
// subject no longer exists.
var ErrUnknownIdentity = errors.New("httpx: unknown identity")

// TokenVerifier checks a raw bearer token and returns its subject.
type TokenVerifier interface {
	VerifySubject(raw string) (string, error)
}

// IdentityResolver loads the identity a verified subject refers to.
type IdentityResolver func(ctx context.Context, subject string) (Identity, error)

const (
	msgNoToken       = "Access denied. No token provided."
	msgBadFormat     = "Access denied. Invalid token format."
	msgInvalidToken  = "Access denied. Invalid token."
	msgExpiredToken  = "Access denied. Token expired."
	msgUnknownUser   = "Access denied. User not found."
	msgResolveFailed = "Internal Server Error"
)

// AuthnMiddleware rejects requests without a valid bearer token and stores
// the resolved Identity in the request context.
func AuthnMiddleware(v TokenVerifier, resolve IdentityResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" {
				denied(w, log, "missing_token", msgNoToken)
				return
			}
			if !strings.HasPrefix(authz, "Bearer ") {
				denied(w, log, "malformed_header", msgBadFormat)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
			if raw == "" {
				denied(w, log, "missing_token", msgNoToken)
				return
			}

			subject, err := v.VerifySubject(raw)
			switch {
			case errors.Is(err, jwtx.ErrExpired):
				denied(w, log, "expired_token", msgExpiredToken)
				return
			case err != nil:
				log.Debug("bearer token rejected", slog.Any("err", err))
				denied(w, log, "invalid_token", msgInvalidToken)
				return
			}

			id, err := resolve(ctx, subject)
			switch {
			case errors.Is(err, ErrUnknownIdentity):
				denied(w, log, "unknown_identity", msgUnknownUser)
				return
			case err != nil:
				log.Error("resolve identity failed", slog.String("subject", subject), slog.Any("err", err))
				WriteError(w, http.StatusInternalServerError, msgResolveFailed)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, id)))
		})
	}
}

// denied answers 401 with a bearer challenge. The reason only reaches the logs.
func denied(w http.ResponseWriter, log *slog.Logger, reason, message string) {
	log.Info("authentication denied", slog.String("reason", reason))
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	WriteError(w, http.StatusUnauthorized, message)
}
