package tools

import (
	"context"
	"net/http"
	"strings"
)

// Authenticator validates Authorization header API keys before the tool
// call reaches the Wise client.
type Authenticator interface {
	Authenticate(ctx context.Context, apiKey string) error
}

// AuthenticatorFunc lifts bare functions into [Authenticator].
type AuthenticatorFunc func(ctx context.Context, apiKey string) error

// Authenticate validates the API key using the wrapped function.
func (f AuthenticatorFunc) Authenticate(ctx context.Context, apiKey string) error {
	return f(ctx, apiKey)
}

func (h *Handler) authenticationMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.cfg.authenticator == nil {
			next(w, r)
			return
		}
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "missing_authorization", "Authorization header is required")
			return
		}
		schema, apiKey, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(schema, "Bearer") {
			writeError(w, http.StatusUnauthorized, "invalid_authorization", "Authorization header must be in the format 'Bearer <api_key>'")
			return
		}
		if apiKey == "" {
			writeError(w, http.StatusUnauthorized, "invalid_authorization", "API key is required")
			return
		}
		if err := h.cfg.authenticator.Authenticate(r.Context(), apiKey); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_authorization", "invalid API key")
			return
		}
		next(w, r)
	}
}
