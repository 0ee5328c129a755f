package tools

import (
	"context"
	"net/http"
	"strings"
)

// RequestContext carries the metadata of one tool call.
type RequestContext struct {
	// API key used to make the request.
	Authorization string
	// Information about the agent making this request.
	UserAgent string
	// Key used to deduplicate requests. The tools themselves provide no
	// idempotency; the key is surfaced so a dispatch layer can.
	IdempotencyKey string
	// Unique key per request for tracing purposes.
	RequestID string
	// Base64url-encoded signature of the request.
	Signature string
	// Timestamp the signature was computed at, as an RFC 3339 string.
	Timestamp string
}

func requestContextFromRequest(r *http.Request) *RequestContext {
	return &RequestContext{
		Authorization:  strings.TrimSpace(r.Header.Get("Authorization")),
		UserAgent:      strings.TrimSpace(r.Header.Get("User-Agent")),
		IdempotencyKey: strings.TrimSpace(r.Header.Get("Idempotency-Key")),
		RequestID:      strings.TrimSpace(r.Header.Get("Request-Id")),
		Signature:      strings.TrimSpace(r.Header.Get("Signature")),
		Timestamp:      strings.TrimSpace(r.Header.Get("Timestamp")),
	}
}

type requestContextKey struct{}

func contextWithRequestContext(ctx context.Context, requestCtx *RequestContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if requestCtx == nil {
		return ctx
	}
	return context.WithValue(ctx, requestContextKey{}, requestCtx)
}

// RequestContextFromContext extracts the tool-call metadata previously
// stored in the context.
func RequestContextFromContext(ctx context.Context) *RequestContext {
	if ctx == nil {
		return nil
	}
	if requestCtx, ok := ctx.Value(requestContextKey{}).(*RequestContext); ok {
		return requestCtx
	}
	return nil
}
