package tools

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fintoolkit/wise/signature"
)

type signatureMiddlewareConfig struct {
	Verifier      signature.Verifier
	RequireSigned bool
	MaxClockSkew  time.Duration
	Clock         func() time.Time
}

func newSignatureMiddleware(cfg signatureMiddlewareConfig) func(http.HandlerFunc) http.HandlerFunc {
	if cfg.Verifier == nil {
		return nil
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sig := strings.TrimSpace(r.Header.Get("Signature"))
			timestampHeader := strings.TrimSpace(r.Header.Get("Timestamp"))
			if sig == "" && timestampHeader == "" {
				if cfg.RequireSigned {
					writeError(w, http.StatusUnauthorized, "signature_required", "Signature and Timestamp headers are required")
					return
				}
				next(w, r)
				return
			}
			if sig == "" || timestampHeader == "" {
				writeError(w, http.StatusBadRequest, "invalid_signature", "Signature and Timestamp headers must both be provided")
				return
			}
			ts, err := signature.ParseTimestamp(timestampHeader)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_signature", "Timestamp must be RFC3339")
				return
			}
			ts = ts.UTC()
			if cfg.MaxClockSkew > 0 {
				skew := signature.AbsDuration(cfg.Clock().Sub(ts))
				if skew > cfg.MaxClockSkew {
					writeError(w, http.StatusUnauthorized, "stale_timestamp", fmt.Sprintf("timestamp skew exceeds %s", cfg.MaxClockSkew))
					return
				}
			}
			raw, err := signature.ReadAndBufferBody(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_request", "unable to read request body")
				return
			}
			canonicalBody, err := signature.CanonicalizeJSONBody(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
				return
			}
			material := signature.Material{
				Signature:     sig,
				Timestamp:     ts,
				Method:        r.Method,
				Path:          r.URL.Path,
				CanonicalBody: canonicalBody,
			}
			if err := cfg.Verifier.Verify(r.Context(), material); err != nil {
				writeError(w, http.StatusUnauthorized, "invalid_signature", "signature verification failed")
				return
			}
			next(w, r)
		}
	}
}
