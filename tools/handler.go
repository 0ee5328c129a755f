package tools

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Handler exposes the tool operations over net/http, one route per tool.
type Handler struct {
	tools *Tools
	mux   *http.ServeMux
	cfg   config
}

// NewHandler wires the tool routes to the provided [Tools].
func NewHandler(tools *Tools, opts ...Option) *Handler {
	if tools == nil {
		panic("tools: tool set is required")
	}
	cfg := config{
		maxClockSkew: 5 * time.Minute,
		clock:        time.Now,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.requireSignedRequests && cfg.signatureVerifier == nil {
		panic("tools: signature verifier required when signed requests are enforced")
	}
	h := &Handler{
		tools: tools,
		mux:   http.NewServeMux(),
		cfg:   cfg,
	}
	var middleware []Middleware
	if mw := newSignatureMiddleware(signatureMiddlewareConfig{
		Verifier:      cfg.signatureVerifier,
		RequireSigned: cfg.requireSignedRequests,
		MaxClockSkew:  cfg.maxClockSkew,
		Clock:         cfg.clock,
	}); mw != nil {
		middleware = append(middleware, Middleware(mw))
	}
	if cfg.authenticator != nil {
		middleware = append(middleware, h.authenticationMiddleware)
	}
	middleware = append(middleware, cfg.middleware...)
	h.registerRoutes(middleware...)
	return h
}

// ServeHTTP satisfies http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestCtx := requestContextFromRequest(r)
	ctx := contextWithRequestContext(r.Context(), requestCtx)
	start := h.cfg.clock()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.mux.ServeHTTP(rec, r.WithContext(ctx))
	h.cfg.logger.Info("tool call",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rec.status),
		zap.String("request_id", requestCtx.RequestID),
		zap.Duration("duration", h.cfg.clock().Sub(start)),
	)
}

func (h *Handler) registerRoutes(middleware ...Middleware) {
	h.mux.HandleFunc("POST /tools/create_invoice", applyMiddleware(h.handleCreateInvoice, middleware...))
	h.mux.HandleFunc("POST /tools/get_balance_currencies", applyMiddleware(h.handleGetBalanceCurrencies, middleware...))
	h.mux.HandleFunc("POST /tools/list_recipients", applyMiddleware(h.handleListRecipients, middleware...))
	h.mux.HandleFunc("POST /tools/fund_transfer", applyMiddleware(h.handleFundTransfer, middleware...))
	h.mux.HandleFunc("POST /tools/send_money", applyMiddleware(h.handleSendMoney, middleware...))
}

// toolResult wraps the human-readable string the conversational caller
// receives.
type toolResult struct {
	Result string `json:"result"`
}

func (h *Handler) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var args CreateInvoiceArgs
	if err := decodeJSON(r.Body, &args); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toolResult{Result: h.tools.CreateInvoice(r.Context(), args)})
}

func (h *Handler) handleGetBalanceCurrencies(w http.ResponseWriter, r *http.Request) {
	var args struct {
		ProfileType string `json:"profile_type"`
	}
	if err := decodeJSON(r.Body, &args); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toolResult{Result: h.tools.GetBalanceCurrencies(r.Context(), args.ProfileType)})
}

func (h *Handler) handleListRecipients(w http.ResponseWriter, r *http.Request) {
	var args struct {
		ProfileType string `json:"profile_type"`
		Currency    string `json:"currency,omitempty"`
	}
	if err := decodeJSON(r.Body, &args); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toolResult{Result: h.tools.ListRecipients(r.Context(), args.ProfileType, args.Currency)})
}

func (h *Handler) handleFundTransfer(w http.ResponseWriter, r *http.Request) {
	var args FundTransferArgs
	if err := decodeJSON(r.Body, &args); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	outcome, err := h.tools.FundTransfer(r.Context(), args)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *Handler) handleSendMoney(w http.ResponseWriter, r *http.Request) {
	var args SendMoneyArgs
	if err := decodeJSON(r.Body, &args); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toolResult{Result: h.tools.SendMoney(r.Context(), args)})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code before forwarding to the real writer.
func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
