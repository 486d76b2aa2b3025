// Package http serves the ledger over a JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"ledger/internal/access"
	"ledger/internal/auth"
	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/middleware/ratelimit"
	"ledger/internal/middleware/security"
	"ledger/internal/middleware/trace"
	"ledger/internal/services"
	"ledger/internal/view"
)

// LedgerAPI is the read side the handlers serve.
type LedgerAPI interface {
	Dashboard(ctx context.Context, caller access.Caller) (view.ScopedView, error)
	Investors(ctx context.Context, caller access.Caller) ([]core.Investor, error)
	Expenses(ctx context.Context, caller access.Caller) ([]core.Expense, error)
	Revenues(ctx context.Context, caller access.Caller) ([]core.Revenue, error)
	Withdrawals(ctx context.Context, caller access.Caller) ([]core.Withdrawal, error)
	ProjectWithdrawals(ctx context.Context, caller access.Caller) ([]core.ProjectWithdrawal, error)
	SyncData(ctx context.Context, caller access.Caller) (services.SyncResult, error)
}

// Options configures NewServer. Ledger and Verifier are required.
type Options struct {
	Addr               string
	Ledger             LedgerAPI
	Verifier           auth.Verifier
	Ping               func(context.Context) error
	Logger             *log.Logger
	DefaultLanguage    string
	RequestTimeout     time.Duration
	RateLimitPerMinute int
	// Janitor, when set, is stopped on Shutdown.
	Janitor *cache.Janitor
}

type Server struct {
	http.Server
	ledger   LedgerAPI
	ping     func(context.Context) error
	logger   *log.Logger
	messages *Messages
	timeout  time.Duration

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	janitor  *cache.Janitor

	started  time.Time
	denied   int64
	failures int64

	shutdownOnce sync.Once
}

// apiRoutes maps each API path to the one method it answers.
var apiRoutes = map[string]string{
	"/api/me":                  http.MethodGet,
	"/api/dashboard":           http.MethodGet,
	"/api/investors":           http.MethodGet,
	"/api/expenses":            http.MethodGet,
	"/api/revenues":            http.MethodGet,
	"/api/withdrawals":         http.MethodGet,
	"/api/project-withdrawals": http.MethodGet,
	"/api/sync":                http.MethodPost,
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Config{Handler: slog.Default().Handler()})
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	s := &Server{
		ledger:   opts.Ledger,
		ping:     opts.Ping,
		logger:   logger,
		messages: NewMessages(opts.DefaultLanguage),
		timeout:  timeout,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		detector: security.NewDetector(),
		janitor:  opts.Janitor,
		started:  time.Now(),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP)
	for tag, codes := range missingCodes(catalogs) {
		logger.Warn("Message catalog incomplete", "lang", tag.String(), "codes", codes)
	}

	api := http.NewServeMux()
	api.HandleFunc("GET /api/me", s.handleMe)
	api.Handle("GET /api/dashboard", handle(s, access.OpDashboard, s.ledger.Dashboard))
	api.Handle("GET /api/investors", handle(s, access.OpInvestors, s.ledger.Investors))
	api.Handle("GET /api/expenses", handle(s, access.OpExpenses, s.ledger.Expenses))
	api.Handle("GET /api/revenues", handle(s, access.OpRevenues, s.ledger.Revenues))
	api.Handle("GET /api/withdrawals", handle(s, access.OpWithdrawals, s.ledger.Withdrawals))
	api.Handle("GET /api/project-withdrawals", handle(s, access.OpProjectWithdrawals, s.ledger.ProjectWithdrawals))
	api.HandleFunc("POST /api/sync", s.handleSync)
	api.HandleFunc("/api/", s.handleAPIFallback)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.Handle("/api/", auth.Middleware(opts.Verifier, s.rejectUnauthenticated)(api))

	var handler http.Handler = mux
	handler = s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, s.detector.ExtractClientIP(r), log.FieldPath, r.URL.Path)
		s.writeFailure(w, r, http.StatusTooManyRequests, codeRateLimited)
	})(handler)
	handler = s.detector.Middleware(func(w http.ResponseWriter, r *http.Request) {
		s.writeFailure(w, r, http.StatusBadRequest, codeSuspicious)
	})(handler)
	handler = log.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.tracer.Middleware(handler)
	handler = log.Middleware(logger)(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// handle adapts a caller-scoped ledger read into a JSON handler bounded by
// the request timeout.
func handle[T any](s *Server, op access.Operation, fn func(context.Context, access.Caller) (T, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := auth.CallerFromContext(r.Context())
		if !ok {
			s.rejectUnauthenticated(w, r, auth.ErrMissingToken)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()

		data, err := fn(ctx, caller)
		if err != nil {
			s.writeError(w, r, op, err)
			return
		}
		s.writeData(w, data)
	})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		s.rejectUnauthenticated(w, r, auth.ErrMissingToken)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := s.ledger.SyncData(ctx, caller)
	if err != nil {
		s.writeError(w, r, access.OpSyncData, err)
		return
	}
	code := successCode(access.OpSyncData)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: result, Code: code, Message: s.messages.Lookup(r, code)})
}

type meResponse struct {
	Name         string               `json:"name"`
	Role         string               `json:"role"`
	InvestorID   string               `json:"investorId,omitempty"`
	Capabilities access.CapabilitySet `json:"capabilities"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		s.rejectUnauthenticated(w, r, auth.ErrMissingToken)
		return
	}
	s.writeData(w, meResponse{
		Name:         caller.Name,
		Role:         caller.Role.String(),
		InvestorID:   caller.InvestorID,
		Capabilities: access.CapabilitiesFor(caller.Role),
	})
}

func (s *Server) handleAPIFallback(w http.ResponseWriter, r *http.Request) {
	if method, ok := apiRoutes[r.URL.Path]; ok {
		w.Header().Set("Allow", method)
		s.writeFailure(w, r, http.StatusMethodNotAllowed, codeMethodNotAllowed)
		return
	}
	s.writeFailure(w, r, http.StatusNotFound, codeNotFound)
}

// Shutdown stops background routines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		if s.janitor != nil {
			s.janitor.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
