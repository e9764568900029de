// apps/go-server/internal/httpserver/server.go
//
// HTTP server wiring for the numbers backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "POST /solve", "/debug/solver".
//   - Countdown Numbers endpoints (optional auth): mounted under /numbers.
//   - Nubble endpoints (optional auth): mounted under /nubble.
//   - Daily puzzle endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - Every solver query runs on the worker pool with the request context,
//     so the Timeout middleware also bounds the search.
//   - Optional auth decorates requests with user context when a valid token is present;
//     routes can still run for guests.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wingo/apps/go-server/internal/auth"
	"github.com/robalobadob/wingo/apps/go-server/internal/game"
	"github.com/robalobadob/wingo/apps/go-server/internal/solver"
	"github.com/robalobadob/wingo/apps/go-server/internal/store"
	"github.com/robalobadob/wingo/apps/go-server/internal/worker"
)

const (
	defaultSolveLimit = solver.DefaultMaxSolutions
	maxSolveLimit     = 200
)

// Server bundles router, in-memory game store, DB handle and solver pool.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
	pool  *worker.Pool
	users *auth.Users
	auth  auth.Config
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, pool *worker.Pool) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		store: st,
		db:    db,
		pool:  pool,
		users: auth.NewUsers(db),
		auth:  auth.ConfigFromEnv(),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time (and solver time)
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wingo-numbers","endpoints":["/health","POST /solve","/numbers/*","/nubble/*","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/solver", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(s.pool.Stats())
	})

	// Stateless solver
	s.r.Post("/solve", s.handleSolve)

	// Games: optional auth, guests can play
	optional := s.r.With(s.auth.Optional(s.users.Exists))
	s.mountNumbers(optional)
	s.mountNubble(optional)
	s.mountDaily(optional)

	// Auth + profile/stats
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := getEnv("CLIENT_ORIGIN", "http://localhost:5173")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one debug line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("requestId", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// ------------------------------- SOLVE -------------------------------------

// solveReq/Res payloads for POST /solve.
type solveReq struct {
	Numbers []int `json:"numbers"`
	Target  int   `json:"target"`
	Limit   int   `json:"limit"` // max solutions listed; default 20
}
type solveRes struct {
	All         []int    `json:"all"`
	Solutions   []string `json:"solutions"`
	Nearest     int      `json:"nearest"`
	NearestExpr string   `json:"nearestExpr"`
	Score       int      `json:"score"` // what declaring Nearest would score
}

// handleSolve answers an exact-match query together with the nearest
// reachable value, from a single enumeration.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSolveLimit
	}
	if limit > maxSolveLimit {
		limit = maxSolveLimit
	}

	res, best, err := s.pool.SolveOrNearest(r.Context(), req.Numbers, req.Target, limit)
	if err != nil {
		writeSolverError(w, err)
		return
	}
	out := solveRes{
		All:         res.All,
		Solutions:   make([]string, 0, len(res.Solutions)),
		Nearest:     best.Value,
		NearestExpr: best.Expr.String(),
	}
	for _, e := range res.Solutions {
		out.Solutions = append(out.Solutions, e.String())
	}
	out.Score = solver.Score(out.Nearest, req.Target)
	_ = json.NewEncoder(w).Encode(out)
}

// ------------------------------- errors ------------------------------------

// decodeOptional decodes a JSON body that may be left empty; an empty body
// leaves v untouched.
func decodeOptional(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// writeError writes {"error": msg} with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// writeSolverError maps solver/game/pool errors onto HTTP statuses.
func writeSolverError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, solver.ErrNoNumbers),
		errors.Is(err, solver.ErrTooManyNumbers),
		errors.Is(err, solver.ErrNonPositive),
		errors.Is(err, solver.ErrBadTarget),
		errors.Is(err, game.ErrBadBig),
		errors.Is(err, game.ErrInvalidGuess),
		errors.Is(err, game.ErrInvalidWorking),
		errors.Is(err, game.ErrNotAvailable),
		errors.Is(err, game.ErrUnreachable),
		errors.Is(err, game.ErrOffGrid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrFinished), errors.Is(err, game.ErrAlreadyPicked):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "solver_timeout")
	case errors.Is(err, worker.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "shutting_down")
	default:
		log.Error().Err(err).Msg("solver")
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
