// apps/go-server/internal/httpserver/routes_daily.go
//
// HTTP routes for the daily numbers puzzle.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's round (creates or reuses session)
//   - POST /daily/submit      → declare for today's round
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each player can declare once per day (enforced by DB + in-memory session).
// Sessions are held in memory for active play and persisted to DB on submit.
// The round itself is derived from date + salt.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wingo/apps/go-server/internal/daily"
	"github.com/robalobadob/wingo/apps/go-server/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	now      func() time.Time
	sessions map[string]*dailySession // active sessions keyed by owner|date
	mu       sync.Mutex               // guards sessions
}

// dailySession holds transient in-memory state for an in-progress daily round.
type dailySession struct {
	mu    sync.Mutex // serialises submits
	Round *game.Round
	Date  string
	Start time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		now:      time.Now,
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/submit", dd.handleSubmit)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// playerID returns the authenticated user ID if logged in,
// otherwise the guest's anonymous ID.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	o := d.srv.ownerOf(w, r)
	if o.userID != "" {
		return o.userID
	}
	return o.anonID
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	RoundID string `json:"roundId"`
	Date    string `json:"date"`
	Numbers []int  `json:"numbers"`
	Target  int    `json:"target"`
	Played  bool   `json:"played"`
}

// handleNew creates or reuses a daily session for the current date.
// - If the player already has a DB row for today → Played=true.
// - Otherwise create/reuse an in-memory session.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)
	now := d.now().UTC()
	date := daily.DateKey(now)

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Played: true})
		return
	} else if err != nil {
		log.Warn().Err(err).Msg("daily already played")
	}

	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok {
		d.pruneLocked(date)
		sess = &dailySession{Round: daily.Round(now, d.salt), Date: date, Start: now}
		d.sessions[key] = sess
	}
	d.mu.Unlock()

	rd := sess.Round
	_ = json.NewEncoder(w).Encode(dailyNewRes{RoundID: rd.ID, Date: date, Numbers: rd.Numbers, Target: rd.Target})
}

// pruneLocked drops sessions from earlier dates. d.mu must be held.
func (d *dailyServer) pruneLocked(today string) {
	for k, sess := range d.sessions {
		if sess.Date != today {
			delete(d.sessions, k)
		}
	}
}

// -----------------------------------------------------------------------------
// /daily/submit

// handleSubmit scores today's declaration and persists it.
func (d *dailyServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)

	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	date := daily.DateKey(d.now())

	d.mu.Lock()
	sess, ok := d.sessions[uid+"|"+date]
	d.mu.Unlock()
	if !ok || sess.Round.ID != req.RoundID {
		writeError(w, http.StatusConflict, "no_session")
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	out, err := sess.Round.Submit(r.Context(), d.srv.pool, req.Expression, req.Value)
	if err != nil {
		writeSolverError(w, err)
		return
	}

	elapsed := int(d.now().Sub(sess.Start).Milliseconds())
	if err := d.store.InsertResult(r.Context(), daily.Result{
		UserID: uid, Date: date, Target: sess.Round.Target,
		Value: out.Value, Score: out.Score, ElapsedMs: elapsed,
	}); err != nil {
		log.Warn().Err(err).Str("date", date).Msg("insert daily result")
	}
	_ = json.NewEncoder(w).Encode(submitRes{Outcome: out, Target: sess.Round.Target, State: sess.Round.State()})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
