// apps/go-server/internal/httpserver/history.go
//
// Game history rows (games table) for users and guests.
// Writes here are best effort: failures are logged, never surfaced, so a
// database hiccup does not cost the player their round.

package httpserver

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wingo/apps/go-server/internal/auth"
)

// owner identifies who a game row belongs to.
type owner struct {
	userID string // set for signed-in players
	anonID string // set for guests
}

func (o owner) clause() (string, any) {
	if o.userID != "" {
		return `user_id=?`, o.userID
	}
	return `anonymous_id=?`, o.anonID
}

// ownerOf returns the signed-in user, or ensures a guest cookie.
// Must run before the response body is written.
func (s *Server) ownerOf(w http.ResponseWriter, r *http.Request) owner {
	if me := auth.FromContext(r.Context()); me != nil {
		return owner{userID: me.ID}
	}
	return owner{anonID: s.auth.EnsureAnonID(w, r)}
}

// recordStart inserts a "playing" row for a new game.
func (s *Server) recordStart(r *http.Request, o owner, id, mode string) {
	now := time.Now().UTC().Format(time.RFC3339)
	var userID, anonID any
	if o.userID != "" {
		userID = o.userID
	} else {
		anonID = o.anonID
	}
	if _, err := s.db.ExecContext(r.Context(),
		`INSERT INTO games (id, user_id, anonymous_id, mode, started_at, status, score) VALUES (?,?,?,?,?,?,0)`,
		id, userID, anonID, mode, now, "playing"); err != nil {
		log.Warn().Err(err).Str("gameId", id).Str("mode", mode).Msg("insert game row")
	}
}

// recordFinish marks a game finished and, for Countdown rounds played by a
// signed-in user, bumps their stats in the same transaction.
func (s *Server) recordFinish(r *http.Request, o owner, id string, score int, exact, bumpStats bool) {
	ctx := r.Context()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin finish tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	ownerClause, ownerArg := o.clause()
	if _, err := tx.ExecContext(ctx, `UPDATE games SET status=?, score=?, finished_at=? WHERE id=? AND `+ownerClause,
		"finished", score, time.Now().UTC().Format(time.RFC3339), id, ownerArg); err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("finish game")
	}
	if bumpStats && o.userID != "" {
		if err := auth.BumpStats(ctx, tx, o.userID, score, exact); err != nil {
			log.Warn().Err(err).Str("user", o.userID).Msg("bump stats")
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("commit finish tx")
	}
}

// claimAnonGames transfers any anonymous games to a user account after auth.
func (s *Server) claimAnonGames(r *http.Request, anonID, userID string) {
	if anonID == "" || userID == "" {
		return
	}
	if _, err := s.db.ExecContext(r.Context(),
		`UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID); err != nil {
		log.Warn().Err(err).Msg("claim anon games")
	}
}
