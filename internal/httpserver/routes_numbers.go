// apps/go-server/internal/httpserver/routes_numbers.go
//
// HTTP routes for Countdown Numbers rounds:
//   - POST /numbers/new    → draw a round (0–4 big numbers)
//   - POST /numbers/submit → declare working or a value; scores and reveals the answer

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wingo/apps/go-server/internal/game"
	"github.com/robalobadob/wingo/apps/go-server/internal/store"
)

const defaultBig = 2

func (s *Server) mountNumbers(r chi.Router) {
	r.Route("/numbers", func(r chi.Router) {
		r.Post("/new", s.handleNewRound)
		r.Post("/submit", s.handleSubmitRound)
	})
}

// newRoundReq/Res payloads for POST /numbers/new.
type newRoundReq struct {
	Big *int `json:"big"` // big numbers wanted; default 2
}
type roundRes struct {
	RoundID string `json:"roundId"`
	Numbers []int  `json:"numbers"`
	Target  int    `json:"target"`
	State   string `json:"state"`
}

func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundReq
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	big := defaultBig
	if req.Big != nil {
		big = *req.Big
	}

	rd, err := game.NewRound(big, nil)
	if err != nil {
		writeSolverError(w, err)
		return
	}
	if err := s.store.SaveRound(r.Context(), rd); err != nil {
		log.Error().Err(err).Msg("save round")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.recordStart(r, s.ownerOf(w, r), rd.ID, "numbers")

	_ = json.NewEncoder(w).Encode(roundRes{RoundID: rd.ID, Numbers: rd.Numbers, Target: rd.Target, State: rd.State()})
}

// submitReq is the payload for POST /numbers/submit and /daily/submit.
// Expression wins over Value when both are sent.
type submitReq struct {
	RoundID    string `json:"roundId"`
	Expression string `json:"expression"`
	Value      int    `json:"value"`
}
type submitRes struct {
	game.Outcome
	Target int    `json:"target"`
	State  string `json:"state"`
}

func (s *Server) handleSubmitRound(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	rd, release, err := s.store.Round(r.Context(), req.RoundID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeSolverError(w, err)
		return
	}
	defer release()

	out, err := rd.Submit(r.Context(), s.pool, req.Expression, req.Value)
	if err != nil {
		writeSolverError(w, err)
		return
	}
	s.recordFinish(r, s.ownerOf(w, r), rd.ID, out.Score, out.Exact, true)

	_ = json.NewEncoder(w).Encode(submitRes{Outcome: out, Target: rd.Target, State: rd.State()})
}
