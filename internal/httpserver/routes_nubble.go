// apps/go-server/internal/httpserver/routes_nubble.go
//
// HTTP routes for Nubble:
//   - POST /nubble/new  → start a game and make the opening roll
//   - POST /nubble/pick → claim a pin the dice can make
//   - POST /nubble/pass → give up on the current dice (spends a roll)

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

func (s *Server) mountNubble(r chi.Router) {
	r.Route("/nubble", func(r chi.Router) {
		r.Post("/new", s.handleNewNubble)
		r.Post("/pick", s.handlePick)
		r.Post("/pass", s.handlePass)
	})
}

type newNubbleReq struct {
	EndOnInvalid bool `json:"endOnInvalid"`
}
type nubbleRes struct {
	GameID   string `json:"gameId"`
	Dice     []int  `json:"dice"`
	Score    int    `json:"score"`
	Rolls    int    `json:"rolls"`
	MaxRolls int    `json:"maxRolls"`
	Picked   []int  `json:"picked"`
	State    string `json:"state"`
}

func nubbleView(n *game.Nubble) nubbleRes {
	return nubbleRes{
		GameID: n.ID, Dice: n.Dice, Score: n.Score, Rolls: n.Rolls,
		MaxRolls: n.MaxRolls, Picked: n.Picked(), State: n.State(),
	}
}

func (s *Server) handleNewNubble(w http.ResponseWriter, r *http.Request) {
	var req newNubbleReq
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	n := game.NewNubble(req.EndOnInvalid, nil)
	if err := s.store.SaveNubble(r.Context(), n); err != nil {
		log.Error().Err(err).Msg("save nubble")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.recordStart(r, s.ownerOf(w, r), n.ID, "nubble")
	_ = json.NewEncoder(w).Encode(nubbleView(n))
}

type pickReq struct {
	GameID string `json:"gameId"`
	Pin    int    `json:"pin"`
}

func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	var req pickReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	n, release, ok := s.lockNubble(w, r, req.GameID)
	if !ok {
		return
	}
	defer release()

	out, err := n.Pick(r.Context(), s.pool, req.Pin)
	if err != nil {
		writeSolverError(w, err)
		return
	}
	o := s.ownerOf(w, r)
	if n.Finished {
		s.recordFinish(r, o, n.ID, n.Score, false, false)
	}
	if !out.Allowed && !n.Finished {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) handlePass(w http.ResponseWriter, r *http.Request) {
	var req pickReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	n, release, ok := s.lockNubble(w, r, req.GameID)
	if !ok {
		return
	}
	defer release()

	if err := n.Pass(); err != nil {
		writeSolverError(w, err)
		return
	}
	o := s.ownerOf(w, r)
	if n.Finished {
		s.recordFinish(r, o, n.ID, n.Score, false, false)
	}
	_ = json.NewEncoder(w).Encode(nubbleView(n))
}

// lockNubble loads a game or writes the error response.
func (s *Server) lockNubble(w http.ResponseWriter, r *http.Request, id string) (*game.Nubble, func(), bool) {
	n, release, err := s.store.Nubble(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
		} else {
			writeSolverError(w, err)
		}
		return nil, nil, false
	}
	return n, release, true
}
