package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"scorekeeper/internal/event"
	"scorekeeper/internal/game"
	"scorekeeper/internal/rooms"
	"scorekeeper/internal/store"
)

const codeAttempts = 10

type createGameRequest struct {
	TournamentID int64  `json:"tournamentId"`
	TeamAID      *int64 `json:"teamAId"`
	TeamBID      *int64 `json:"teamBId"`
	Description  string `json:"description"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, badRequest(fmt.Errorf("invalid body: %w", err)))
		return
	}
	if req.TeamAID != nil && req.TeamBID != nil && *req.TeamAID == *req.TeamBID {
		s.writeError(w, r, badRequest(errors.New("a team cannot play itself")))
		return
	}

	g := game.Game{
		TournamentID: req.TournamentID,
		TeamAID:      req.TeamAID,
		TeamBID:      req.TeamBID,
		Description:  req.Description,
	}
	for range codeAttempts {
		code, err := rooms.GenerateCode()
		if err != nil {
			s.writeError(w, r, fmt.Errorf("generating join code: %w", err))
			return
		}
		g.JoinCode = code
		created, err := s.Store.CreateGame(r.Context(), g)
		if errors.Is(err, store.ErrCodeTaken) {
			continue
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.log.Info("game created", zap.Int64("game", created.ID), zap.String("code", created.JoinCode))
		writeJSON(w, http.StatusCreated, created)
		return
	}
	s.writeError(w, r, fmt.Errorf("no free join code after %d attempts", codeAttempts))
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	var tournamentID int64
	if v := r.URL.Query().Get("tournament"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(w, r, badRequest(errors.New("invalid tournament")))
			return
		}
		tournamentID = id
	}
	games, err := s.Store.ListGames(r.Context(), tournamentID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if games == nil {
		games = []game.Game{}
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.Store.GetGame(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleGetGameByCode(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.PathValue("code")))
	if !rooms.ValidCode(code) {
		s.writeError(w, r, badRequest(errors.New("invalid join code")))
		return
	}
	g, err := s.Store.GetGameByCode(r.Context(), code)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_, events, err := s.load(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event.EncodeAll(events))
}

type appendResponse struct {
	Event event.Raw  `json:"event"`
	State *game.State `json:"state,omitempty"`
}

func (s *Server) handleAppendEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var raw event.Raw
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.writeError(w, r, badRequest(fmt.Errorf("invalid body: %w", err)))
		return
	}

	e, st, err := s.appendEvent(r.Context(), id, raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, appendResponse{Event: event.Encode(e), State: st})
}

func (s *Server) handleRemoveEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	eventID, err := pathID(r, "eventId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	st, err := s.removeEvent(r.Context(), id, eventID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, events, err := s.load(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := game.Derive(g, events, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "db_error", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
