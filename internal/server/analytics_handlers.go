package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"scorekeeper/internal/analytics"
	"scorekeeper/internal/event"
	"scorekeeper/internal/store"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
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
	sum := analytics.Summarize(g, events)

	if v := r.URL.Query().Get("team"); v != "" {
		teamID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(w, r, badRequest(errors.New("invalid team")))
			return
		}
		t, ok := sum.Team(teamID)
		if !ok {
			s.writeError(w, r, fmt.Errorf("team %d in game %d: %w", teamID, id, store.ErrNotFound))
			return
		}
		writeJSON(w, http.StatusOK, t)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	games, err := s.Store.ListGames(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	logs := make(map[int64][]event.Event, len(games))
	for _, g := range games {
		events, err := s.Store.ListEvents(r.Context(), g.ID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		logs[g.ID] = events
	}
	writeJSON(w, http.StatusOK, analytics.Standings(games, logs))
}
