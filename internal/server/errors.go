package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"scorekeeper/internal/event"
	"scorekeeper/internal/game"
	"scorekeeper/internal/rules"
	"scorekeeper/internal/store"
)

// requestError marks a problem with the request itself.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return &requestError{err: err}
}

func statusOf(err error) int {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case rules.IsViolation(err), errors.Is(err, store.ErrCodeTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// corrupt reports whether err means a stored log can no longer be read.
func corrupt(err error) bool {
	return errors.Is(err, event.ErrUnknownEventType) || errors.Is(err, game.ErrUnknownTeamInGame)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Named("server").Debug("writing response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		fields := []zap.Field{zap.String("path", r.URL.Path), zap.Error(err)}
		if corrupt(err) {
			s.log.Error("corrupt game log", fields...)
		} else {
			s.log.Error("request failed", fields...)
		}
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest(errors.New("invalid " + name))
	}
	return id, nil
}
