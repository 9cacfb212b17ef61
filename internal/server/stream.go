package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"scorekeeper/internal/broadcast"
	"scorekeeper/internal/bus"
	"scorekeeper/internal/wshub"
)

// initialState is the payload sent to a client as soon as it connects.
func (s *Server) initialState(ctx context.Context, gameID int64) (broadcast.Payload, error) {
	room, err := s.room(ctx, gameID)
	if err != nil {
		return broadcast.Payload{}, err
	}
	st, err := room.State(s.now())
	if err != nil {
		return broadcast.Payload{}, err
	}
	return broadcast.Payload{GameID: gameID, Reason: bus.Tick, State: st}, nil
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	first, err := s.initialState(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	room := s.Rooms.Get(id)
	if room == nil {
		s.writeError(w, r, errors.New("room closed"))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	msgChan := room.Broadcaster.Subscribe()
	defer room.Broadcaster.Unsubscribe(msgChan)

	gauge := s.Metrics.Subscribers.WithLabelValues("sse")
	gauge.Inc()
	defer gauge.Dec()

	data, _ := json.Marshal(first)
	writeSSE(w, broadcast.Message{Event: "state", Data: data})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-msgChan:
			if !ok {
				return
			}
			writeSSE(w, msg)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, msg broadcast.Message) {
	fmt.Fprintf(w, "event: %s\n", msg.Event)
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	first, err := s.initialState(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	room := s.Rooms.Get(id)
	if room == nil {
		s.writeError(w, r, errors.New("room closed"))
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Debug("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := wshub.NewClient(conn)
	room.Hub.Register(client)
	defer room.Hub.Unregister(client.ID)
	room.Hub.SendTo(client.ID, wshub.ServerMessage{Type: "state", State: &first})

	gauge := s.Metrics.Subscribers.WithLabelValues("ws")
	gauge.Inc()
	defer gauge.Dec()

	go func() {
		client.WritePump(ctx)
		cancel()
	}()

	err = client.ReadPump(ctx, room.Hub, func(ctx context.Context, msg wshub.ClientMessage) error {
		return s.handleClientMessage(ctx, id, msg)
	})
	if status := websocket.CloseStatus(err); status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
		s.log.Debug("websocket closed", zap.Int64("game", id), zap.String("client", client.ID), zap.Error(err))
	}
}

// handleClientMessage applies a referee command sent over a websocket. The
// resulting state reaches every client, the sender included, via the room.
func (s *Server) handleClientMessage(ctx context.Context, gameID int64, msg wshub.ClientMessage) error {
	switch msg.Type {
	case "append":
		if msg.Event == nil {
			return errors.New("append without event")
		}
		_, _, err := s.appendEvent(ctx, gameID, *msg.Event)
		return err
	case "remove":
		_, err := s.removeEvent(ctx, gameID, msg.EventID)
		return err
	default:
		return fmt.Errorf("%w: %q", wshub.ErrUnknownMessage, msg.Type)
	}
}
