package broadcast

import (
	"encoding/json"
	"slices"
	"sync"

	"go.uber.org/zap"

	"scorekeeper/internal/bus"
	"scorekeeper/internal/event"
	"scorekeeper/internal/game"
)

// Message is one server-sent event: Event names it and Data is its JSON body.
type Message struct {
	Event string
	Data  []byte
}

// Payload is the JSON body of a state message.
type Payload struct {
	GameID  int64      `json:"gameId"`
	Reason  bus.Reason `json:"reason"`
	Event   *event.Raw `json:"event,omitempty"`
	EventID int64      `json:"eventId,omitempty"`
	State   game.State `json:"state"`
}

func NewPayload(c bus.StateChange) Payload {
	p := Payload{GameID: c.GameID, Reason: c.Reason, EventID: c.EventID, State: c.State}
	if c.Event != nil {
		raw := event.Encode(c.Event)
		p.Event = &raw
	}
	return p
}

type Broadcaster struct {
	Mu        sync.Mutex
	Clients   map[chan Message]bool
	listeners []func(bus.StateChange)
	closed    bool
	log       *zap.Logger
}

// NewBroadcaster forwards every change on b to the SSE subscribers and the
// registered listeners until b.Changes is closed, then closes all
// subscriber channels.
func NewBroadcaster(b *bus.Bus) *Broadcaster {
	bc := &Broadcaster{
		Clients: make(map[chan Message]bool),
		log:     zap.L().Named("broadcast"),
	}
	go func() {
		for c := range b.Changes {
			bc.BroadcastState(c)
		}
		bc.closeAll()
	}()
	return bc
}

// Listen registers fn to be called with every change, on the forwarding
// goroutine.
func (b *Broadcaster) Listen(fn func(bus.StateChange)) {
	b.Mu.Lock()
	b.listeners = append(b.listeners, fn)
	b.Mu.Unlock()
}

// Subscribe returns a channel of messages. It is closed right away when the
// broadcaster has already shut down.
func (b *Broadcaster) Subscribe() chan Message {
	ch := make(chan Message, 10)
	b.Mu.Lock()
	defer b.Mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.Clients[ch] = true
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan Message) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	if b.Clients[ch] {
		delete(b.Clients, ch)
		close(ch)
	}
}

func (b *Broadcaster) Count() int {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	return len(b.Clients)
}

func (b *Broadcaster) BroadcastState(c bus.StateChange) {
	data, err := json.Marshal(NewPayload(c))
	if err != nil {
		b.log.Error("marshal state", zap.Int64("game", c.GameID), zap.Error(err))
		return
	}
	b.Broadcast("state", data)

	b.Mu.Lock()
	listeners := slices.Clone(b.listeners)
	b.Mu.Unlock()
	for _, fn := range listeners {
		fn(c)
	}
}

func (b *Broadcaster) Broadcast(event string, data []byte) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- Message{Event: event, Data: data}:
		default:
			// skip clients with full data channels
		}
	}
}

func (b *Broadcaster) closeAll() {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	b.closed = true
	for ch := range b.Clients {
		delete(b.Clients, ch)
		close(ch)
	}
}
