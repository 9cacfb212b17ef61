package broadcast

import (
	"encoding/json"
	"testing"
	"time"

	"scorekeeper/internal/bus"
	"scorekeeper/internal/event"
	"scorekeeper/internal/game"
)

func TestNewBroadcaster(t *testing.T) {
	b := NewBroadcaster(bus.NewBus())
	if b == nil {
		t.Fatal("NewBroadcaster() returned nil")
	}
}

func TestBroadcaster_SubscribeUnsubscribe(t *testing.T) {
	b := NewBroadcaster(bus.NewBus())

	ch := b.Subscribe()
	if ch == nil {
		t.Fatal("Subscribe() returned nil")
	}
	if b.Count() != 1 {
		t.Errorf("clients count = %d, want 1", b.Count())
	}

	b.Unsubscribe(ch)
	if b.Count() != 0 {
		t.Errorf("clients count after unsubscribe = %d, want 0", b.Count())
	}

	// A second unsubscribe must not close the channel twice.
	b.Unsubscribe(ch)
}

func TestBroadcaster_Broadcast(t *testing.T) {
	b := NewBroadcaster(bus.NewBus())

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()

	b.Broadcast("test-event", []byte("hello"))

	for i, ch := range []chan Message{ch1, ch2} {
		select {
		case msg := <-ch:
			if msg.Event != "test-event" || string(msg.Data) != "hello" {
				t.Errorf("ch%d got %+v, want event=test-event, data=hello", i+1, msg)
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("ch%d timed out", i+1)
		}
	}

	b.Unsubscribe(ch1)
	b.Unsubscribe(ch2)
}

func TestBroadcaster_SkipsFullChannels(t *testing.T) {
	b := NewBroadcaster(bus.NewBus())

	ch := b.Subscribe()

	// Fill the channel buffer (capacity 10)
	for i := 0; i < 10; i++ {
		b.Broadcast("fill", nil)
	}

	done := make(chan bool)
	go func() {
		b.Broadcast("overflow", nil)
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Broadcast blocked on full channel")
	}

	b.Unsubscribe(ch)
}

func TestBroadcaster_StateForwarding(t *testing.T) {
	bs := bus.NewBus()
	b := NewBroadcaster(bs)

	heard := make(chan bus.StateChange, 1)
	b.Listen(func(c bus.StateChange) { heard <- c })
	ch := b.Subscribe()

	team := int64(4)
	bs.Changes <- bus.StateChange{
		GameID: 9,
		Reason: bus.Appended,
		Event:  event.Death{Base: event.Base{ID: 5, GameID: 9, TeamID: &team, Time: 30}},
		State:  game.State{Phase: game.Started, DeathCount: 1},
	}

	select {
	case msg := <-ch:
		if msg.Event != "state" {
			t.Errorf("Event = %q, want state", msg.Event)
		}
		var p Payload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if p.GameID != 9 || p.Reason != bus.Appended || p.State.DeathCount != 1 {
			t.Errorf("payload = %+v", p)
		}
		if p.Event == nil || p.Event.TypeID != int(event.TypeDeath) || p.Event.EventID != 5 {
			t.Errorf("payload event = %+v", p.Event)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for state broadcast")
	}

	select {
	case c := <-heard:
		if c.GameID != 9 {
			t.Errorf("listener got game %d, want 9", c.GameID)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("listener not called")
	}
}

func TestBroadcaster_ClosedBusClosesSubscribers(t *testing.T) {
	bs := bus.NewBus()
	b := NewBroadcaster(bs)
	ch := b.Subscribe()

	close(bs.Changes)

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("subscriber not closed")
	}

	late := b.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscribe after shutdown should return a closed channel")
	}
}
