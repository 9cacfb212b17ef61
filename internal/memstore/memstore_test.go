package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"scorekeeper/internal/event"
	"scorekeeper/internal/game"
	"scorekeeper/internal/rules"
	"scorekeeper/internal/store"
)

var _ store.Store = (*Store)(nil)

func ptr(v int64) *int64 { return &v }

func newGame(t *testing.T, s *Store, code string) game.Game {
	t.Helper()
	g, err := s.CreateGame(context.Background(), game.Game{TournamentID: 7, TeamAID: ptr(1), TeamBID: ptr(2), JoinCode: code})
	if err != nil {
		t.Fatalf("CreateGame() error: %v", err)
	}
	return g
}

func TestCreateAndGetGame(t *testing.T) {
	s := New()
	ctx := context.Background()

	g := newGame(t, s, "AAAA")
	if g.ID != 1 || g.Created.IsZero() {
		t.Errorf("CreateGame() = %+v", g)
	}
	if got, err := s.GetGame(ctx, g.ID); err != nil || got.JoinCode != "AAAA" {
		t.Errorf("GetGame() = %+v, %v", got, err)
	}
	if got, err := s.GetGameByCode(ctx, "AAAA"); err != nil || got.ID != g.ID {
		t.Errorf("GetGameByCode() = %+v, %v", got, err)
	}
	if _, err := s.GetGame(ctx, 99); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetGame(99) error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetGameByCode(ctx, "ZZZZ"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetGameByCode(ZZZZ) error = %v, want ErrNotFound", err)
	}
	if _, err := s.CreateGame(ctx, game.Game{JoinCode: "AAAA"}); !errors.Is(err, store.ErrCodeTaken) {
		t.Errorf("duplicate code error = %v, want ErrCodeTaken", err)
	}
}

func TestListGames(t *testing.T) {
	s := New()
	ctx := context.Background()
	newGame(t, s, "AAAA")
	newGame(t, s, "BBBB")
	s.CreateGame(ctx, game.Game{TournamentID: 8, JoinCode: "CCCC"})

	all, _ := s.ListGames(ctx, 0)
	if len(all) != 3 {
		t.Errorf("ListGames(0) = %d games, want 3", len(all))
	}
	t7, _ := s.ListGames(ctx, 7)
	if len(t7) != 2 || t7[0].JoinCode != "AAAA" || t7[1].JoinCode != "BBBB" {
		t.Errorf("ListGames(7) = %+v", t7)
	}
}

func TestAppendEvent_NewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	g := newGame(t, s, "AAAA")

	if _, err := s.AppendEvent(ctx, event.Raw{GameID: g.ID, TeamID: ptr(1), TypeID: 21}, rules.CheckAppend); err != nil {
		t.Fatalf("append start: %v", err)
	}
	three := 3
	appended, err := s.AppendEvent(ctx, event.Raw{GameID: g.ID, TeamID: ptr(1), TypeID: 11, Time: 12, Points: &three}, rules.CheckAppend)
	if err != nil {
		t.Fatalf("append points: %v", err)
	}
	if appended.Info().ID != 2 || appended.Info().Created.IsZero() {
		t.Errorf("appended = %+v, want id 2 and created set", appended.Info())
	}

	events, err := s.ListEvents(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].Type() != event.TypePoints || events[1].Type() != event.TypeGameStart {
		t.Errorf("events = %v, want points then start", events)
	}
}

func TestAppendEvent_Rejections(t *testing.T) {
	s := New()
	ctx := context.Background()
	g := newGame(t, s, "AAAA")

	_, err := s.AppendEvent(ctx, event.Raw{GameID: g.ID, TypeID: 31}, rules.CheckAppend)
	if !errors.Is(err, rules.ErrNotStarted) {
		t.Errorf("fault before start error = %v, want ErrNotStarted", err)
	}
	_, err = s.AppendEvent(ctx, event.Raw{GameID: g.ID, TypeID: 77}, rules.CheckAppend)
	var typeErr *event.UnknownTypeError
	if !errors.As(err, &typeErr) || typeErr.TypeID != 77 {
		t.Errorf("unknown type error = %v", err)
	}
	_, err = s.AppendEvent(ctx, event.Raw{GameID: 42, TypeID: 21}, nil)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing game error = %v, want ErrNotFound", err)
	}

	events, _ := s.ListEvents(ctx, g.ID)
	if len(events) != 0 {
		t.Errorf("rejected appends left %d events", len(events))
	}
}

func TestAppendEvent_StoredCopyIsIsolated(t *testing.T) {
	s := New()
	ctx := context.Background()
	g := newGame(t, s, "AAAA")

	team := int64(1)
	s.AppendEvent(ctx, event.Raw{GameID: g.ID, TeamID: &team, TypeID: 21}, nil)
	team = 2

	events, _ := s.ListEvents(ctx, g.ID)
	if id, _ := event.Team(events[0]); id != 1 {
		t.Errorf("stored team = %d, want 1", id)
	}
}

func TestListEvents_CorruptLog(t *testing.T) {
	s := New()
	g := newGame(t, s, "AAAA")
	s.Put(event.Raw{GameID: g.ID, TypeID: 21})
	s.Put(event.Raw{GameID: g.ID, TypeID: 55})

	_, err := s.ListEvents(context.Background(), g.ID)
	if !errors.Is(err, event.ErrUnknownEventType) {
		t.Errorf("ListEvents() error = %v, want ErrUnknownEventType", err)
	}
}

func TestRemoveLatestEvent(t *testing.T) {
	s := New()
	ctx := context.Background()
	g := newGame(t, s, "AAAA")

	start, _ := s.AppendEvent(ctx, event.Raw{GameID: g.ID, TeamID: ptr(1), TypeID: 21}, nil)
	death, _ := s.AppendEvent(ctx, event.Raw{GameID: g.ID, TeamID: ptr(1), TypeID: 12, Time: 3}, nil)

	if err := s.RemoveLatestEvent(ctx, g.ID, start.Info().ID, rules.CheckRemove); !errors.Is(err, rules.ErrNotLatest) {
		t.Errorf("remove older error = %v, want ErrNotLatest", err)
	}
	if err := s.RemoveLatestEvent(ctx, g.ID, death.Info().ID, rules.CheckRemove); err != nil {
		t.Fatalf("RemoveLatestEvent() error: %v", err)
	}
	if err := s.RemoveLatestEvent(ctx, g.ID, death.Info().ID, nil); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("remove twice error = %v, want ErrNotFound", err)
	}

	events, _ := s.ListEvents(ctx, g.ID)
	if len(events) != 1 || events[0].Info().ID != start.Info().ID {
		t.Errorf("events after remove = %v", events)
	}
}

func TestRemoveLatestEvent_UnknownGame(t *testing.T) {
	s := New()
	err := s.RemoveLatestEvent(context.Background(), 99, 1, rules.CheckRemove)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("RemoveLatestEvent() error = %v, want ErrNotFound", err)
	}
}

func TestAppendEvent_Serialized(t *testing.T) {
	s := New()
	ctx := context.Background()
	g := newGame(t, s, "AAAA")

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AppendEvent(ctx, event.Raw{GameID: g.ID, TeamID: ptr(1), TypeID: 21}, rules.CheckAppend)
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if ok != 1 {
		t.Errorf("%d concurrent starts succeeded, want 1", ok)
	}
}
