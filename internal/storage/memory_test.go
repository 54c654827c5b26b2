package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hammamikhairi/ottocode/internal/domain"
	"github.com/hammamikhairi/ottocode/internal/logger"
)

func TestMemoryStoreCRUD(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	session := domain.NewSession("test-session-1")
	session.Language = "go"

	// Save.
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Load.
	loaded, err := store.Load(ctx, "test-session-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ID != session.ID || loaded.Language != "go" {
		t.Fatalf("loaded %+v", loaded)
	}

	// Load nonexistent.
	if _, err := store.Load(ctx, "nonexistent"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Delete.
	if err := store.Delete(ctx, "test-session-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, "test-session-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Delete nonexistent.
	if err := store.Delete(ctx, "nonexistent"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	store := NewMemoryStore(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	s := domain.NewSession("s1")
	s.Input = []string{"x = 1"}
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the caller's copy must not leak into the store.
	s.Input[0] = "mutated"
	s.Language = "rust"

	loaded, _ := store.Load(ctx, "s1")
	if loaded.Input[0] != "x = 1" || loaded.Language != domain.DefaultLanguage {
		t.Fatalf("store shares state with caller: %+v", loaded)
	}

	loaded.Input = append(loaded.Input, "y = 2")
	again, _ := store.Load(ctx, "s1")
	if len(again.Input) != 1 {
		t.Fatalf("store shares state with loaded copy: %+v", again)
	}
}

func TestMemoryStoreUpdate(t *testing.T) {
	store := NewMemoryStore(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	if _, err := store.Update(ctx, "missing", func(*domain.Session) {}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Save(ctx, domain.NewSession("s1")); err != nil {
		t.Fatalf("save: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update(ctx, "s1", func(s *domain.Session) {
				s.Input = append(s.Input, "line")
			})
		}()
	}
	wg.Wait()

	got, _ := store.Load(ctx, "s1")
	if len(got.Input) != 50 {
		t.Fatalf("expected 50 lines after concurrent updates, got %d", len(got.Input))
	}
}
