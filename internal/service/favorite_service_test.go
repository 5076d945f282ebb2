package service

import (
	"context"
	"errors"
	"testing"

	"github.com/njprem/NoirBrew_Web/internal/domain"
	"github.com/njprem/NoirBrew_Web/internal/repository/memory"
	"github.com/njprem/NoirBrew_Web/internal/repository/ports"
)

func TestToggleFavoriteAddThenRemove(t *testing.T) {
	cases := map[string]func() ports.KeyValueStore{
		"batch": func() ports.KeyValueStore { return memory.NewKeyValueStore() },
		"plain": func() ports.KeyValueStore { return &plainStore{inner: memory.NewKeyValueStore()} },
	}
	for name, newStore := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore()
			svc := NewFavoriteService(store, discardLogger())

			saved := place("b", floatPtr(4.1), intPtr(2))
			if _, err := svc.ToggleFavorite(ctx, "b", &saved); err != nil {
				t.Fatalf("seed favorite returned error: %v", err)
			}
			idsBefore, dataBefore := readFavoriteKeys(t, store)

			p := place("a", floatPtr(4.5), nil)
			on, err := svc.ToggleFavorite(ctx, "a", &p)
			if err != nil {
				t.Fatalf("ToggleFavorite returned error: %v", err)
			}
			if !on {
				t.Fatal("expected favorite to be on after first toggle")
			}
			if fav, _ := svc.IsFavorite(ctx, "a"); !fav {
				t.Fatal("expected IsFavorite true")
			}

			on, err = svc.ToggleFavorite(ctx, "a", nil)
			if err != nil {
				t.Fatalf("ToggleFavorite returned error: %v", err)
			}
			if on {
				t.Fatal("expected favorite to be off after second toggle")
			}

			idsAfter, dataAfter := readFavoriteKeys(t, store)
			if idsAfter != idsBefore {
				t.Fatalf("%s changed: before %s after %s", FavoriteIDsKey, idsBefore, idsAfter)
			}
			if dataAfter != dataBefore {
				t.Fatalf("%s changed: before %s after %s", FavoriteDataKey, dataBefore, dataAfter)
			}
			records, err := svc.AllFavoriteRecords(ctx)
			if err != nil {
				t.Fatalf("AllFavoriteRecords returned error: %v", err)
			}
			if len(records) != 1 || records[0].ID != "b" {
				t.Fatalf("expected only b to remain, got %v", records)
			}
			if n, _ := svc.Count(ctx); n != 1 {
				t.Fatalf("expected count 1, got %d", n)
			}
		})
	}
}

func readFavoriteKeys(t *testing.T, store ports.KeyValueStore) (string, string) {
	t.Helper()
	ids, ok, err := store.Get(context.Background(), FavoriteIDsKey)
	if err != nil || !ok {
		t.Fatalf("read %s: ok=%v err=%v", FavoriteIDsKey, ok, err)
	}
	data, ok, err := store.Get(context.Background(), FavoriteDataKey)
	if err != nil || !ok {
		t.Fatalf("read %s: ok=%v err=%v", FavoriteDataKey, ok, err)
	}
	return ids, data
}

func TestFavoriteRecordsKeepAddOrder(t *testing.T) {
	ctx := context.Background()
	svc := NewFavoriteService(memory.NewKeyValueStore(), discardLogger())

	for _, id := range []string{"c", "a", "b"} {
		p := place(id, nil, nil)
		if _, err := svc.ToggleFavorite(ctx, id, &p); err != nil {
			t.Fatalf("ToggleFavorite(%s) returned error: %v", id, err)
		}
	}
	if _, err := svc.ToggleFavorite(ctx, "a", nil); err != nil {
		t.Fatalf("remove a returned error: %v", err)
	}

	records, err := svc.AllFavoriteRecords(ctx)
	if err != nil {
		t.Fatalf("AllFavoriteRecords returned error: %v", err)
	}
	expected := []string{"c", "b"}
	if len(records) != len(expected) {
		t.Fatalf("expected %d records, got %d", len(expected), len(records))
	}
	for i, id := range expected {
		if records[i].ID != id {
			t.Fatalf("expected %q at %d, got %q", id, i, records[i].ID)
		}
	}
}

func TestToggleFavoriteRequiresRecord(t *testing.T) {
	svc := NewFavoriteService(memory.NewKeyValueStore(), discardLogger())

	_, err := svc.ToggleFavorite(context.Background(), "missing", nil)
	if !errors.Is(err, domain.ErrFavoriteRecordRequired) {
		t.Fatalf("expected ErrFavoriteRecordRequired, got %v", err)
	}

	p := place("other", nil, nil)
	_, err = svc.ToggleFavorite(context.Background(), "missing", &p)
	if !errors.Is(err, ErrFavoriteRecordMismatch) {
		t.Fatalf("expected ErrFavoriteRecordMismatch, got %v", err)
	}
}

func TestFavoritesRecoverFromUnreadableData(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKeyValueStore()
	if err := store.Set(ctx, FavoriteIDsKey, "not json"); err != nil {
		t.Fatalf("seed ids: %v", err)
	}
	if err := store.Set(ctx, FavoriteDataKey, "{broken"); err != nil {
		t.Fatalf("seed data: %v", err)
	}

	svc := NewFavoriteService(store, discardLogger())
	ids, err := svc.IDs(ctx)
	if err != nil {
		t.Fatalf("IDs returned error: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty ids, got %v", ids)
	}

	p := place("a", nil, nil)
	if on, err := svc.ToggleFavorite(ctx, "a", &p); err != nil || !on {
		t.Fatalf("expected add to succeed, got (%v, %v)", on, err)
	}
}

func TestFavoritesPersistWithoutBatchWriter(t *testing.T) {
	ctx := context.Background()
	store := &plainStore{inner: memory.NewKeyValueStore()}
	svc := NewFavoriteService(store, discardLogger())

	p := place("a", nil, nil)
	if _, err := svc.ToggleFavorite(ctx, "a", &p); err != nil {
		t.Fatalf("ToggleFavorite returned error: %v", err)
	}

	reloaded := NewFavoriteService(store, discardLogger())
	records, err := reloaded.AllFavoriteRecords(ctx)
	if err != nil {
		t.Fatalf("AllFavoriteRecords returned error: %v", err)
	}
	if len(records) != 1 || records[0].ID != "a" {
		t.Fatalf("expected persisted record a, got %v", records)
	}
}

func TestFavoritesRollBackDataWhenIDWriteFails(t *testing.T) {
	ctx := context.Background()
	store := &plainStore{inner: memory.NewKeyValueStore()}
	svc := NewFavoriteService(store, discardLogger())

	p := place("a", nil, nil)
	if _, err := svc.ToggleFavorite(ctx, "a", &p); err != nil {
		t.Fatalf("ToggleFavorite returned error: %v", err)
	}

	store.failKey = FavoriteIDsKey
	q := place("b", nil, nil)
	if _, err := svc.ToggleFavorite(ctx, "b", &q); !errors.Is(err, errWriteFailed) {
		t.Fatalf("expected errWriteFailed, got %v", err)
	}

	store.failKey = ""
	raw, _, _ := store.Get(ctx, FavoriteDataKey)
	if raw == "" {
		t.Fatal("expected data key to be restored")
	}
	records, err := svc.AllFavoriteRecords(ctx)
	if err != nil {
		t.Fatalf("AllFavoriteRecords returned error: %v", err)
	}
	if len(records) != 1 || records[0].ID != "a" {
		t.Fatalf("expected only record a after rollback, got %v", records)
	}
}
