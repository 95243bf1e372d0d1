package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/storage/memory/v2"
)

type testRecord struct {
	Name     string `json:"name"      redis:"name"`
	Count    int    `json:"count"     redis:"count"`
	LastSeen int64  `json:"last_seen" redis:"last_seen"`
}

func newTestStorage() *MemoryStorage {
	return NewMemoryStorage(memory.New())
}

func TestMemoryStorage_SetGet(t *testing.T) {
	s := newTestStorage()
	ctx := context.Background()

	if err := s.Set(ctx, "k", &testRecord{Name: "alice", Count: 2}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	var got testRecord
	if err := s.Get(ctx, "k", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "alice" || got.Count != 2 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestMemoryStorage_MissingKey(t *testing.T) {
	s := newTestStorage()
	var got testRecord
	if err := s.Get(context.Background(), "missing", &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
	if err := s.SetAttr(context.Background(), "missing", "name", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on SetAttr, got %v", err)
	}
}

func TestMemoryStorage_SetAttrKeepsOtherFields(t *testing.T) {
	s := newTestStorage()
	ctx := context.Background()
	if err := s.Set(ctx, "k", &testRecord{Name: "bob", Count: 1}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.SetAttr(ctx, "k", "last_seen", int64(42)); err != nil {
		t.Fatalf("SetAttr failed: %v", err)
	}
	var got testRecord
	if err := s.Get(ctx, "k", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "bob" || got.Count != 1 || got.LastSeen != 42 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestPrefixedStore(t *testing.T) {
	s := newTestStorage()
	ctx := context.Background()
	typed := New[testRecord](s, "p:")

	if err := typed.Set(ctx, "k", testRecord{Name: "carol"}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	var raw testRecord
	if err := s.Get(ctx, "p:k", &raw); err != nil {
		t.Fatalf("expected prefixed key to exist: %v", err)
	}
	got, err := typed.Get(ctx, "k")
	if err != nil || got.Name != "carol" {
		t.Fatalf("unexpected result %+v, %v", got, err)
	}
	if err := typed.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := typed.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
