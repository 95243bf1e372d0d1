package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/storage/memory/v2"
)

type memoryEntry struct {
	Fields    map[string]any `json:"f"`
	ExpiresAt int64          `json:"e,omitempty"`
}

// MemoryStorage keeps hashes in process memory. Values are encoded with their
// json tags, which must match the redis tags used by RedisStorage.
type MemoryStorage struct {
	mem *memory.Storage
}

func (s *MemoryStorage) Conn() *memory.Storage {
	return s.mem
}

func (s *MemoryStorage) load(key string) (*memoryEntry, error) {
	raw, err := s.mem.Get(key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	var entry memoryEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *MemoryStorage) save(key string, entry *memoryEntry) error {
	var ttl time.Duration
	if entry.ExpiresAt > 0 {
		ttl = time.Until(time.UnixMilli(entry.ExpiresAt))
		if ttl <= 0 {
			return s.mem.Delete(key)
		}
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.mem.Set(key, raw, ttl)
}

func (s *MemoryStorage) Get(ctx context.Context, key string, val any) error {
	entry, err := s.load(key)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(entry.Fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, val)
}

func (s *MemoryStorage) Set(ctx context.Context, key string, val any, expiresIn time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	entry := memoryEntry{}
	if err := json.Unmarshal(raw, &entry.Fields); err != nil {
		return err
	}
	if expiresIn > 0 {
		entry.ExpiresAt = time.Now().Add(expiresIn).UnixMilli()
	}
	return s.save(key, &entry)
}

func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.load(key); err != nil {
		return err
	}
	return s.mem.Delete(key)
}

func (s *MemoryStorage) SetAttr(ctx context.Context, key string, field string, val any) error {
	entry, err := s.load(key)
	if err != nil {
		return err
	}
	if entry.Fields == nil {
		entry.Fields = make(map[string]any)
	}
	entry.Fields[field] = val
	return s.save(key, entry)
}

func NewMemoryStorage(mem *memory.Storage) *MemoryStorage {
	return &MemoryStorage{
		mem: mem,
	}
}
