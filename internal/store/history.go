package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/reel/internal/domain"
)

// BlobStore is the key-value persistence HistoryStore writes through
type BlobStore interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// HistoryStore implements domain.HistoryRepository on top of a BlobStore.
// Each history kind lives under its own key as a JSON array.
//
// The read-modify-write in Record is serialized within a process only.
// Two processes sharing the same file race, and the last writer wins.
type HistoryStore struct {
	mu       sync.Mutex // Guards load-push-put in Record and Clear
	blobs    BlobStore
	keys     map[domain.HistoryKind]string
	maxItems int
	logger   *slog.Logger
}

// NewHistoryStore creates a store for the given key set. maxItems caps every list.
func NewHistoryStore(blobs BlobStore, keys map[domain.HistoryKind]string, maxItems int, logger *slog.Logger) *HistoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	owned := make(map[domain.HistoryKind]string, len(keys))
	for k, v := range keys {
		owned[k] = v
	}
	return &HistoryStore{
		blobs:    blobs,
		keys:     owned,
		maxItems: maxItems,
		logger:   logger,
	}
}

func (h *HistoryStore) keyFor(kind domain.HistoryKind) (string, error) {
	key, ok := h.keys[kind]
	if !ok || key == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownHistoryKey, kind)
	}
	return key, nil
}

// Record moves or inserts entry at the front of the list and persists it
func (h *HistoryStore) Record(kind domain.HistoryKind, entry domain.HistoryEntry) error {
	key, err := h.keyFor(kind)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.load(key).Push(entry, h.maxItems)
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding %s history: %w", kind, err)
	}
	if err := h.blobs.Put(key, data); err != nil {
		return fmt.Errorf("saving %s history: %w", kind, err)
	}

	h.logger.Debug("history recorded", "list", kind.String(), "item", entry.Key().String(), "size", len(list))
	return nil
}

// Retrieve returns the list for kind. Unset, unreadable and unknown lists
// all read as empty.
func (h *HistoryStore) Retrieve(kind domain.HistoryKind) domain.HistoryList {
	key, err := h.keyFor(kind)
	if err != nil {
		h.logger.Warn("history retrieve failed", "error", err)
		return domain.HistoryList{}
	}
	return h.load(key)
}

// Clear removes every entry from the list
func (h *HistoryStore) Clear(kind domain.HistoryKind) error {
	key, err := h.keyFor(kind)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.blobs.Delete(key); err != nil {
		return fmt.Errorf("clearing %s history: %w", kind, err)
	}
	return nil
}

func (h *HistoryStore) load(key string) domain.HistoryList {
	data, ok, err := h.blobs.Get(key)
	if err != nil {
		h.logger.Error("history read failed", "key", key, "error", err)
		return domain.HistoryList{}
	}
	if !ok || len(data) == 0 {
		return domain.HistoryList{}
	}

	var list domain.HistoryList
	if err := json.Unmarshal(data, &list); err != nil {
		h.logger.Warn("discarding unreadable history", "error", &domain.StorageCorruptError{Key: key, Err: err})
		return domain.HistoryList{}
	}
	if list == nil {
		// persisted "null"
		return domain.HistoryList{}
	}
	return list
}

var _ domain.HistoryRepository = (*HistoryStore)(nil)
