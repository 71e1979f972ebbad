// Package bookmark keeps the set of bookmarked repository ids.
//
// The ids live under a single key as a serialized JSON array. Every toggle
// reads the array and rewrites it wholesale.
package bookmark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/naka-gawa/repo-explorer/internal/kv"
)

// Key is the storage key holding the bookmarked ids.
const Key = "github-bookmarks"

// ErrCorrupt is returned when the stored value is not a JSON array of ids.
var ErrCorrupt = errors.New("corrupt bookmark data")

// Service toggles and lists bookmarks.
type Service struct {
	store  kv.Store
	logger *zap.Logger
	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

// NewService creates a Service over store.
func NewService(store kv.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// List returns the bookmarked ids in the order they were added.
func (s *Service) List(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// IsBookmarked reports whether id is bookmarked.
func (s *Service) IsBookmarked(ctx context.Context, id int64) (bool, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(ids, id) >= 0, nil
}

// Toggle removes id if it is bookmarked and appends it otherwise.
// It reports whether id is bookmarked afterwards.
func (s *Service) Toggle(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	bookmarked := false
	if i := indexOf(ids, id); i >= 0 {
		ids = append(ids[:i], ids[i+1:]...)
	} else {
		ids = append(ids, id)
		bookmarked = true
	}

	if err := s.save(ctx, ids); err != nil {
		return false, err
	}
	s.logger.Debug("toggled bookmark", zap.Int64("id", id), zap.Bool("bookmarked", bookmarked))
	return bookmarked, nil
}

func (s *Service) load(ctx context.Context) ([]int64, error) {
	raw, ok, err := s.store.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}
	ids := []int64{}
	if !ok || raw == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if ids == nil {
		// A stored "null" decodes to nil.
		ids = []int64{}
	}
	return ids, nil
}

func (s *Service) save(ctx context.Context, ids []int64) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode bookmarks: %w", err)
	}
	if err := s.store.Set(ctx, Key, string(raw)); err != nil {
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}
	return nil
}

func indexOf(ids []int64, id int64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
