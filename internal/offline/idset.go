package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/datallboy/mediashelf/internal/infra/logger"
)

// Well-known preference keys of the persisted id sets.
const (
	FavoritesKey = "library.favorites"
	OfflineKey   = "library.offline"
)

type prefStore interface {
	GetPref(ctx context.Context, key string) (string, bool, error)
	SetPref(ctx context.Context, key, value string) error
}

// IDSet is a set of item ids persisted as a JSON array under a single key.
// Every mutation rewrites the whole array.
type IDSet struct {
	mu    sync.RWMutex
	key   string
	ids   map[string]struct{}
	prefs prefStore
}

// LoadIDSet reads the set stored under key. Missing or unreadable content yields an
// empty set; it never fails.
func LoadIDSet(ctx context.Context, prefs prefStore, key string, log *logger.Logger) *IDSet {
	s := &IDSet{key: key, ids: make(map[string]struct{}), prefs: prefs}

	raw, found, err := prefs.GetPref(ctx, key)
	if err != nil {
		log.Warn("Could not read %s, starting empty: %v", key, err)
		return s
	}
	if !found {
		return s
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.Warn("Malformed %s, starting empty: %v", key, err)
		return s
	}

	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s *IDSet) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

func (s *IDSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IDs returns the members sorted.
func (s *IDSet) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

// Add inserts id and persists the set. The in-memory set keeps the change even if
// persisting fails.
func (s *IDSet) Add(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
	return s.persistLocked(ctx)
}

func (s *IDSet) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
	return s.persistLocked(ctx)
}

// Toggle flips membership of id and reports whether it is now a member.
func (s *IDSet) Toggle(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, member := s.ids[id]
	if member {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
	return !member, s.persistLocked(ctx)
}

func (s *IDSet) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.sortedLocked())
	if err != nil {
		return err
	}
	if err := s.prefs.SetPref(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", s.key, err)
	}
	return nil
}

func (s *IDSet) sortedLocked() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
