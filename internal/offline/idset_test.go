package offline

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/datallboy/mediashelf/internal/infra/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPrefs struct {
	mu      sync.Mutex
	values  map[string]string
	writes  int
	failGet bool
	failSet bool
}

func newMemPrefs() *memPrefs {
	return &memPrefs{values: make(map[string]string)}
}

func (m *memPrefs) GetPref(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return "", false, errors.New("disk I/O error")
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memPrefs) SetPref(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errors.New("disk full")
	}
	m.values[key] = value
	m.writes++
	return nil
}

func discard() *logger.Logger {
	return logger.NewWithWriter(io.Discard, logger.LevelDebug)
}

func TestIDSet_RoundTrip(t *testing.T) {
	prefs := newMemPrefs()
	ctx := context.Background()

	s := LoadIDSet(ctx, prefs, OfflineKey, discard())
	require.NoError(t, s.Add(ctx, "e1"))
	require.NoError(t, s.Add(ctx, "a1"))
	require.NoError(t, s.Add(ctx, "a3"))

	assert.Equal(t, `["a1","a3","e1"]`, prefs.values[OfflineKey])

	reloaded := LoadIDSet(ctx, prefs, OfflineKey, discard())
	assert.Equal(t, s.IDs(), reloaded.IDs())
	assert.True(t, reloaded.Has("a3"))
}

func TestIDSet_WriteThroughOnEveryMutation(t *testing.T) {
	prefs := newMemPrefs()
	ctx := context.Background()
	s := LoadIDSet(ctx, prefs, FavoritesKey, discard())

	require.NoError(t, s.Add(ctx, "b1"))
	require.NoError(t, s.Remove(ctx, "b1"))
	member, err := s.Toggle(ctx, "b2")
	require.NoError(t, err)
	assert.True(t, member)

	assert.Equal(t, 3, prefs.writes)
	assert.Equal(t, `["b2"]`, prefs.values[FavoritesKey])
}

func TestLoadIDSet_Fallbacks(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		prefs *memPrefs
	}{
		{name: "absent", prefs: newMemPrefs()},
		{name: "malformed", prefs: &memPrefs{values: map[string]string{OfflineKey: "{not json"}}},
		{name: "wrong shape", prefs: &memPrefs{values: map[string]string{OfflineKey: `{"a1":true}`}}},
		{name: "read error", prefs: &memPrefs{values: map[string]string{}, failGet: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := LoadIDSet(ctx, tt.prefs, OfflineKey, discard())
			assert.Zero(t, s.Len())
		})
	}
}

func TestIDSet_PersistFailureKeepsMemoryState(t *testing.T) {
	prefs := newMemPrefs()
	prefs.failSet = true
	ctx := context.Background()
	s := LoadIDSet(ctx, prefs, OfflineKey, discard())

	err := s.Add(ctx, "a1")
	assert.Error(t, err)
	assert.True(t, s.Has("a1"))
}
