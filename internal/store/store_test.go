package store

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/datallboy/mediashelf/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "https://media.example/a1.mp3"

func newTestStore(t *testing.T) (*PersistentStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewPersistentStore(filepath.Join(dir, "db", "mediashelf.db"), filepath.Join(dir, "blobs"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, dir
}

func readBody(t *testing.T, r io.ReadCloser) string {
	t.Helper()
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestPutAndMatchEntry(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	header := http.Header{}
	header.Set("Content-Type", "audio/mpeg")

	entry, err := s.PutEntry(ctx, domain.DefaultCacheName, testURL, http.StatusOK, header, bytes.NewBufferString("mp3-bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("mp3-bytes")), entry.Size)

	got, body, err := s.MatchEntry(ctx, domain.DefaultCacheName, testURL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, got.Status)
	assert.Equal(t, "audio/mpeg", got.Header.Get("Content-Type"))
	assert.Equal(t, "mp3-bytes", readBody(t, body))
}

func TestMatchEntry_Miss(t *testing.T) {
	s, _ := newTestStore(t)

	_, _, err := s.MatchEntry(context.Background(), domain.DefaultCacheName, testURL)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMatchEntry_IsScopedByCacheName(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.PutEntry(ctx, "media-cache-v1", testURL, http.StatusOK, nil, bytes.NewBufferString("v1"))
	require.NoError(t, err)

	_, _, err = s.MatchEntry(ctx, "media-cache-v2", testURL)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestPutEntry_ReplacesPreviousBlob(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first, err := s.PutEntry(ctx, domain.DefaultCacheName, testURL, http.StatusOK, nil, bytes.NewBufferString("old"))
	require.NoError(t, err)
	second, err := s.PutEntry(ctx, domain.DefaultCacheName, testURL, http.StatusOK, nil, bytes.NewBufferString("new"))
	require.NoError(t, err)

	assert.False(t, s.blobs.Exists(first.BlobID), "replaced blob should be removed")
	assert.True(t, s.blobs.Exists(second.BlobID))

	_, body, err := s.MatchEntry(ctx, domain.DefaultCacheName, testURL)
	require.NoError(t, err)
	assert.Equal(t, "new", readBody(t, body))

	entries, err := s.ListEntries(ctx, domain.DefaultCacheName)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDeleteEntry(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	entry, err := s.PutEntry(ctx, domain.DefaultCacheName, testURL, http.StatusOK, nil, bytes.NewBufferString("x"))
	require.NoError(t, err)

	removed, err := s.DeleteEntry(ctx, domain.DefaultCacheName, testURL)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, s.blobs.Exists(entry.BlobID))

	_, _, err = s.MatchEntry(ctx, domain.DefaultCacheName, testURL)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	// Absent key is a no-op
	removed, err = s.DeleteEntry(ctx, domain.DefaultCacheName, testURL)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestPurgeCachesExcept(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	old, err := s.PutEntry(ctx, "media-cache-v1", testURL, http.StatusOK, nil, bytes.NewBufferString("v1"))
	require.NoError(t, err)
	_, err = s.PutEntry(ctx, "media-cache-v2", testURL, http.StatusOK, nil, bytes.NewBufferString("v2"))
	require.NoError(t, err)

	n, err := s.PurgeCachesExcept(ctx, "media-cache-v2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, s.blobs.Exists(old.BlobID))

	_, body, err := s.MatchEntry(ctx, "media-cache-v2", testURL)
	require.NoError(t, err)
	assert.Equal(t, "v2", readBody(t, body))

	n, err = s.PurgeCachesExcept(ctx, "media-cache-v2")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEntriesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "mediashelf.db")
	blobDir := filepath.Join(dir, "blobs")
	ctx := context.Background()

	s, err := NewPersistentStore(dbPath, blobDir)
	require.NoError(t, err)
	assert.EqualValues(t, 1, s.SchemaVersion())
	_, err = s.PutEntry(ctx, domain.DefaultCacheName, testURL, http.StatusOK, nil, bytes.NewBufferString("durable"))
	require.NoError(t, err)
	require.NoError(t, s.SetPref(ctx, "library.offline", `["a1"]`))
	require.NoError(t, s.Close())

	// Already migrated: no change, same version
	reopened, err := NewPersistentStore(dbPath, blobDir)
	require.NoError(t, err)
	defer reopened.Close()
	assert.EqualValues(t, 1, reopened.SchemaVersion())

	_, body, err := reopened.MatchEntry(ctx, domain.DefaultCacheName, testURL)
	require.NoError(t, err)
	assert.Equal(t, "durable", readBody(t, body))

	value, found, err := reopened.GetPref(ctx, "library.offline")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["a1"]`, value)
}

func TestPrefs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, found, err := s.GetPref(ctx, "library.favorites")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SetPref(ctx, "library.favorites", `["b1"]`))
	require.NoError(t, s.SetPref(ctx, "library.favorites", `["b1","e2"]`))

	value, found, err := s.GetPref(ctx, "library.favorites")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["b1","e2"]`, value)
}
