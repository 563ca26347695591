package cache

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// FileCache keeps response bodies on disk, one file per blob id.
type FileCache struct {
	Dir string
}

func (f *FileCache) path(id string) string {
	return filepath.Join(f.Dir, id+".blob")
}

func (f *FileCache) Open(id string) (io.ReadCloser, error) {
	return os.Open(f.path(id))
}

// Create returns a writer for a new blob. The blob only becomes visible under its
// final name once the writer is closed without error.
func (f *FileCache) Create(id string) (io.WriteCloser, error) {
	// Ensure the directory exists
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(f.Dir, id+".*.part")
	if err != nil {
		return nil, err
	}
	return &blobWriter{File: tmp, final: f.path(id)}, nil
}

// Remove deletes a blob. Removing a missing blob is not an error.
func (f *FileCache) Remove(id string) error {
	err := os.Remove(f.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (f *FileCache) Exists(id string) bool {
	_, err := os.Stat(f.path(id))
	return err == nil
}

type blobWriter struct {
	*os.File
	final  string
	failed bool
}

// Abort discards the partially written blob.
func (w *blobWriter) Abort() {
	w.failed = true
	_ = w.File.Close()
	_ = os.Remove(w.File.Name())
}

func (w *blobWriter) Close() error {
	if w.failed {
		return nil
	}
	if err := w.File.Sync(); err != nil {
		w.Abort()
		return err
	}
	if err := w.File.Close(); err != nil {
		_ = os.Remove(w.File.Name())
		return err
	}
	return os.Rename(w.File.Name(), w.final)
}

// Abort discards w if it was returned by Create and has not been closed yet.
func Abort(w io.WriteCloser) {
	if bw, ok := w.(*blobWriter); ok {
		bw.Abort()
		return
	}
	_ = w.Close()
}
