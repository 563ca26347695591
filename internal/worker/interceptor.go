package worker

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/datallboy/mediashelf/internal/domain"
)

// Interceptor applies the cache-first policy to GET requests for the allowed media
// origins. A miss goes to the network and is not stored; only a DOWNLOAD command
// populates the cache. Every other request passes through untouched.
type Interceptor struct {
	w *Worker
}

// Transport returns the interceptor as an http.RoundTripper for playback clients.
func (w *Worker) Transport() http.RoundTripper {
	return &Interceptor{w: w}
}

// Client returns an http.Client whose requests go through the interceptor.
func (w *Worker) Client() *http.Client {
	return &http.Client{Transport: w.Transport()}
}

// Intercepts reports whether req falls under the cache policy.
func (w *Worker) Intercepts(req *http.Request) bool {
	if req.Method != http.MethodGet || req.URL == nil {
		return false
	}
	_, ok := w.origins[originOf(req.URL)]
	return ok
}

func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	w := i.w
	if !w.Intercepts(req) {
		return w.network.RoundTrip(req)
	}

	done := w.events.extend()
	defer done()

	key := cacheKey(req.URL)
	entry, body, err := w.store.MatchEntry(req.Context(), w.cacheName, key)
	if err == nil {
		w.log.Info("Serving from cache: %s", key)
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return replay(req, entry, body), nil
	}

	if !errors.Is(err, domain.ErrCacheMiss) {
		w.log.Warn("Cache lookup failed for %s: %v", key, err)
	}

	w.log.Info("Fetching from network: %s", key)
	return w.network.RoundTrip(req)
}

func replay(req *http.Request, entry *domain.CacheEntry, body io.ReadCloser) *http.Response {
	header := entry.Header.Clone()
	if header == nil {
		header = http.Header{}
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", entry.Status, http.StatusText(entry.Status)),
		StatusCode:    entry.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          body,
		ContentLength: entry.Size,
		Request:       req,
	}
}
