// Package worker runs the background cache worker. It owns the media cache store:
// it executes DOWNLOAD and DELETE commands posted by the offline controller and
// intercepts media fetches so cached payloads are served without the network.
package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/datallboy/mediashelf/internal/domain"
	"github.com/datallboy/mediashelf/internal/infra/logger"
	"github.com/segmentio/ksuid"
	"github.com/sourcegraph/conc/pool"
)

type cacheStore interface {
	PutEntry(ctx context.Context, cacheName, url string, status int, header http.Header, body io.Reader) (*domain.CacheEntry, error)
	MatchEntry(ctx context.Context, cacheName, url string) (*domain.CacheEntry, io.ReadCloser, error)
	DeleteEntry(ctx context.Context, cacheName, url string) (bool, error)
	PurgeCachesExcept(ctx context.Context, keep string) (int, error)
}

type Options struct {
	CacheName      string
	AllowedOrigins []string
	MailboxSize    int
	MaxConcurrency int
	RestartDelay   time.Duration

	// Network performs real fetches. Defaults to http.DefaultTransport.
	Network http.RoundTripper
}

// envelope is a posted command plus an id used to correlate log lines.
type envelope struct {
	id  string
	cmd domain.Command
}

type Worker struct {
	store     cacheStore
	log       *logger.Logger
	cacheName string
	origins   map[string]struct{}
	network   http.RoundTripper
	client    *http.Client

	mailbox        chan envelope
	maxConcurrency int
	restartDelay   time.Duration

	// gate orders PostMessage against deactivation: once the write lock is released
	// with active false, no further command can enter the mailbox.
	gate    sync.RWMutex
	running atomic.Bool
	active  atomic.Bool
	events  events
}

func New(store cacheStore, log *logger.Logger, opts Options) *Worker {
	if opts.CacheName == "" {
		opts.CacheName = domain.DefaultCacheName
	}
	if opts.MailboxSize <= 0 {
		opts.MailboxSize = 32
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = 4
	}
	if opts.RestartDelay <= 0 {
		opts.RestartDelay = 2 * time.Second
	}
	if opts.Network == nil {
		opts.Network = http.DefaultTransport
	}

	origins := make(map[string]struct{}, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		u, err := url.Parse(o)
		if err != nil {
			continue
		}
		origins[originOf(u)] = struct{}{}
	}

	return &Worker{
		store:          store,
		log:            log.Named("sw"),
		cacheName:      opts.CacheName,
		origins:        origins,
		network:        opts.Network,
		client:         &http.Client{Transport: opts.Network},
		mailbox:        make(chan envelope, opts.MailboxSize),
		maxConcurrency: opts.MaxConcurrency,
		restartDelay:   opts.RestartDelay,
	}
}

func (w *Worker) CacheName() string { return w.cacheName }

// Active reports whether the worker is currently accepting commands.
func (w *Worker) Active() bool {
	return w.active.Load()
}

// PostMessage hands a command to the worker without waiting for it to run.
// Commands are not acknowledged and not ordered relative to each other.
func (w *Worker) PostMessage(cmd domain.Command) error {
	if cmd == nil {
		return domain.ErrInvalidCommand
	}
	w.gate.RLock()
	defer w.gate.RUnlock()
	if !w.Active() {
		return domain.ErrWorkerUnavailable
	}

	select {
	case w.mailbox <- envelope{id: ksuid.New().String(), cmd: cmd}:
		return nil
	default:
		return fmt.Errorf("%w: mailbox full", domain.ErrWorkerUnavailable)
	}
}

// Run activates the worker and processes commands until ctx is cancelled.
// It returns only after every command and intercepted fetch it started has finished.
func (w *Worker) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return errors.New("cache worker is already running")
	}
	defer w.running.Store(false)

	if err := w.activate(ctx); err != nil {
		return err
	}

	// Commands outlive the run context: a shutdown waits for them instead of aborting them
	execCtx := context.WithoutCancel(ctx)
	p := pool.New().WithMaxGoroutines(w.maxConcurrency)

	w.active.Store(true)
	w.log.Info("Cache worker active (cache %s)", w.cacheName)

	defer func() {
		w.deactivate()
		p.Wait()
		w.events.wait()
		w.log.Info("Cache worker stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			w.deactivate()
			w.drain(execCtx, p)
			return nil
		case msg := <-w.mailbox:
			w.dispatch(execCtx, p, msg)
		}
	}
}

func (w *Worker) deactivate() {
	w.gate.Lock()
	w.active.Store(false)
	w.gate.Unlock()
}

// drain runs every command accepted before deactivation. The mailbox cannot grow
// once the gate is closed, so an empty receive means the backlog is done.
func (w *Worker) drain(ctx context.Context, p *pool.Pool) {
	n := 0
	for {
		select {
		case msg := <-w.mailbox:
			n++
			w.dispatch(ctx, p, msg)
		default:
			if n > 0 {
				w.log.Info("Finishing %d queued commands before stopping", n)
			}
			return
		}
	}
}

func (w *Worker) dispatch(ctx context.Context, p *pool.Pool, msg envelope) {
	done := w.events.extend()
	p.Go(func() {
		defer done()
		w.handle(ctx, msg)
	})
}

// activate drops entries stored under any other cache version.
func (w *Worker) activate(ctx context.Context) error {
	n, err := w.store.PurgeCachesExcept(ctx, w.cacheName)
	if err != nil {
		return fmt.Errorf("failed to purge stale caches: %w", err)
	}
	if n > 0 {
		w.log.Info("Removed %d entries from previous cache versions", n)
	}
	return nil
}

func (w *Worker) handle(ctx context.Context, msg envelope) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Command %s panicked: %v", msg.id, r)
		}
	}()

	if err := w.execute(ctx, msg.cmd); err != nil {
		w.log.Error("Command %s for item %s failed: %v", msg.id, msg.cmd.Item(), err)
	}
}

// originOf is scheme://host[:port] with the scheme's default port dropped, so
// https://h:443 and https://h are the same origin.
func originOf(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}

	port := u.Port()
	if (scheme == "https" && port == "443") || (scheme == "http" && port == "80") {
		port = ""
	}
	if port != "" {
		host += ":" + port
	}
	return scheme + "://" + host
}

// cacheKey is the exact request url without its fragment.
func cacheKey(u *url.URL) string {
	k := *u
	k.Fragment = ""
	k.RawFragment = ""
	return k.String()
}
