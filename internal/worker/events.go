package worker

import "sync"

// events counts work tied to the worker's lifetime. Unlike sync.WaitGroup it allows
// new work to be registered while another goroutine is waiting for idle.
type events struct {
	mu   sync.Mutex
	n    int
	idle chan struct{}
}

// extend registers one unit of work; the returned func must be called exactly once.
func (e *events) extend() func() {
	e.mu.Lock()
	if e.n == 0 {
		e.idle = make(chan struct{})
	}
	e.n++
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.n--
			if e.n == 0 {
				close(e.idle)
			}
		})
	}
}

// wait blocks until no work is registered.
func (e *events) wait() {
	e.mu.Lock()
	if e.n == 0 {
		e.mu.Unlock()
		return
	}
	idle := e.idle
	e.mu.Unlock()
	<-idle
}
