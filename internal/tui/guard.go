package tui

import "sync"

// dialogGuard allows one picker dialog at a time.
type dialogGuard struct {
	mu sync.Mutex
}

// acquire returns a release func, or false if a dialog is already open.
// The release func may be called more than once.
func (g *dialogGuard) acquire() (func(), bool) {
	if !g.mu.TryLock() {
		return nil, false
	}
	var once sync.Once
	return func() { once.Do(g.mu.Unlock) }, true
}
