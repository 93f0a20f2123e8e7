package session

import (
	"sync"
	"sync/atomic"
)

// refreshGuard blocks re-resolution of the selection while a structural
// change is running. It may be held more than once.
type refreshGuard struct {
	n atomic.Int32
}

// acquire holds the guard until the returned func is called. Calling the
// func again has no effect.
func (g *refreshGuard) acquire() (release func()) {
	g.n.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { g.n.Add(-1) })
	}
}

func (g *refreshGuard) held() bool {
	return g.n.Load() > 0
}
