// Package limiter bounds how many sandboxed executions run at once, so a
// burst of requests cannot start an unbounded number of containers.
package limiter

import "context"

// Gate is a counting semaphore over execution slots.
type Gate struct {
	slots chan struct{}
}

// NewGate builds a gate with n slots; n below 1 is clamped to 1.
func NewGate(n int) *Gate {
	if n < 1 {
		n = 1
	}
	return &Gate{slots: make(chan struct{}, n)}
}

// Acquire blocks until a slot frees up or the context is done.
func (g *Gate) Acquire(ctx context.Context) error {
	select {
	case g.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes a slot without blocking.
func (g *Gate) TryAcquire() bool {
	select {
	case g.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release returns a slot. Must pair with a successful acquire.
func (g *Gate) Release() {
	<-g.slots
}

// InUse reports the number of held slots.
func (g *Gate) InUse() int {
	return len(g.slots)
}
