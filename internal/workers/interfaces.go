// Package workers runs the client's background workers for the lifetime of
// a signed-in session.
//
// Workers are started together, each on its own goroutine, and stopped
// together: Stop cancels the shared context and waits for every worker to
// return.
package workers

import "context"

// Worker is a background task. Run must return once ctx is done.
//
// Example implementation:
//
//	type ticker struct{}
//
//	func (t *ticker) Run(ctx context.Context) {
//	    <-ctx.Done()
//	}
type Worker interface {
	Run(ctx context.Context)
}

// WorkerFunc adapts a plain function to [Worker].
type WorkerFunc func(ctx context.Context)

// Run implements [Worker].
func (f WorkerFunc) Run(ctx context.Context) { f(ctx) }
