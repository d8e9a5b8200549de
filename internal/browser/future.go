package browser

import "context"

// Future is the handle for a result computed by a background task.
type Future[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	val    T
}

// spawn runs fn in its own goroutine under a context derived from ctx.
func spawn[T any](ctx context.Context, fn func(ctx context.Context) T) *Future[T] {
	ctx, cancel := context.WithCancel(ctx)
	f := &Future[T]{done: make(chan struct{}), cancel: cancel}
	go func() {
		defer close(f.done)
		defer cancel()
		f.val = fn(ctx)
	}()
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Get waits for the result. It returns ctx.Err() if ctx ends first; the task
// keeps running until Cancel is called.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Cancel stops the task. The result it then produces is still delivered.
func (f *Future[T]) Cancel() { f.cancel() }
