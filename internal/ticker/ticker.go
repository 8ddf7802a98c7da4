// internal/ticker/ticker.go
//
// Repeating task used for the game-over dialog's periodic refresh.

// Package ticker runs a function on a fixed delay until its owner stops it.
package ticker

import (
	"context"
	"sync"
	"time"
)

// Task is a running repeating function. The zero value is not usable; use Start.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start calls fn immediately and then once per delay until Stop is called or
// ctx is cancelled. delay must be positive.
func Start(ctx context.Context, delay time.Duration, fn func()) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		tk := time.NewTicker(delay)
		defer tk.Stop()
		for {
			fn()
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
			}
		}
	}()
	return t
}

// Stop cancels the task and waits for its goroutine to exit. Safe to call
// more than once and on a nil *Task.
func (t *Task) Stop() {
	if t == nil {
		return
	}
	t.once.Do(t.cancel)
	<-t.done
}

// Done is closed once the task's goroutine has exited.
func (t *Task) Done() <-chan struct{} { return t.done }
