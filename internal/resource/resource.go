// Package resource is the shared fetch-on-view capability: a page hands it a
// fetch function and gets back loading/ready/empty/failed state plus the
// message the page should show instead of a blank list.
package resource

import (
	"context"
	"errors"
)

type State int

const (
	Loading State = iota
	Ready
	Empty
	Failed
	// Disposed means the view went away before the fetch finished; the
	// result was dropped.
	Disposed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	case Disposed:
		return "disposed"
	}
	return "unknown"
}

type Resource[T any] struct {
	State   State
	Data    T
	Err     error
	Message string
}

func (r Resource[T]) OK() bool { return r.State == Ready }

// Loader describes one endpoint-backed resource.
type Loader[T any] struct {
	Fetch func(ctx context.Context) (T, error)
	// IsEmpty reports whether fetched data should render the empty message.
	IsEmpty      func(T) bool
	EmptyMessage string
	// ErrorMessage maps a fetch error to user-facing text.
	ErrorMessage func(error) string
}

// Load runs the fetch. A cancelled context after the fetch returns marks the
// result Disposed and discards the data.
func (l Loader[T]) Load(ctx context.Context) Resource[T] {
	data, err := l.Fetch(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Resource[T]{State: Disposed, Err: ctxErr}
	}
	if err != nil {
		msg := err.Error()
		if l.ErrorMessage != nil {
			msg = l.ErrorMessage(err)
		}
		return Resource[T]{State: Failed, Err: err, Message: msg}
	}
	if l.IsEmpty != nil && l.IsEmpty(data) {
		return Resource[T]{State: Empty, Data: data, Message: l.EmptyMessage}
	}
	return Resource[T]{State: Ready, Data: data}
}

// List builds a loader for slice endpoints where a zero-length result is empty.
func List[E any](fetch func(ctx context.Context) ([]E, error), emptyMessage string, errorMessage func(error) string) Loader[[]E] {
	return Loader[[]E]{
		Fetch:        fetch,
		IsEmpty:      func(items []E) bool { return len(items) == 0 },
		EmptyMessage: emptyMessage,
		ErrorMessage: errorMessage,
	}
}

// IsDisposed reports whether err came from a view that was torn down.
func IsDisposed(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
