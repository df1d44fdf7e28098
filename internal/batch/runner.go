// Package batch fans an operation out over many identifiers concurrently
// and settles every item independently, so one identifier's failure never
// prevents its siblings from completing.
package batch

import (
	"context"
	"sync"

	"github.com/jtessler/userctl/internal/identifier"
)

// Status is the terminal state of one batch item.
type Status int

const (
	// StatusDone means resolution and the action both succeeded.
	StatusDone Status = iota

	// StatusResolutionFailed means the directory could not derive a user id
	// for the identifier; the action stage was never reached.
	StatusResolutionFailed

	// StatusActionFailed means the identifier resolved but the action call
	// against the directory failed.
	StatusActionFailed
)

// String returns a short name for the status.
func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusResolutionFailed:
		return "resolution-failed"
	default:
		return "action-failed"
	}
}

// Outcome records how one identifier settled.
type Outcome[R any] struct {
	// Identifier is the operator-supplied identifier this outcome belongs to.
	Identifier identifier.Identifier

	// UserID is the resolved directory id; empty when resolution failed.
	UserID string

	// Status is the terminal state for this identifier.
	Status Status

	// Value is the action result; zero unless Status is StatusDone.
	Value R

	// Err is the resolution or action error; nil when Status is StatusDone.
	Err error
}

// Failed reports whether this item ended in a failure state.
func (o Outcome[R]) Failed() bool {
	return o.Status != StatusDone
}

// ResolveFunc turns an identifier into a directory-native user id.
type ResolveFunc func(ctx context.Context, ident identifier.Identifier) (string, error)

// ActFunc applies the batch operation to one resolved user id.
type ActFunc[R any] func(ctx context.Context, userID string) (R, error)

// Run resolves and acts on every identifier concurrently. Each identifier
// gets its own goroutine running resolve then act; failures at either stage
// are captured in that identifier's outcome and never propagate to siblings.
//
// The returned slice always has exactly len(idents) entries, in input order,
// even though settlement (and any onSettle output) may interleave. onSettle,
// when non-nil, is invoked once per item as it settles; calls are serialized
// so it may write to the console.
//
// Run itself never fails: the batch is complete once every item has settled,
// regardless of individual outcomes.
func Run[R any](ctx context.Context, idents []identifier.Identifier, resolve ResolveFunc, act ActFunc[R], onSettle func(Outcome[R])) []Outcome[R] {
	outcomes := make([]Outcome[R], len(idents))

	var (
		wg sync.WaitGroup
		mu sync.Mutex // serializes onSettle
	)

	for i, ident := range idents {
		wg.Add(1)
		go func() {
			defer wg.Done()

			out := runOne(ctx, ident, resolve, act)
			outcomes[i] = out

			if onSettle != nil {
				mu.Lock()
				onSettle(out)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return outcomes
}

// runOne drives a single identifier through
// resolving -> {resolved -> acting -> {done | action-failed}} | resolution-failed.
// First failure is terminal for the item; there are no retries.
func runOne[R any](ctx context.Context, ident identifier.Identifier, resolve ResolveFunc, act ActFunc[R]) Outcome[R] {
	out := Outcome[R]{Identifier: ident}

	userID, err := resolve(ctx, ident)
	if err != nil {
		out.Status = StatusResolutionFailed
		out.Err = err
		return out
	}
	out.UserID = userID

	value, err := act(ctx, userID)
	if err != nil {
		out.Status = StatusActionFailed
		out.Err = err
		return out
	}

	out.Status = StatusDone
	out.Value = value
	return out
}

// CountFailed returns how many outcomes ended in a failure state.
func CountFailed[R any](outcomes []Outcome[R]) int {
	n := 0
	for _, o := range outcomes {
		if o.Failed() {
			n++
		}
	}
	return n
}
