package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Policy decides how a batch turns per-item outcomes into a result.
type Policy int

const (
	// FailFast stops at the first failing item and returns its error.
	// Results of items before it are discarded; items after it are never
	// attempted.
	FailFast Policy = iota

	// BestEffort attempts every item. Failed items are left out of the
	// result and no error is returned for them.
	BestEffort
)

func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case BestEffort:
		return "best-effort"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy accepts "fail-fast" or "best-effort" (underscores and case
// are ignored).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "fail-fast", "failfast":
		return FailFast, nil
	case "best-effort", "besteffort":
		return BestEffort, nil
	default:
		return 0, fmt.Errorf("unknown batch policy %q", s)
	}
}

// Outcome is the result of one batch item: its value or its error.
type Outcome[T any] struct {
	Address string
	Value   T
	Err     error
}

// OK reports whether the item succeeded.
func (o Outcome[T]) OK() bool { return o.Err == nil }

// Run applies fn to every item in order, one at a time, and returns one
// Outcome per item. Once ctx is done, the remaining items get ctx.Err()
// without being attempted; a call already in flight is not interrupted.
func Run[I, T any](ctx context.Context, items []I, address func(I) string, fn func(context.Context, I) (T, error)) []Outcome[T] {
	out := make([]Outcome[T], len(items))
	for i, item := range items {
		out[i].Address = address(item)
		if err := ctx.Err(); err != nil {
			out[i].Err = err
			continue
		}
		out[i].Value, out[i].Err = fn(ctx, item)
	}
	return out
}

// RunPolicy runs items under policy. With FailFast it stops calling fn at
// the first failure, so later items are never attempted. The returned
// outcomes hold only the items that were attempted.
func RunPolicy[I, T any](ctx context.Context, policy Policy, items []I, address func(I) string, fn func(context.Context, I) (T, error)) []Outcome[T] {
	if policy != FailFast {
		return Run(ctx, items, address, fn)
	}
	out := make([]Outcome[T], 0, len(items))
	for _, item := range items {
		o := Outcome[T]{Address: address(item)}
		if err := ctx.Err(); err != nil {
			o.Err = err
		} else {
			o.Value, o.Err = fn(ctx, item)
		}
		out = append(out, o)
		if o.Err != nil {
			break
		}
	}
	return out
}

// Collect aggregates outcomes under policy.
//
// FailFast returns the first error and nil results. BestEffort returns the
// successful outcomes, in input order, and a nil error, unless an item
// failed because its context was canceled or timed out: that error is
// returned under either policy.
func Collect[T any](outcomes []Outcome[T], policy Policy) ([]Outcome[T], error) {
	if policy == FailFast {
		for _, o := range outcomes {
			if o.Err != nil {
				return nil, o.Err
			}
		}
		return outcomes, nil
	}
	ok := make([]Outcome[T], 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err == nil {
			ok = append(ok, o)
			continue
		}
		if isContextErr(o.Err) {
			return nil, o.Err
		}
	}
	return ok, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Failed returns the failing outcomes.
func Failed[T any](outcomes []Outcome[T]) []Outcome[T] {
	var bad []Outcome[T]
	for _, o := range outcomes {
		if o.Err != nil {
			bad = append(bad, o)
		}
	}
	return bad
}
