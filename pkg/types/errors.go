package types

import "strconv"

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindInvalidHive ErrKind = iota // address root token is not a known hive
	ErrKindStore                      // failure reported by the underlying store
	ErrKindUnknownType                // value kind or native tag outside the closed set
	ErrKindNotFound                   // missing key
	ErrKindState                      // invalid request for the target (e.g., deleting a hive root)
)

// String returns a short lowercase label for the kind.
func (k ErrKind) String() string {
	switch k {
	case ErrKindInvalidHive:
		return "invalid hive"
	case ErrKindStore:
		return "store"
	case ErrKindUnknownType:
		return "unknown type"
	case ErrKindNotFound:
		return "not found"
	case ErrKindState:
		return "state"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, ErrStore) matches any store failure regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels matched by kind through errors.Is.
var (
	// ErrInvalidHive indicates an address whose root token matches no hive.
	ErrInvalidHive = &Error{Kind: ErrKindInvalidHive, Msg: "invalid hive"}
	// ErrStore indicates a failure surfaced by the registry store.
	ErrStore = &Error{Kind: ErrKindStore, Msg: "registry store error"}
	// ErrUnknownType indicates a value kind or native tag outside the closed set.
	ErrUnknownType = &Error{Kind: ErrKindUnknownType, Msg: "unknown registry value type"}
	// ErrNotFound indicates a missing key.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrState indicates a request that is invalid for its target.
	ErrState = &Error{Kind: ErrKindState, Msg: "invalid operation"}
)

// InvalidHiveError builds an ErrKindInvalidHive error naming the offending input.
func InvalidHiveError(input string) *Error {
	return &Error{Kind: ErrKindInvalidHive, Msg: "invalid hive in path " + strconv.Quote(input)}
}

// StoreError wraps a native store failure, keeping its text as the cause.
func StoreError(op string, err error) *Error {
	return &Error{Kind: ErrKindStore, Msg: op, Err: err}
}
