// Package store defines the narrow contract regkit needs from a registry
// backend: open, create-with-parents, enumerate, get/set raw values and
// recursive delete. Backends live in subpackages:
//
//   - winstore: the live Windows registry (golang.org/x/sys/windows/registry)
//   - memstore: an in-process tree with fault injection, for tests
//   - boltstore: a portable emulated registry persisted in a bbolt file
//
// Backends never cache, stage or interpret value bytes.
package store

import (
	"errors"
	"fmt"

	"github.com/joshuapare/regkit/pkg/types"
)

// Sentinel errors shared by all backends. Backends wrap them together with
// the native error so the native reason text survives.
var (
	// ErrKeyNotExist is returned when opening or deleting a missing key.
	ErrKeyNotExist = &types.Error{Kind: types.ErrKindNotFound, Msg: "registry key does not exist"}
	// ErrKeyDeleted is returned by operations on a handle whose key was deleted.
	ErrKeyDeleted = errors.New("illegal operation attempted on a registry key that has been marked for deletion")
	// ErrInvalidName is returned for key or value names the store refuses.
	ErrInvalidName = errors.New("invalid registry name")
	// ErrUnsupported is returned when a backend is not available on this platform.
	ErrUnsupported = errors.New("registry backend not supported on this platform")
	// ErrClosed is returned by operations on a closed store or key.
	ErrClosed = errors.New("registry handle is closed")
)

// Registry limits enforced by the emulated backends, matching Windows.
const (
	MaxKeyNameLen   = 255
	MaxValueNameLen = 16383
	MaxTreeDepth    = 512
)

// Store is a registry backend. Every call blocks until the backend answers.
type Store interface {
	// OpenKey opens an existing key for reading. A missing key yields an
	// error satisfying errors.Is(err, ErrKeyNotExist).
	OpenKey(addr types.Address) (Key, error)

	// CreateKey opens the key at addr, creating it and every missing parent.
	CreateKey(addr types.Address) (Key, error)

	// DeleteKeyTree removes the key at addr with all descendants. A missing
	// key is an error satisfying errors.Is(err, ErrKeyNotExist).
	DeleteKeyTree(addr types.Address) error

	// Close releases backend resources.
	Close() error
}

// Key is an open registry key.
type Key interface {
	// EachSubkey calls fn once per child key. An entry the backend cannot
	// return is reported as fn("", err) and enumeration continues. The
	// returned error is for failures of the enumeration as a whole.
	EachSubkey(fn func(name string, err error)) error

	// EachValue calls fn once per value. An entry the backend cannot return
	// is reported with a non-nil err (name is set when known) and
	// enumeration continues.
	EachValue(fn func(name string, typ types.RegType, data []byte, err error)) error

	// SetValue stores one raw value, replacing any value of the same name.
	SetValue(name string, typ types.RegType, data []byte) error

	// Close releases the handle.
	Close() error
}

// NotExist wraps ErrKeyNotExist with the path and the backend's own error,
// keeping both reachable through errors.Is.
func NotExist(addr types.Address, native error) error {
	if native == nil {
		return fmt.Errorf("%s: %w", addr, ErrKeyNotExist)
	}
	return fmt.Errorf("%s: %w: %w", addr, ErrKeyNotExist, native)
}

// IsNotExist reports whether err means the key is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, ErrKeyNotExist)
}

// CheckKeyName validates one key path segment against registry limits.
func CheckKeyName(name string) error {
	if name == "" || len([]rune(name)) > MaxKeyNameLen {
		return fmt.Errorf("%w: key name %q", ErrInvalidName, name)
	}
	return nil
}

// CheckValueName validates a value name against registry limits.
func CheckValueName(name string) error {
	if len([]rune(name)) > MaxValueNameLen {
		return fmt.Errorf("%w: value name of %d characters", ErrInvalidName, len([]rune(name)))
	}
	return nil
}
