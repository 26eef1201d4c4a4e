package registry

import (
	"fmt"
	"time"

	"github.com/joshuapare/regkit/internal/store/boltstore"
	"github.com/joshuapare/regkit/internal/store/memstore"
	"github.com/joshuapare/regkit/internal/store/winstore"
)

// Backend names a store implementation.
type Backend string

const (
	BackendNative Backend = "native" // the live Windows registry
	BackendFile   Backend = "bolt"   // a registry tree kept in a bbolt file
	BackendMemory Backend = "memory" // a throwaway in-process tree
)

// ParseBackend validates a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendNative, BackendFile, BackendMemory:
		return b, nil
	case "file":
		return BackendFile, nil
	default:
		return "", fmt.Errorf("unknown backend %q (want native, bolt or memory)", s)
	}
}

// OpenNative returns a Client over the live registry. On platforms other
// than Windows every operation fails with an unsupported error.
func OpenNative(opts ...Option) (*Client, error) {
	st, err := winstore.Open(winstore.Options{})
	if err != nil {
		return nil, err
	}
	return newClient(st, opts...), nil
}

// OpenNative32 is OpenNative with keys opened in the 32-bit WOW64 view.
func OpenNative32(opts ...Option) (*Client, error) {
	st, err := winstore.Open(winstore.Options{View: winstore.View32})
	if err != nil {
		return nil, err
	}
	return newClient(st, opts...), nil
}

// OpenFile returns a Client over the registry file at path, creating it
// when missing. The file is locked until Close.
func OpenFile(path string, opts ...Option) (*Client, error) {
	st, err := boltstore.Open(path, boltstore.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}
	return newClient(st, opts...), nil
}

// NewMemory returns a Client over an empty in-memory registry.
func NewMemory(opts ...Option) *Client {
	return newClient(memstore.New(), opts...)
}

// Open dispatches on backend. path is only used by BackendFile.
func Open(backend Backend, path string, opts ...Option) (*Client, error) {
	switch backend {
	case BackendNative:
		return OpenNative(opts...)
	case BackendFile:
		if path == "" {
			return nil, fmt.Errorf("backend %s needs a database path", backend)
		}
		return OpenFile(path, opts...)
	case BackendMemory:
		return NewMemory(opts...), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}
