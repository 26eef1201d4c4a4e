//go:build !windows

package winstore

import (
	"fmt"
	"runtime"

	"github.com/joshuapare/regkit/internal/store"
	"github.com/joshuapare/regkit/pkg/types"
)

// Store is unavailable off Windows; every method fails.
type Store struct{}

var _ store.Store = (*Store)(nil)

// Open always fails on this platform.
func Open(Options) (*Store, error) {
	return nil, unsupported()
}

func unsupported() error {
	return fmt.Errorf("winstore on %s: %w", runtime.GOOS, store.ErrUnsupported)
}

func (*Store) OpenKey(types.Address) (store.Key, error)   { return nil, unsupported() }
func (*Store) CreateKey(types.Address) (store.Key, error) { return nil, unsupported() }
func (*Store) DeleteKeyTree(types.Address) error          { return unsupported() }
func (*Store) Close() error                               { return nil }
