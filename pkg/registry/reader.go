package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshuapare/regkit/internal/store"
	"github.com/joshuapare/regkit/pkg/types"
)

// Reader lists keys.
type Reader struct {
	st  store.Store
	log *slog.Logger
}

// NewReader returns a Reader over st.
func NewReader(st store.Store, log *slog.Logger) *Reader {
	return &Reader{st: st, log: log}
}

// Read returns a snapshot of the key at addr.
//
// A missing key is not an error: the snapshot has Exists false and empty
// listings. Any other open failure is returned as an ErrKindStore error.
//
// Listing is best effort. A subkey or value the store cannot return, or a
// value whose native type is not one of the twelve known kinds, is left
// out and counted in KeySnapshot.Skipped.
func (r *Reader) Read(ctx context.Context, addr types.Address) (types.KeySnapshot, error) {
	snap := types.KeySnapshot{
		Path:    addr.String(),
		Subkeys: []string{},
		Values:  []types.ValueRecord{},
	}

	k, err := r.st.OpenKey(addr)
	if err != nil {
		if store.IsNotExist(err) {
			return snap, nil
		}
		return types.KeySnapshot{}, types.StoreError(fmt.Sprintf("open %s", addr), err)
	}
	defer k.Close()
	snap.Exists = true

	err = k.EachSubkey(func(name string, err error) {
		if err != nil {
			r.log.DebugContext(ctx, "skipping subkey", "key", addr.String(), "err", err)
			snap.Skipped++
			return
		}
		snap.Subkeys = append(snap.Subkeys, name)
	})
	if err != nil {
		return types.KeySnapshot{}, types.StoreError(fmt.Sprintf("enumerate subkeys of %s", addr), err)
	}

	err = k.EachValue(func(name string, typ types.RegType, data []byte, err error) {
		if err != nil {
			r.log.DebugContext(ctx, "skipping value", "key", addr.String(), "value", name, "err", err)
			snap.Skipped++
			return
		}
		kind, err := types.FromNative(typ)
		if err != nil {
			r.log.DebugContext(ctx, "skipping value", "key", addr.String(), "value", name, "err", err)
			snap.Skipped++
			return
		}
		snap.Values = append(snap.Values, types.ValueRecord{Name: name, Kind: kind, Data: data})
	})
	if err != nil {
		return types.KeySnapshot{}, types.StoreError(fmt.Sprintf("enumerate values of %s", addr), err)
	}

	if snap.Skipped > 0 {
		r.log.WarnContext(ctx, "listing incomplete", "key", addr.String(), "skipped", snap.Skipped)
	}
	return snap, nil
}
