package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshuapare/regkit/internal/store"
	"github.com/joshuapare/regkit/pkg/regpath"
	"github.com/joshuapare/regkit/pkg/types"
)

// Writer creates keys and applies value records.
type Writer struct {
	st  store.Store
	log *slog.Logger
}

// NewWriter returns a Writer over st.
func NewWriter(st store.Store, log *slog.Logger) *Writer {
	return &Writer{st: st, log: log}
}

// Write creates or opens the key named by req.Address, with any missing
// parents, then sets req.Values in order.
//
// The first failing value stops the request. Values set before it stay
// set: there is no rollback, since the registry offers no atomicity across
// values.
func (w *Writer) Write(ctx context.Context, req types.PutRequest) error {
	addr, err := regpath.Resolve(req.Address)
	if err != nil {
		return err
	}
	return w.write(ctx, addr, req.Values)
}

// Create creates the key at addr and any missing parents.
func (w *Writer) Create(ctx context.Context, addr types.Address) error {
	return w.write(ctx, addr, nil)
}

func (w *Writer) write(ctx context.Context, addr types.Address, values []types.ValueRecord) error {
	k, err := w.st.CreateKey(addr)
	if err != nil {
		return types.StoreError(fmt.Sprintf("create %s", addr), err)
	}
	defer k.Close()

	for i, v := range values {
		native, err := types.ToNative(v.Kind)
		if err != nil {
			return fmt.Errorf("value %q of %s: %w", v.Name, addr, err)
		}
		if err := k.SetValue(v.Name, native, v.Data); err != nil {
			w.log.DebugContext(ctx, "set value failed", "key", addr.String(), "value", v.Name,
				"applied", i, "remaining", len(values)-i-1)
			return types.StoreError(fmt.Sprintf("set value %q of %s", v.Name, addr), err)
		}
	}
	w.log.DebugContext(ctx, "key written", "key", addr.String(), "values", len(values))
	return nil
}
