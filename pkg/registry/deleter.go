package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshuapare/regkit/internal/store"
	"github.com/joshuapare/regkit/pkg/types"
)

// Deleter removes key trees.
type Deleter struct {
	st  store.Store
	log *slog.Logger
}

// NewDeleter returns a Deleter over st.
func NewDeleter(st store.Store, log *slog.Logger) *Deleter {
	return &Deleter{st: st, log: log}
}

// Delete removes the key at addr and everything below it.
//
// Deleting a missing key fails; the error satisfies errors.Is with both
// types.ErrStore and types.ErrNotFound. Callers wanting idempotent deletes
// should check Exists first. Hive roots cannot be deleted.
func (d *Deleter) Delete(ctx context.Context, addr types.Address) error {
	if addr.IsRoot() {
		return &types.Error{Kind: types.ErrKindState, Msg: "cannot delete hive " + addr.Root.String()}
	}
	if err := d.st.DeleteKeyTree(addr); err != nil {
		if store.IsNotExist(err) {
			d.log.DebugContext(ctx, "delete of missing key", "key", addr.String())
		}
		return types.StoreError(fmt.Sprintf("delete %s", addr), err)
	}
	d.log.DebugContext(ctx, "key deleted", "key", addr.String())
	return nil
}
