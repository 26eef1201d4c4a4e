package registry

import (
	"context"
	"errors"
	"strings"

	"github.com/joshuapare/regkit/pkg/regpath"
	"github.com/joshuapare/regkit/pkg/types"
)

// SkipChildren returned from a WalkFunc skips the subkeys of the key just
// visited.
var SkipChildren = errors.New("skip children")

// WalkFunc is called once per key, parents before children. Snapshot
// paths use canonical hive names.
type WalkFunc func(snap types.KeySnapshot) error

// Walk visits the key at address and every key below it, depth first,
// subkeys in enumeration order. A missing starting key fails with an
// ErrKindNotFound error. A subkey that disappears mid-walk is ignored.
func (c *Client) Walk(ctx context.Context, address string, fn WalkFunc) error {
	addr, err := regpath.Resolve(address)
	if err != nil {
		return err
	}
	snap, err := c.reader.Read(ctx, addr)
	if err != nil {
		return err
	}
	if !snap.Exists {
		return &types.Error{Kind: types.ErrKindNotFound, Msg: "key not found: " + addr.String()}
	}
	addr = c.storedCase(addr)
	snap.Path = addr.String()
	return c.walk(ctx, addr, snap, fn)
}

// storedCase rewrites each segment of addr with the name the store
// enumerates for it, so paths reported by Walk do not depend on how the
// caller cased the address. A segment that cannot be matched is kept.
func (c *Client) storedCase(addr types.Address) types.Address {
	out := types.Address{Root: addr.Root}
	for _, seg := range regpath.Split(addr.Subpath) {
		out = regpath.Join(out, c.subkeyName(out, seg))
	}
	return out
}

func (c *Client) subkeyName(parent types.Address, name string) string {
	k, err := c.st.OpenKey(parent)
	if err != nil {
		return name
	}
	defer k.Close()
	found := name
	_ = k.EachSubkey(func(sub string, err error) {
		if err == nil && found == name && strings.EqualFold(sub, name) {
			found = sub
		}
	})
	return found
}

func (c *Client) walk(ctx context.Context, addr types.Address, snap types.KeySnapshot, fn WalkFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(snap); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, name := range snap.Subkeys {
		child := regpath.Join(addr, name)
		sub, err := c.reader.Read(ctx, child)
		if err != nil {
			return err
		}
		if !sub.Exists {
			c.log.DebugContext(ctx, "subkey vanished during walk", "key", child.String())
			continue
		}
		if err := c.walk(ctx, child, sub, fn); err != nil {
			return err
		}
	}
	return nil
}
