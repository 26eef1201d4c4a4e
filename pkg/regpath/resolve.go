// Package regpath resolves registry address strings such as
// `HKEY_LOCAL_MACHINE\Software\Foo` into a root hive and a subpath.
//
// The hive token is matched case-insensitively against the canonical hive
// names and their short aliases (HKLM, HKCU, HKCR, HKU, HKCC). Subpath
// characters are not validated here; the store rejects bad names later.
package regpath

import (
	"strings"

	"github.com/joshuapare/regkit/pkg/types"
)

// hiveTable maps every uppercased canonical name and alias to its root.
// Built once at init and never mutated.
var hiveTable = func() map[string]types.Root {
	m := make(map[string]types.Root, 10)
	for _, r := range types.AllRoots() {
		m[r.String()] = r
		m[r.Alias()] = r
	}
	return m
}()

// LookupHive resolves a bare hive token.
func LookupHive(token string) (types.Root, bool) {
	r, ok := hiveTable[strings.ToUpper(token)]
	return r, ok
}

// Resolve splits address into its hive and subpath. Empty segments are
// dropped, so `HKCU\\Software\` and `HKCU\Software` resolve alike.
func Resolve(address string) (types.Address, error) {
	hive, rest, _ := strings.Cut(address, types.Separator)
	if hive == "" {
		return types.Address{}, types.InvalidHiveError(address)
	}
	root, ok := LookupHive(hive)
	if !ok {
		return types.Address{}, types.InvalidHiveError(address)
	}
	return types.Address{Root: root, Subpath: Clean(rest)}, nil
}

// MustResolve is like Resolve but panics on error. For tests and constants.
func MustResolve(address string) types.Address {
	addr, err := Resolve(address)
	if err != nil {
		panic(err)
	}
	return addr
}

// Clean drops empty segments so the result never starts or ends with a
// separator and never contains a doubled one.
func Clean(subpath string) string {
	if subpath == "" {
		return ""
	}
	return strings.Join(Split(subpath), types.Separator)
}

// Split returns the non-empty segments of subpath.
func Split(subpath string) []string {
	parts := strings.Split(subpath, types.Separator)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Join returns the address of child below addr.
func Join(addr types.Address, child ...string) types.Address {
	segs := make([]string, 0, len(child)+1)
	if addr.Subpath != "" {
		segs = append(segs, addr.Subpath)
	}
	segs = append(segs, child...)
	return types.Address{Root: addr.Root, Subpath: Clean(strings.Join(segs, types.Separator))}
}

// Parent returns the address one level up and false when addr is a hive root.
func Parent(addr types.Address) (types.Address, bool) {
	if addr.IsRoot() {
		return addr, false
	}
	i := strings.LastIndex(addr.Subpath, types.Separator)
	if i < 0 {
		return types.Address{Root: addr.Root}, true
	}
	return types.Address{Root: addr.Root, Subpath: addr.Subpath[:i]}, true
}

// Base returns the last segment of addr, or the hive name for a root.
func Base(addr types.Address) string {
	if addr.IsRoot() {
		return addr.Root.String()
	}
	i := strings.LastIndex(addr.Subpath, types.Separator)
	return addr.Subpath[i+1:]
}
