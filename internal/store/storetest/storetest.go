// Package storetest is a contract suite every store.Store backend must pass.
package storetest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regkit/internal/store"
	"github.com/joshuapare/regkit/pkg/regpath"
	"github.com/joshuapare/regkit/pkg/types"
)

// Factory returns a fresh, empty backend for one subtest.
type Factory func(t *testing.T) store.Store

// Entry is one value as seen through Key.EachValue.
type Entry struct {
	Name string
	Type types.RegType
	Data []byte
}

// Run executes the contract suite against backends produced by open.
func Run(t *testing.T, open Factory) {
	t.Helper()

	t.Run("OpenMissing", func(t *testing.T) {
		st := open(t)
		_, err := st.OpenKey(regpath.MustResolve(`HKCU\Software\Missing`))
		require.Error(t, err)
		assert.True(t, store.IsNotExist(err), "got %v", err)
	})

	t.Run("OpenHiveRoot", func(t *testing.T) {
		st := open(t)
		for _, r := range types.AllRoots() {
			k, err := st.OpenKey(types.Address{Root: r})
			require.NoError(t, err, r.String())
			require.NoError(t, k.Close())
		}
	})

	t.Run("CreateMakesParents", func(t *testing.T) {
		st := open(t)
		k, err := st.CreateKey(regpath.MustResolve(`HKLM\Software\Vendor\App`))
		require.NoError(t, err)
		require.NoError(t, k.Close())

		for _, p := range []string{`HKLM\Software`, `HKLM\Software\Vendor`, `HKLM\Software\Vendor\App`} {
			k, err := st.OpenKey(regpath.MustResolve(p))
			require.NoError(t, err, p)
			require.NoError(t, k.Close())
		}
		assert.Equal(t, []string{"Vendor"}, Subkeys(t, st, `HKLM\Software`))
	})

	t.Run("CreateExistingOpens", func(t *testing.T) {
		st := open(t)
		addr := regpath.MustResolve(`HKCU\Software\App`)
		k, err := st.CreateKey(addr)
		require.NoError(t, err)
		require.NoError(t, k.SetValue("v", types.REG_DWORD, []byte{1, 0, 0, 0}))
		require.NoError(t, k.Close())

		k, err = st.CreateKey(addr)
		require.NoError(t, err)
		require.NoError(t, k.Close())
		assert.Len(t, Values(t, st, `HKCU\Software\App`), 1)
	})

	t.Run("NamesAreCaseInsensitive", func(t *testing.T) {
		st := open(t)
		k, err := st.CreateKey(regpath.MustResolve(`HKCU\Software\MixedCase`))
		require.NoError(t, err)
		require.NoError(t, k.SetValue("Name", types.REG_SZ, []byte{'a', 0}))
		require.NoError(t, k.SetValue("NAME", types.REG_SZ, []byte{'b', 0}))
		require.NoError(t, k.Close())

		k, err = st.OpenKey(regpath.MustResolve(`hkcu\SOFTWARE\mixedcase`))
		require.NoError(t, err)
		require.NoError(t, k.Close())

		vals := Values(t, st, `HKCU\Software\MixedCase`)
		require.Len(t, vals, 1)
		assert.Equal(t, []byte{'b', 0}, vals[0].Data)
		assert.Equal(t, []string{"MixedCase"}, Subkeys(t, st, `HKCU\Software`))
	})

	t.Run("RawValuesPassThrough", func(t *testing.T) {
		st := open(t)
		k, err := st.CreateKey(regpath.MustResolve(`HKCU\Raw`))
		require.NoError(t, err)
		defer k.Close()

		want := map[string]Entry{}
		for tag := types.REG_NONE; tag <= types.REG_QWORD; tag++ {
			name := "v" + tag.String()
			data := []byte{byte(tag), 0xFF, 0x00, 0x7F}
			require.NoError(t, k.SetValue(name, tag, data))
			want[strings.ToLower(name)] = Entry{Name: name, Type: tag, Data: data}
		}
		require.NoError(t, k.SetValue("", types.REG_SZ, nil))

		got := Values(t, st, `HKCU\Raw`)
		require.Len(t, got, len(want)+1)
		for _, e := range got {
			if e.Name == "" {
				assert.Equal(t, types.REG_SZ, e.Type)
				assert.Empty(t, e.Data)
				continue
			}
			w, ok := want[strings.ToLower(e.Name)]
			require.True(t, ok, e.Name)
			assert.Equal(t, w.Type, e.Type)
			assert.True(t, bytes.Equal(w.Data, e.Data), e.Name)
		}
	})

	t.Run("DeleteTree", func(t *testing.T) {
		st := open(t)
		for _, p := range []string{`HKCU\Tree\A\B`, `HKCU\Tree\C`} {
			k, err := st.CreateKey(regpath.MustResolve(p))
			require.NoError(t, err)
			require.NoError(t, k.SetValue("x", types.REG_BINARY, []byte{1}))
			require.NoError(t, k.Close())
		}

		require.NoError(t, st.DeleteKeyTree(regpath.MustResolve(`HKCU\Tree`)))
		for _, p := range []string{`HKCU\Tree`, `HKCU\Tree\A`, `HKCU\Tree\A\B`, `HKCU\Tree\C`} {
			_, err := st.OpenKey(regpath.MustResolve(p))
			assert.True(t, store.IsNotExist(err), p)
		}
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		st := open(t)
		err := st.DeleteKeyTree(regpath.MustResolve(`HKCU\Nope\Deeper`))
		require.Error(t, err)
		assert.True(t, store.IsNotExist(err), "got %v", err)
	})

	t.Run("InvalidKeyName", func(t *testing.T) {
		st := open(t)
		long := strings.Repeat("k", store.MaxKeyNameLen+1)
		_, err := st.CreateKey(regpath.MustResolve(`HKCU\` + long))
		require.Error(t, err)

		_, err = st.OpenKey(regpath.MustResolve(`HKCU\Software`))
		assert.True(t, store.IsNotExist(err), "failed create must not leave parents behind")
	})

	t.Run("HandleAfterDelete", func(t *testing.T) {
		st := open(t)
		k, err := st.CreateKey(regpath.MustResolve(`HKCU\Gone`))
		require.NoError(t, err)
		defer k.Close()
		require.NoError(t, st.DeleteKeyTree(regpath.MustResolve(`HKCU\Gone`)))
		assert.Error(t, k.SetValue("x", types.REG_DWORD, []byte{0, 0, 0, 0}))
	})
}

// Subkeys lists the child names of the key at address, failing the test on
// any error.
func Subkeys(t *testing.T, st store.Store, address string) []string {
	t.Helper()
	k, err := st.OpenKey(regpath.MustResolve(address))
	require.NoError(t, err)
	defer k.Close()

	var names []string
	require.NoError(t, k.EachSubkey(func(name string, err error) {
		require.NoError(t, err)
		names = append(names, name)
	}))
	return names
}

// Values lists the values of the key at address, failing the test on any
// error.
func Values(t *testing.T, st store.Store, address string) []Entry {
	t.Helper()
	k, err := st.OpenKey(regpath.MustResolve(address))
	require.NoError(t, err)
	defer k.Close()

	var out []Entry
	require.NoError(t, k.EachValue(func(name string, typ types.RegType, data []byte, err error) {
		require.NoError(t, err)
		out = append(out, Entry{Name: name, Type: typ, Data: data})
	}))
	return out
}
