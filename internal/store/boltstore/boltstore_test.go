package boltstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/joshuapare/regkit/internal/store"
	"github.com/joshuapare/regkit/internal/store/storetest"
	"github.com/joshuapare/regkit/pkg/regpath"
	"github.com/joshuapare/regkit/pkg/types"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "registry.db"), Options{NoSync: true})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return openTemp(t)
	})
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	st, err := Open(path, Options{NoSync: true})
	require.NoError(t, err)

	k, err := st.CreateKey(regpath.MustResolve(`HKLM\Software\Persist`))
	require.NoError(t, err)
	require.NoError(t, k.SetValue("Version", types.REG_SZ, []byte{'2', 0}))
	require.NoError(t, st.Close())

	st, err = Open(path, Options{ReadOnly: true})
	require.NoError(t, err)
	defer st.Close()

	vals := storetest.Values(t, st, `HKLM\Software\Persist`)
	require.Len(t, vals, 1)
	assert.Equal(t, "Version", vals[0].Name)
	assert.Equal(t, types.REG_SZ, vals[0].Type)
	assert.Equal(t, []byte{'2', 0}, vals[0].Data)
}

func TestCorruptEntriesReportedPerEntry(t *testing.T) {
	st := openTemp(t)
	addr := regpath.MustResolve(`HKCU\Corrupt`)
	k, err := st.CreateKey(addr)
	require.NoError(t, err)
	require.NoError(t, k.SetValue("ok", types.REG_DWORD, []byte{1, 0, 0, 0}))

	require.NoError(t, st.db.Update(func(tx *bbolt.Tx) error {
		b, err := lookup(tx, addr)
		if err != nil {
			return err
		}
		if err := b.Put(valueKey("broken"), []byte{0xc1}); err != nil {
			return err
		}
		_, err = b.CreateBucket(childKey("nameless"))
		return err
	}))

	var names []string
	var failures int
	require.NoError(t, k.EachValue(func(name string, _ types.RegType, _ []byte, err error) {
		if err != nil {
			assert.ErrorIs(t, err, ErrCorrupt)
			failures++
			return
		}
		names = append(names, name)
	}))
	assert.Equal(t, []string{"ok"}, names)
	assert.Equal(t, 1, failures)

	failures = 0
	require.NoError(t, k.EachSubkey(func(name string, err error) {
		if err != nil {
			failures++
		}
	}))
	assert.Equal(t, 1, failures)
}
