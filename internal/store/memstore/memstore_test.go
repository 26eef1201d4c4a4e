package memstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regkit/internal/store"
	"github.com/joshuapare/regkit/internal/store/storetest"
	"github.com/joshuapare/regkit/pkg/regpath"
	"github.com/joshuapare/regkit/pkg/types"
)

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return New()
	})
}

func TestEnumerationOrderIsCreationOrder(t *testing.T) {
	st := New()
	for _, p := range []string{`HKCU\P\zeta`, `HKCU\P\alpha`, `HKCU\P\Mid`} {
		k, err := st.CreateKey(regpath.MustResolve(p))
		require.NoError(t, err)
		require.NoError(t, k.Close())
	}
	assert.Equal(t, []string{"zeta", "alpha", "Mid"}, storetest.Subkeys(t, st, `HKCU\P`))
}

func TestFaultInjection(t *testing.T) {
	st := New()
	k, err := st.CreateKey(regpath.MustResolve(`HKCU\F`))
	require.NoError(t, err)
	require.NoError(t, k.SetValue("good", types.REG_DWORD, []byte{1, 0, 0, 0}))
	require.NoError(t, k.SetValue("bad", types.REG_DWORD, []byte{2, 0, 0, 0}))
	require.NoError(t, k.Close())

	boom := errors.New("boom")
	st.SetFault(FailOn(OpEnumValue, `HKCU\F`, "bad", boom))

	k, err = st.OpenKey(regpath.MustResolve(`HKCU\F`))
	require.NoError(t, err)
	defer k.Close()

	var ok, failed []string
	require.NoError(t, k.EachValue(func(name string, _ types.RegType, _ []byte, err error) {
		if err != nil {
			failed = append(failed, name)
			return
		}
		ok = append(ok, name)
	}))
	assert.Equal(t, []string{"good"}, ok)
	assert.Equal(t, []string{"bad"}, failed)

	st.SetFault(FailOn(OpOpen, `HKCU\F`, "", boom))
	_, err = st.OpenKey(regpath.MustResolve(`hkcu\f`))
	assert.ErrorIs(t, err, boom)

	st.SetFault(nil)
	_, err = st.OpenKey(regpath.MustResolve(`HKCU\F`))
	assert.NoError(t, err)
}

func TestDeleteHiveRootRefused(t *testing.T) {
	st := New()
	err := st.DeleteKeyTree(types.Address{Root: types.Users})
	assert.ErrorIs(t, err, store.ErrInvalidName)
}

func TestClosedStore(t *testing.T) {
	st := New()
	k, err := st.CreateKey(regpath.MustResolve(`HKCU\C`))
	require.NoError(t, err)
	require.NoError(t, st.Close())

	_, err = st.OpenKey(regpath.MustResolve(`HKCU\C`))
	assert.ErrorIs(t, err, store.ErrClosed)
	assert.ErrorIs(t, k.SetValue("x", types.REG_NONE, nil), store.ErrClosed)
}

func TestValuesAreCopied(t *testing.T) {
	st := New()
	k, err := st.CreateKey(regpath.MustResolve(`HKCU\Copy`))
	require.NoError(t, err)
	data := []byte{1, 2, 3}
	require.NoError(t, k.SetValue("v", types.REG_BINARY, data))
	data[0] = 9

	got := storetest.Values(t, st, `HKCU\Copy`)
	require.Len(t, got, 1)
	assert.Equal(t, []byte{1, 2, 3}, got[0].Data)
}
