package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_MatchesByKind(t *testing.T) {
	cause := errors.New("Access is denied.")
	err := StoreError("open key", cause)

	assert.True(t, errors.Is(err, ErrStore))
	assert.False(t, errors.Is(err, ErrInvalidHive))
	assert.True(t, errors.Is(err, cause), "cause must stay reachable")
	assert.Equal(t, "open key: Access is denied.", err.Error())

	wrapped := fmt.Errorf("put %s: %w", "HKCU\\x", err)
	var typed *Error
	require.True(t, errors.As(wrapped, &typed))
	assert.Equal(t, ErrKindStore, typed.Kind)
}

func TestInvalidHiveError_NamesInput(t *testing.T) {
	err := InvalidHiveError(`NOT_A_HIVE\x`)
	assert.ErrorIs(t, err, ErrInvalidHive)
	assert.Contains(t, err.Error(), `NOT_A_HIVE\\x`)
}

func TestError_Nil(t *testing.T) {
	var e *Error
	assert.Equal(t, "<nil>", e.Error())
	assert.False(t, e.Is(ErrStore))
}

func TestKeySnapshot_Helpers(t *testing.T) {
	snap := KeySnapshot{
		Exists: true,
		Values: []ValueRecord{{Name: "Version", Kind: KindString, Data: []byte{'1', 0}}},
	}
	assert.False(t, snap.Truncated())

	v, ok := snap.Value("VERSION")
	require.True(t, ok)
	assert.Equal(t, KindString, v.Kind)

	_, ok = snap.Value("missing")
	assert.False(t, ok)

	snap.Skipped = 2
	assert.True(t, snap.Truncated())
}

func TestAddress_String(t *testing.T) {
	assert.Equal(t, "HKEY_CURRENT_USER", Address{Root: CurrentUser}.String())
	assert.Equal(t, `HKEY_LOCAL_MACHINE\Software\Foo`, Address{Root: LocalMachine, Subpath: `Software\Foo`}.String())
	assert.True(t, Address{Root: Users}.IsRoot())
	assert.Equal(t, "HKCC", CurrentConfig.Alias())
	assert.Len(t, AllRoots(), 5)
}
