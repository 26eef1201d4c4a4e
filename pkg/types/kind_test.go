package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_KindRoundTrip(t *testing.T) {
	kinds := AllKinds()
	require.Len(t, kinds, 12)

	seen := make(map[RegType]ValueKind)
	for _, k := range kinds {
		native, err := ToNative(k)
		require.NoError(t, err, k.String())

		prev, dup := seen[native]
		require.False(t, dup, "%s and %s share native tag %s", prev, k, native)
		seen[native] = k

		back, err := FromNative(native)
		require.NoError(t, err)
		assert.Equal(t, k, back)
	}
}

func TestCodec_NativeRoundTrip(t *testing.T) {
	for tag := REG_NONE; tag <= REG_QWORD; tag++ {
		k, err := FromNative(tag)
		require.NoError(t, err, tag.String())

		back, err := ToNative(k)
		require.NoError(t, err)
		assert.Equal(t, tag, back)
	}
}

func TestCodec_MatchesWindowsNumbers(t *testing.T) {
	expected := map[ValueKind]RegType{
		KindNone:                     0,
		KindString:                   1,
		KindExpandableString:         2,
		KindBinary:                   3,
		KindDword:                    4,
		KindDwordBigEndian:           5,
		KindLink:                     6,
		KindMultiString:              7,
		KindResourceList:             8,
		KindFullResourceDescriptor:   9,
		KindResourceRequirementsList: 10,
		KindQword:                    11,
	}
	for k, want := range expected {
		got, err := ToNative(k)
		require.NoError(t, err)
		assert.Equal(t, want, got, k.String())
	}
}

func TestCodec_RejectsUnknownNative(t *testing.T) {
	for _, tag := range []RegType{12, 255, 0xFFFF0019, 0xFFFFFFFF} {
		k, err := FromNative(tag)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownType))
		assert.Equal(t, ValueKind(0), k)
	}
}

func TestCodec_RejectsUnknownKind(t *testing.T) {
	_, err := ToNative(ValueKind(12))
	require.ErrorIs(t, err, ErrUnknownType)
	assert.False(t, ValueKind(40).Valid())
	assert.Equal(t, "ValueKind(40)", ValueKind(40).String())
}

func TestParseValueKind(t *testing.T) {
	tests := []struct {
		in   string
		want ValueKind
	}{
		{"RegSz", KindString},
		{"regsz", KindString},
		{"REG_SZ", KindString},
		{"RegDwordBigEndian", KindDwordBigEndian},
		{"REG_DWORD_BIG_ENDIAN", KindDwordBigEndian},
		{" RegQword ", KindQword},
		{"RegNone", KindNone},
		{"reg_resource_requirements_list", KindResourceRequirementsList},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseValueKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseValueKind("RegFloat")
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestValueKind_TagsAreStable(t *testing.T) {
	for _, k := range AllKinds() {
		parsed, err := ParseValueKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
}

func TestValueKind_JSON(t *testing.T) {
	rec := ValueRecord{Name: "Version", Kind: KindExpandableString, Data: []byte{1, 2}}
	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"kind":"RegExpandSz"`)

	var back ValueRecord
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, rec.Equal(back))

	err = json.Unmarshal([]byte(`{"name":"x","kind":"RegBogus"}`), &back)
	require.Error(t, err)
}
