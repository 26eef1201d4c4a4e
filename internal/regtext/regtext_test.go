package regtext

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regkit/pkg/types"
)

const sample = "Windows Registry Editor Version 5.00\r\n" +
	"\r\n" +
	"; comment\r\n" +
	"[HKCU\\Software\\Acme]\r\n" +
	"@=\"default\"\r\n" +
	"\"Path\"=\"C:\\\\Program Files\\\\Acme\"\r\n" +
	"\"Quote\"=\"say \\\"hi\\\"\"\r\n" +
	"\"Port\"=dword:00000050\r\n" +
	"\"Blob\"=hex:de,ad,\\\r\n" +
	"  be,ef\r\n" +
	"\"Big\"=hex(b):01,00,00,00,00,00,00,00\r\n" +
	"\"Empty\"=hex(0):\r\n" +
	"\r\n" +
	"[-HKEY_LOCAL_MACHINE\\Software\\Old]\r\n"

func utf16z(s string) []byte {
	b, err := encodeUTF16LEZeroTerminated(s)
	if err != nil {
		panic(err)
	}
	return b
}

func TestParse(t *testing.T) {
	ops, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, ops, 9)

	assert.Equal(t, OpCreateKey, ops[0].Kind)
	assert.Equal(t, `HKEY_CURRENT_USER\Software\Acme`, ops[0].Address)
	assert.Equal(t, 4, ops[0].Line)

	want := []types.ValueRecord{
		{Name: "", Kind: types.KindString, Data: utf16z("default")},
		{Name: "Path", Kind: types.KindString, Data: utf16z(`C:\Program Files\Acme`)},
		{Name: "Quote", Kind: types.KindString, Data: utf16z(`say "hi"`)},
		{Name: "Port", Kind: types.KindDword, Data: []byte{0x50, 0, 0, 0}},
		{Name: "Blob", Kind: types.KindBinary, Data: []byte{0xde, 0xad, 0xbe, 0xef}},
		{Name: "Big", Kind: types.KindQword, Data: []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{Name: "Empty", Kind: types.KindNone, Data: []byte{}},
	}
	for i, w := range want {
		op := ops[i+1]
		assert.Equal(t, OpSetValue, op.Kind)
		assert.Equal(t, `HKEY_CURRENT_USER\Software\Acme`, op.Address)
		assert.True(t, w.Equal(op.Value), "value %q: got %+v", w.Name, op.Value)
	}

	last := ops[len(ops)-1]
	assert.Equal(t, OpDeleteKey, last.Kind)
	assert.Equal(t, `HKEY_LOCAL_MACHINE\Software\Old`, last.Address)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		is    error
	}{
		{"no header", "[HKCU\\A]\r\n", nil},
		{"empty", "", nil},
		{"value outside key", RegFileHeader + "\r\n\"a\"=dword:00000001\r\n", nil},
		{"unknown hive", RegFileHeader + "\r\n[HKXX\\A]\r\n", types.ErrInvalidHive},
		{"unknown hex type", RegFileHeader + "\r\n[HKCU\\A]\r\n\"a\"=hex(42):00\r\n", types.ErrUnknownType},
		{"value delete", RegFileHeader + "\r\n[HKCU\\A]\r\n\"a\"=-\r\n", ErrValueDelete},
		{"short dword", RegFileHeader + "\r\n[HKCU\\A]\r\n\"a\"=dword:1\r\n", nil},
		{"bad hex", RegFileHeader + "\r\n[HKCU\\A]\r\n\"a\"=hex:zz\r\n", nil},
		{"unterminated name", RegFileHeader + "\r\n[HKCU\\A]\r\n\"a=hex:00\r\n", nil},
		{"malformed section", RegFileHeader + "\r\n[HKCU\\A\r\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			var pe *ParseError
			assert.True(t, errors.As(err, &pe))
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestParse_UTF16WithBOM(t *testing.T) {
	var buf bytes.Buffer
	w := utf16Writer(&buf)
	_, err := w.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.True(t, bytes.HasPrefix(buf.Bytes(), utf16LEBOM))

	ops, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, ops, 9)
}

func TestParse_Windows1252(t *testing.T) {
	// "Caf\xe9" is not valid UTF-8
	input := []byte(RegFileHeaderV4 + "\r\n[HKCU\\Caf\xe9]\r\n")
	ops, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "HKEY_CURRENT_USER\\Café", ops[0].Address)
}

func TestExport_Format(t *testing.T) {
	keys := []types.KeySnapshot{{
		Exists: true,
		Path:   `hkcu\Software\Acme`,
		Values: []types.ValueRecord{
			{Name: "", Kind: types.KindString, Data: []byte{'a', 0, 0, 0}},
			{Name: `we"ird\name`, Kind: types.KindBinary, Data: []byte{1, 2}},
			{Name: "Port", Kind: types.KindDword, Data: []byte{0x50, 0, 0, 0}},
		},
		Skipped: 2,
	}}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, keys, ExportOptions{}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, RegFileHeader+"\r\n\r\n"))
	assert.Contains(t, out, "[HKEY_CURRENT_USER\\Software\\Acme]\r\n")
	assert.Contains(t, out, "; 2 entries could not be read\r\n")
	assert.Contains(t, out, "@=hex(1):61,00,00,00\r\n")
	assert.Contains(t, out, `"we\"ird\\name"=hex:01,02`+"\r\n")
	assert.Contains(t, out, `"Port"=hex(4):50,00,00,00`+"\r\n")
}

func TestExport_WrapsLongValues(t *testing.T) {
	keys := []types.KeySnapshot{{
		Path:   `HKLM\Software`,
		Values: []types.ValueRecord{{Name: "Long", Kind: types.KindBinary, Data: bytes.Repeat([]byte{0xab}, 100)}},
	}}
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, keys, ExportOptions{}))

	for _, line := range strings.Split(buf.String(), "\r\n") {
		assert.LessOrEqual(t, len(line), maxLineWidth+2, line)
	}
	assert.Contains(t, buf.String(), ",\\\r\n  ab")
}

func TestExport_UnknownKind(t *testing.T) {
	keys := []types.KeySnapshot{{
		Path:   `HKLM\Software`,
		Values: []types.ValueRecord{{Name: "x", Kind: types.ValueKind(99)}},
	}}
	err := Export(&bytes.Buffer{}, keys, ExportOptions{})
	assert.ErrorIs(t, err, types.ErrUnknownType)
}

func TestExportParse_RoundTrip(t *testing.T) {
	var values []types.ValueRecord
	for _, k := range types.AllKinds() {
		values = append(values, types.ValueRecord{
			Name: "v_" + k.String(),
			Kind: k,
			Data: bytes.Repeat([]byte{byte(k), 0xff}, int(k)*7),
		})
	}
	keys := []types.KeySnapshot{
		{Path: `HKCU\Software\Round`, Values: values},
		{Path: `HKCU\Software\Round\Child`, Values: []types.ValueRecord{}},
	}

	for _, utf16 := range []bool{false, true} {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, keys, ExportOptions{UTF16: utf16}))

		ops, err := Parse(buf.Bytes())
		require.NoError(t, err)
		require.Len(t, ops, len(values)+2)

		assert.Equal(t, OpCreateKey, ops[0].Kind)
		for i, v := range values {
			got := ops[i+1]
			require.Equal(t, OpSetValue, got.Kind)
			assert.Equal(t, v.Name, got.Value.Name)
			assert.Equal(t, v.Kind, got.Value.Kind)
			assert.True(t, bytes.Equal(v.Data, got.Value.Data), "kind %s", v.Kind)
		}
		assert.Equal(t, `HKEY_CURRENT_USER\Software\Round\Child`, ops[len(ops)-1].Address)
	}
}

func TestUnescapeRegString(t *testing.T) {
	assert.Equal(t, `plain`, unescapeRegString(`plain`))
	assert.Equal(t, `a\b`, unescapeRegString(`a\\b`))
	assert.Equal(t, `say "x"`, unescapeRegString(`say \"x\"`))
	assert.Equal(t, `\"`, unescapeRegString(`\\\"`))
}

func TestFindClosingQuote(t *testing.T) {
	assert.Equal(t, 2, findClosingQuote(`"a"=`))
	assert.Equal(t, 4, findClosingQuote(`"a\""=`))
	assert.Equal(t, 4, findClosingQuote(`"a\\"=`))
	assert.Equal(t, -1, findClosingQuote(`"abc`))
}
