package regtext

import (
	"bytes"
	"fmt"
	"io"

	"github.com/joshuapare/regkit/pkg/regpath"
	"github.com/joshuapare/regkit/pkg/types"
)

// ExportOptions controls Export.
type ExportOptions struct {
	// UTF16 writes UTF-16LE with a byte order mark, as regedit does.
	// Otherwise the output is UTF-8 without a mark.
	UTF16 bool
}

// Export writes keys as a .reg file, one section per key in the given
// order. Values keep their snapshot order and are written as raw hex so
// every kind round trips. Keys with skipped entries get a comment saying
// how many were left out.
func Export(w io.Writer, keys []types.KeySnapshot, opts ExportOptions) error {
	var buf bytes.Buffer
	buf.WriteString(RegFileHeader + CRLF + CRLF)
	for _, snap := range keys {
		if err := exportKey(&buf, snap); err != nil {
			return err
		}
	}

	if !opts.UTF16 {
		_, err := w.Write(buf.Bytes())
		return err
	}
	enc := utf16Writer(w)
	if _, err := enc.Write(buf.Bytes()); err != nil {
		return err
	}
	return enc.Close()
}

func exportKey(buf *bytes.Buffer, snap types.KeySnapshot) error {
	addr, err := regpath.Resolve(snap.Path)
	if err != nil {
		return err
	}
	buf.WriteString(KeyOpenBracket)
	buf.WriteString(addr.String())
	buf.WriteString(KeyCloseBracket + CRLF)
	if snap.Truncated() {
		fmt.Fprintf(buf, "%s %d entries could not be read%s", CommentPrefix, snap.Skipped, CRLF)
	}
	for _, v := range snap.Values {
		if err := emitValue(buf, v); err != nil {
			return err
		}
	}
	buf.WriteString(CRLF)
	return nil
}

func emitValue(buf *bytes.Buffer, v types.ValueRecord) error {
	native, err := types.ToNative(v.Kind)
	if err != nil {
		return fmt.Errorf("value %q: %w", v.Name, err)
	}

	start := buf.Len()
	if v.Name == "" {
		buf.WriteString(DefaultValuePrefix)
	} else {
		buf.WriteString(Quote)
		buf.WriteString(escapeString(v.Name))
		buf.WriteString(Quote + ValueAssignment)
	}
	if native == types.REG_BINARY {
		buf.WriteString(HexPrefix)
	} else {
		fmt.Fprintf(buf, HexTypeFormat, uint32(native))
	}
	writeHex(buf, v.Data, buf.Len()-start)
	buf.WriteString(CRLF)
	return nil
}

// writeHex writes data as comma separated hex pairs, breaking the line
// with a trailing backslash once it passes maxLineWidth.
func writeHex(buf *bytes.Buffer, data []byte, col int) {
	for i, b := range data {
		fmt.Fprintf(buf, HexByteFormat, b)
		col += 2
		if i == len(data)-1 {
			break
		}
		buf.WriteString(HexByteSeparator)
		col++
		if col >= maxLineWidth {
			buf.WriteString(Backslash + CRLF + continuationIndent)
			col = len(continuationIndent)
		}
	}
}
