// Package regtext reads and writes the Windows .reg text format.
//
// Export renders key snapshots with every value as raw hex bytes, so any
// kind survives a round trip. Parse turns a .reg file into an ordered list
// of key creations, key deletions and value writes.
package regtext

const (
	// RegFileHeader is the required first line of a version 5 .reg file.
	RegFileHeader = "Windows Registry Editor Version 5.00"

	// RegFileHeaderV4 is the header of the older ANSI format.
	RegFileHeaderV4 = "REGEDIT4"

	KeyOpenBracket     = "["
	KeyCloseBracket    = "]"
	DeleteKeyPrefix    = "-"
	ValueAssignment    = "="
	DefaultValuePrefix = "@="
	CommentPrefix      = ";"
	DeleteValueToken   = "-"

	Quote            = "\""
	Backslash        = "\\"
	EscapedQuote     = "\\\""
	EscapedBackslash = "\\\\"

	CRLF = "\r\n"
	CR   = "\r"

	DWORDPrefix    = "dword:"
	DWORDHexLength = 8
	HexPrefix      = "hex:"
	HexTypeFormat  = "hex(%x):"

	HexByteSeparator = ","
	HexByteFormat    = "%02x"

	// maxLineWidth is where regedit breaks long hex runs with a trailing
	// backslash.
	maxLineWidth = 76

	// continuationIndent prefixes every continued hex line.
	continuationIndent = "  "

	scannerMaxLineSize = 1024 * 1024
)
