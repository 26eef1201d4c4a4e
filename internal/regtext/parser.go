package regtext

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/regkit/pkg/regpath"
	"github.com/joshuapare/regkit/pkg/types"
)

// OpKind says what an Op does.
type OpKind int

const (
	OpCreateKey OpKind = iota // [path]
	OpDeleteKey               // [-path], recursive
	OpSetValue                // "name"=data under the current key
)

func (k OpKind) String() string {
	switch k {
	case OpCreateKey:
		return "create"
	case OpDeleteKey:
		return "delete"
	case OpSetValue:
		return "set"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// MarshalText renders the kind by name.
func (k OpKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Op is one step of a parsed .reg file.
type Op struct {
	Kind    OpKind
	Address string            // canonical key address
	Value   types.ValueRecord // OpSetValue only
	Line    int               // 1-based line the op starts on
}

// ErrValueDelete is returned for "name"=- lines; deleting single values
// is not supported.
var ErrValueDelete = errors.New("regtext: value deletion is not supported")

// ParseError locates a parse failure.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("regtext: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse converts .reg text into ops, in file order. Key paths are resolved
// and rewritten with canonical hive names; a path with an unknown hive is
// an error.
func Parse(data []byte) ([]Op, error) {
	text, err := decodeInput(data)
	if err != nil {
		return nil, err
	}
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), scannerMaxLineSize)

	var (
		ops        []Op
		current    string
		seenHeader bool
		lineNo     int
	)
	fail := func(line int, err error) ([]Op, error) {
		return nil, &ParseError{Line: line, Err: err}
	}

	for scanner.Scan() {
		lineNo++
		start := lineNo
		trim := strings.TrimSpace(strings.TrimRight(scanner.Text(), CR))

		// A trailing backslash continues the logical line.
		for strings.HasSuffix(trim, Backslash) && !strings.HasPrefix(trim, KeyOpenBracket) && scanner.Scan() {
			lineNo++
			trim = strings.TrimSuffix(trim, Backslash) + strings.TrimSpace(strings.TrimRight(scanner.Text(), CR))
		}

		if trim == "" || strings.HasPrefix(trim, CommentPrefix) {
			continue
		}
		if !seenHeader {
			if trim != RegFileHeader && trim != RegFileHeaderV4 {
				return fail(start, errors.New("missing header"))
			}
			seenHeader = true
			continue
		}
		if strings.HasPrefix(trim, KeyOpenBracket) {
			if !strings.HasSuffix(trim, KeyCloseBracket) {
				return fail(start, fmt.Errorf("malformed section %q", trim))
			}
			section := strings.TrimSuffix(strings.TrimPrefix(trim, KeyOpenBracket), KeyCloseBracket)
			kind := OpCreateKey
			if strings.HasPrefix(section, DeleteKeyPrefix) {
				kind = OpDeleteKey
				section = section[len(DeleteKeyPrefix):]
			}
			addr, err := regpath.Resolve(strings.TrimSpace(section))
			if err != nil {
				return fail(start, err)
			}
			ops = append(ops, Op{Kind: kind, Address: addr.String(), Line: start})
			current = ""
			if kind == OpCreateKey {
				current = addr.String()
			}
			continue
		}
		if current == "" {
			return fail(start, fmt.Errorf("value outside a key section: %q", trim))
		}
		v, err := parseValueLine(trim)
		if err != nil {
			return fail(start, err)
		}
		ops = append(ops, Op{Kind: OpSetValue, Address: current, Value: v, Line: start})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !seenHeader {
		return nil, &ParseError{Line: 1, Err: errors.New("missing header")}
	}
	return ops, nil
}

func parseValueLine(line string) (types.ValueRecord, error) {
	if strings.HasPrefix(line, DefaultValuePrefix) {
		return parseValue("", line[len(DefaultValuePrefix):])
	}
	if !strings.HasPrefix(line, Quote) {
		return types.ValueRecord{}, fmt.Errorf("malformed value line %q", line)
	}
	end := findClosingQuote(line)
	if end < 0 {
		return types.ValueRecord{}, fmt.Errorf("unterminated value name in %q", line)
	}
	name := unescapeRegString(line[1:end])
	rest := strings.TrimSpace(line[end+1:])
	if !strings.HasPrefix(rest, ValueAssignment) {
		return types.ValueRecord{}, fmt.Errorf("missing '=' in %q", line)
	}
	return parseValue(name, rest[len(ValueAssignment):])
}

func parseValue(name, payload string) (types.ValueRecord, error) {
	payload = strings.TrimSpace(payload)
	v := types.ValueRecord{Name: name}

	switch {
	case payload == DeleteValueToken:
		return v, fmt.Errorf("%w: %q", ErrValueDelete, name)

	case strings.HasPrefix(payload, Quote):
		if len(payload) < 2 || findClosingQuote(payload) != len(payload)-1 {
			return v, fmt.Errorf("unterminated string %q", payload)
		}
		data, err := encodeUTF16LEZeroTerminated(unescapeRegString(payload[1 : len(payload)-1]))
		if err != nil {
			return v, err
		}
		v.Kind, v.Data = types.KindString, data

	case strings.HasPrefix(strings.ToLower(payload), DWORDPrefix):
		hexPart := payload[len(DWORDPrefix):]
		if len(hexPart) != DWORDHexLength {
			return v, fmt.Errorf("invalid dword %q", payload)
		}
		n, err := strconv.ParseUint(hexPart, 16, 32)
		if err != nil {
			return v, fmt.Errorf("invalid dword %q", payload)
		}
		v.Kind, v.Data = types.KindDword, binary.LittleEndian.AppendUint32(nil, uint32(n))

	case strings.HasPrefix(strings.ToLower(payload), "hex"):
		kind, data, err := parseHexPayload(strings.ToLower(payload))
		if err != nil {
			return v, err
		}
		v.Kind, v.Data = kind, data

	default:
		return v, fmt.Errorf("unsupported value %q", payload)
	}
	return v, nil
}

// parseHexPayload handles hex: (binary) and hex(N): where N is the native
// type number in hex. Unknown type numbers are rejected.
func parseHexPayload(payload string) (types.ValueKind, []byte, error) {
	kind := types.KindBinary
	if typeNum, found := parseHexValueType(payload); found {
		n, err := strconv.ParseUint(typeNum, 16, 32)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid value type %q", typeNum)
		}
		if kind, err = types.FromNative(types.RegType(n)); err != nil {
			return 0, nil, err
		}
	} else if !strings.HasPrefix(payload, HexPrefix) {
		return 0, nil, fmt.Errorf("unsupported value %q", payload)
	}

	data, err := parseHexBytes(payload)
	if err != nil {
		return 0, nil, err
	}
	return kind, data, nil
}
