package types

import (
	"fmt"
	"strings"
)

// ValueKind is the closed set of value kinds exposed to callers. It is
// deliberately distinct from RegType: kinds cross the API boundary as
// string tags, RegType is what the store speaks.
type ValueKind uint8

const (
	KindNone ValueKind = iota
	KindString
	KindExpandableString
	KindBinary
	KindDword
	KindDwordBigEndian
	KindLink
	KindMultiString
	KindResourceList
	KindFullResourceDescriptor
	KindResourceRequirementsList
	KindQword

	kindCount = iota
)

// kindTable pairs every kind with its boundary tag and native type.
// Indexed by ValueKind. A kind added without an entry collides with
// KindNone on REG_NONE and trips the init check below.
var kindTable = [kindCount]struct {
	tag    string
	native RegType
}{
	KindNone:                     {"RegNone", REG_NONE},
	KindString:                   {"RegSz", REG_SZ},
	KindExpandableString:         {"RegExpandSz", REG_EXPAND_SZ},
	KindBinary:                   {"RegBinary", REG_BINARY},
	KindDword:                    {"RegDword", REG_DWORD},
	KindDwordBigEndian:           {"RegDwordBigEndian", REG_DWORD_BIG_ENDIAN},
	KindLink:                     {"RegLink", REG_LINK},
	KindMultiString:              {"RegMultiSz", REG_MULTI_SZ},
	KindResourceList:             {"RegResourceList", REG_RESOURCE_LIST},
	KindFullResourceDescriptor:   {"RegFullResourceDescriptor", REG_FULL_RESOURCE_DESCRIPTOR},
	KindResourceRequirementsList: {"RegResourceRequirementsList", REG_RESOURCE_REQUIREMENTS_LIST},
	KindQword:                    {"RegQword", REG_QWORD},
}

// nativeTable is the inverse of kindTable, built once at init.
var nativeTable map[RegType]ValueKind

// tagTable maps lowercased boundary tags and REG_* names to kinds.
var tagTable map[string]ValueKind

func init() {
	nativeTable = make(map[RegType]ValueKind, kindCount)
	tagTable = make(map[string]ValueKind, 2*kindCount)
	for k, e := range kindTable {
		kind := ValueKind(k)
		if _, dup := nativeTable[e.native]; dup {
			panic(fmt.Sprintf("types: native tag %s mapped twice", e.native))
		}
		nativeTable[e.native] = kind
		tagTable[strings.ToLower(e.tag)] = kind
		tagTable[strings.ToLower(e.native.String())] = kind
	}
}

// AllKinds returns every value kind in declaration order.
func AllKinds() []ValueKind {
	kinds := make([]ValueKind, kindCount)
	for i := range kinds {
		kinds[i] = ValueKind(i)
	}
	return kinds
}

// String returns the boundary tag (e.g. "RegSz").
func (k ValueKind) String() string {
	if int(k) < kindCount {
		return kindTable[k].tag
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

// Valid reports whether k is one of the twelve kinds.
func (k ValueKind) Valid() bool {
	return int(k) < kindCount
}

// MarshalText encodes the kind as its boundary tag.
func (k ValueKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, unknownKind(k)
	}
	return []byte(kindTable[k].tag), nil
}

// UnmarshalText accepts any spelling ParseValueKind accepts.
func (k *ValueKind) UnmarshalText(text []byte) error {
	v, err := ParseValueKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseValueKind parses a boundary tag ("RegDword") or a native name
// ("REG_DWORD"), case-insensitively.
func ParseValueKind(s string) (ValueKind, error) {
	if k, ok := tagTable[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return 0, &Error{Kind: ErrKindUnknownType, Msg: "unknown value kind " + fmt.Sprintf("%q", s)}
}

// ToNative maps a kind to its native tag.
func ToNative(k ValueKind) (RegType, error) {
	if !k.Valid() {
		return 0, unknownKind(k)
	}
	return kindTable[k].native, nil
}

// FromNative maps a native tag back to its kind. Tags outside the twelve
// recognized values are rejected, never coerced to KindNone.
func FromNative(t RegType) (ValueKind, error) {
	if k, ok := nativeTable[t]; ok {
		return k, nil
	}
	return 0, &Error{Kind: ErrKindUnknownType, Msg: "unrecognized native value type " + t.String()}
}

func unknownKind(k ValueKind) *Error {
	return &Error{Kind: ErrKindUnknownType, Msg: "unrecognized value kind " + k.String()}
}
