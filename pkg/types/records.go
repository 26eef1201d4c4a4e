package types

import (
	"bytes"
	"strings"
)

// ValueRecord is one named value under a key. Data is carried as-is and
// never decoded.
type ValueRecord struct {
	Name string    `json:"name"` // "" for the default value
	Kind ValueKind `json:"kind"`
	Data []byte    `json:"data"`
}

// Equal reports whether two records have the same name, kind and bytes.
func (v ValueRecord) Equal(o ValueRecord) bool {
	return v.Name == o.Name && v.Kind == o.Kind && bytes.Equal(v.Data, o.Data)
}

// KeySnapshot is the result of listing one key at one point in time.
//
// Enumeration is best effort: an entry the store cannot return is dropped
// and counted in Skipped, so a snapshot may under-report its children or
// values. Check Truncated before trusting a listing as complete.
type KeySnapshot struct {
	Exists  bool          `json:"exists"`
	Path    string        `json:"path,omitempty"`
	Subkeys []string      `json:"keys"`
	Values  []ValueRecord `json:"values"`
	Skipped int           `json:"skipped,omitempty"`
}

// Truncated reports whether any subkey or value was dropped while listing.
func (s KeySnapshot) Truncated() bool {
	return s.Skipped > 0
}

// Value returns the value with the given name, matched case-insensitively
// the way the registry matches names.
func (s KeySnapshot) Value(name string) (ValueRecord, bool) {
	for _, v := range s.Values {
		if strings.EqualFold(v.Name, name) {
			return v, true
		}
	}
	return ValueRecord{}, false
}

// PutRequest writes Values, in order, into the key at Address, creating
// the key and any missing parents first.
type PutRequest struct {
	Address string        `json:"address"`
	Values  []ValueRecord `json:"values"`
}
