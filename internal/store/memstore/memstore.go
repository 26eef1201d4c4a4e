// Package memstore is an in-process registry tree implementing store.Store.
//
// Names compare case-insensitively and keep the case they were created
// with, like the Windows registry. Enumeration yields entries in creation
// order. A FaultFunc can be installed to make chosen operations fail,
// which is how batch and enumeration loss policies are tested.
package memstore

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joshuapare/regkit/internal/store"
	"github.com/joshuapare/regkit/pkg/regpath"
	"github.com/joshuapare/regkit/pkg/types"
)

// Op names an operation a FaultFunc can intercept.
type Op int

const (
	OpOpen      Op = iota // OpenKey
	OpCreate              // CreateKey
	OpDelete              // DeleteKeyTree
	OpSetValue            // SetValue; name is the value name
	OpEnumKeys            // whole subkey enumeration
	OpEnumKey             // one subkey entry; name is the child name
	OpEnumValues          // whole value enumeration
	OpEnumValue           // one value entry; name is the value name
)

func (o Op) String() string {
	switch o {
	case OpOpen:
		return "open"
	case OpCreate:
		return "create"
	case OpDelete:
		return "delete"
	case OpSetValue:
		return "set value"
	case OpEnumKeys:
		return "enumerate keys"
	case OpEnumKey:
		return "enumerate key entry"
	case OpEnumValues:
		return "enumerate values"
	case OpEnumValue:
		return "enumerate value entry"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// FaultFunc returns a non-nil error to make op on addr (and, for entry and
// value operations, name) fail.
type FaultFunc func(op Op, addr types.Address, name string) error

// Store is an in-memory registry. The zero value is not usable; call New.
type Store struct {
	mu     sync.RWMutex
	roots  map[types.Root]*node
	fault  FaultFunc
	closed bool
}

type node struct {
	name     string
	parent   *node
	children map[string]*node // keyed by lowercased name
	keyOrder []string
	values   map[string]*value // keyed by lowercased name
	valOrder []string
	deleted  bool
}

type value struct {
	name string
	typ  types.RegType
	data []byte
}

var _ store.Store = (*Store)(nil)

// New returns an empty registry with all five hives present.
func New() *Store {
	s := &Store{roots: make(map[types.Root]*node)}
	for _, r := range types.AllRoots() {
		s.roots[r] = newNode(r.String(), nil)
	}
	return s
}

func newNode(name string, parent *node) *node {
	return &node{
		name:     name,
		parent:   parent,
		children: make(map[string]*node),
		values:   make(map[string]*value),
	}
}

// SetFault installs f, replacing any previous fault. A nil f clears it.
func (s *Store) SetFault(f FaultFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = f
}

// FailOn is a convenience FaultFunc failing op on the key at address with
// err. An empty name matches every entry name.
func FailOn(op Op, address, name string, err error) FaultFunc {
	want := regpath.MustResolve(address)
	return func(gotOp Op, addr types.Address, gotName string) error {
		if gotOp != op || addr.Root != want.Root || !strings.EqualFold(addr.Subpath, want.Subpath) {
			return nil
		}
		if name != "" && !strings.EqualFold(name, gotName) {
			return nil
		}
		return err
	}
}

func (s *Store) check(op Op, addr types.Address, name string) error {
	if s.fault == nil {
		return nil
	}
	return s.fault(op, addr, name)
}

// walk follows addr from its hive. Caller holds the lock.
func (s *Store) walk(addr types.Address) (*node, error) {
	n, ok := s.roots[addr.Root]
	if !ok {
		return nil, fmt.Errorf("%w: unknown hive %d", store.ErrInvalidName, addr.Root)
	}
	for _, seg := range regpath.Split(addr.Subpath) {
		child, ok := n.children[strings.ToLower(seg)]
		if !ok {
			return nil, store.NotExist(addr, nil)
		}
		n = child
	}
	return n, nil
}

// OpenKey implements store.Store.
func (s *Store) OpenKey(addr types.Address) (store.Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrClosed
	}
	if err := s.check(OpOpen, addr, ""); err != nil {
		return nil, err
	}
	n, err := s.walk(addr)
	if err != nil {
		return nil, err
	}
	return &key{s: s, n: n, addr: addr}, nil
}

// CreateKey implements store.Store.
func (s *Store) CreateKey(addr types.Address) (store.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, store.ErrClosed
	}
	if err := s.check(OpCreate, addr, ""); err != nil {
		return nil, err
	}
	n, ok := s.roots[addr.Root]
	if !ok {
		return nil, fmt.Errorf("%w: unknown hive %d", store.ErrInvalidName, addr.Root)
	}
	segs := regpath.Split(addr.Subpath)
	if len(segs) > store.MaxTreeDepth {
		return nil, fmt.Errorf("%w: path deeper than %d levels", store.ErrInvalidName, store.MaxTreeDepth)
	}
	// Validate every segment before creating anything.
	for _, seg := range segs {
		if err := store.CheckKeyName(seg); err != nil {
			return nil, err
		}
	}
	for _, seg := range segs {
		lower := strings.ToLower(seg)
		child, ok := n.children[lower]
		if !ok {
			child = newNode(seg, n)
			n.children[lower] = child
			n.keyOrder = append(n.keyOrder, lower)
		}
		n = child
	}
	return &key{s: s, n: n, addr: addr}, nil
}

// DeleteKeyTree implements store.Store.
func (s *Store) DeleteKeyTree(addr types.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	if err := s.check(OpDelete, addr, ""); err != nil {
		return err
	}
	if addr.IsRoot() {
		return fmt.Errorf("%w: cannot delete hive %s", store.ErrInvalidName, addr.Root)
	}
	n, err := s.walk(addr)
	if err != nil {
		return err
	}
	parent := n.parent
	lower := strings.ToLower(n.name)
	delete(parent.children, lower)
	for i, k := range parent.keyOrder {
		if k == lower {
			parent.keyOrder = append(parent.keyOrder[:i], parent.keyOrder[i+1:]...)
			break
		}
	}
	markDeleted(n)
	return nil
}

func markDeleted(n *node) {
	n.deleted = true
	for _, c := range n.children {
		markDeleted(c)
	}
}

// Close implements store.Store. Open keys fail afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type key struct {
	s      *Store
	n      *node
	addr   types.Address
	closed bool
}

func (k *key) usable() error {
	switch {
	case k.closed || k.s.closed:
		return store.ErrClosed
	case k.n.deleted:
		return fmt.Errorf("%s: %w", k.addr, store.ErrKeyDeleted)
	}
	return nil
}

func (k *key) EachSubkey(fn func(name string, err error)) error {
	k.s.mu.RLock()
	defer k.s.mu.RUnlock()
	if err := k.usable(); err != nil {
		return err
	}
	if err := k.s.check(OpEnumKeys, k.addr, ""); err != nil {
		return err
	}
	for _, lower := range k.n.keyOrder {
		child := k.n.children[lower]
		if err := k.s.check(OpEnumKey, k.addr, child.name); err != nil {
			fn("", err)
			continue
		}
		fn(child.name, nil)
	}
	return nil
}

func (k *key) EachValue(fn func(name string, typ types.RegType, data []byte, err error)) error {
	k.s.mu.RLock()
	defer k.s.mu.RUnlock()
	if err := k.usable(); err != nil {
		return err
	}
	if err := k.s.check(OpEnumValues, k.addr, ""); err != nil {
		return err
	}
	for _, lower := range k.n.valOrder {
		v := k.n.values[lower]
		if err := k.s.check(OpEnumValue, k.addr, v.name); err != nil {
			fn(v.name, 0, nil, err)
			continue
		}
		fn(v.name, v.typ, append([]byte(nil), v.data...), nil)
	}
	return nil
}

func (k *key) SetValue(name string, typ types.RegType, data []byte) error {
	k.s.mu.Lock()
	defer k.s.mu.Unlock()
	if err := k.usable(); err != nil {
		return err
	}
	if err := store.CheckValueName(name); err != nil {
		return err
	}
	if err := k.s.check(OpSetValue, k.addr, name); err != nil {
		return err
	}
	lower := strings.ToLower(name)
	if v, ok := k.n.values[lower]; ok {
		v.typ = typ
		v.data = append([]byte(nil), data...)
		return nil
	}
	k.n.values[lower] = &value{name: name, typ: typ, data: append([]byte(nil), data...)}
	k.n.valOrder = append(k.n.valOrder, lower)
	return nil
}

func (k *key) Close() error {
	k.closed = true
	return nil
}
