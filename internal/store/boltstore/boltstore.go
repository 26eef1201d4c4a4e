// Package boltstore persists an emulated registry in a single bbolt file,
// so regkit can be used and tested on hosts without a Windows registry.
//
// Layout: one top-level bucket per hive, named by its canonical name. Each
// key is a bucket; inside it, child keys live in nested buckets under
// "k:"+lower(name), values under "v:"+lower(name) as msgpack records, and
// the key's display name under "n".
package boltstore

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"

	"github.com/joshuapare/regkit/internal/store"
	"github.com/joshuapare/regkit/pkg/regpath"
	"github.com/joshuapare/regkit/pkg/types"
)

var (
	keyPrefix   = []byte("k:")
	valuePrefix = []byte("v:")
	nameKey     = []byte("n")
)

// ErrCorrupt is reported for entries that cannot be decoded.
var ErrCorrupt = errors.New("boltstore: corrupt entry")

// Options tunes the underlying bbolt database.
type Options struct {
	// Timeout bounds waiting for the file lock. Zero means 10s.
	Timeout time.Duration
	// NoSync skips fsync after each commit. Only for tests.
	NoSync bool
	// ReadOnly opens the file with a shared lock; writes fail.
	ReadOnly bool
}

// valueRecord is the msgpack form of one stored value.
type valueRecord struct {
	Name string `msgpack:"n"`
	Type uint32 `msgpack:"t"`
	Data []byte `msgpack:"d"`
}

// Store is a bbolt-backed registry.
type Store struct {
	db *bbolt.DB
}

var _ store.Store = (*Store)(nil)

// Open opens or creates the registry file at path and ensures every hive
// bucket exists.
func Open(path string, opt Options) (*Store, error) {
	bopt := *bbolt.DefaultOptions
	bopt.Timeout = opt.Timeout
	if bopt.Timeout == 0 {
		bopt.Timeout = 10 * time.Second
	}
	bopt.NoSync = opt.NoSync
	bopt.ReadOnly = opt.ReadOnly

	db, err := bbolt.Open(path, 0o600, &bopt)
	if err != nil {
		return nil, fmt.Errorf("boltstore: open %s: %w", path, err)
	}
	if !opt.ReadOnly {
		err = db.Update(func(tx *bbolt.Tx) error {
			for _, r := range types.AllRoots() {
				if _, err := tx.CreateBucketIfNotExists([]byte(r.String())); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("boltstore: init hives: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.db.Path()
}

func childKey(name string) []byte {
	return append(append([]byte(nil), keyPrefix...), strings.ToLower(name)...)
}

func valueKey(name string) []byte {
	return append(append([]byte(nil), valuePrefix...), strings.ToLower(name)...)
}

// lookup walks addr inside tx.
func lookup(tx *bbolt.Tx, addr types.Address) (*bbolt.Bucket, error) {
	b := tx.Bucket([]byte(addr.Root.String()))
	if b == nil {
		return nil, store.NotExist(addr, nil)
	}
	for _, seg := range regpath.Split(addr.Subpath) {
		b = b.Bucket(childKey(seg))
		if b == nil {
			return nil, store.NotExist(addr, nil)
		}
	}
	return b, nil
}

// OpenKey implements store.Store.
func (s *Store) OpenKey(addr types.Address) (store.Key, error) {
	err := s.db.View(func(tx *bbolt.Tx) error {
		_, err := lookup(tx, addr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &key{db: s.db, addr: addr}, nil
}

// CreateKey implements store.Store. The whole chain is created in one
// transaction, so a rejected segment leaves nothing behind.
func (s *Store) CreateKey(addr types.Address) (store.Key, error) {
	segs := regpath.Split(addr.Subpath)
	if len(segs) > store.MaxTreeDepth {
		return nil, fmt.Errorf("%w: path deeper than %d levels", store.ErrInvalidName, store.MaxTreeDepth)
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(addr.Root.String()))
		if b == nil {
			return fmt.Errorf("%w: unknown hive %s", store.ErrInvalidName, addr.Root)
		}
		for _, seg := range segs {
			if err := store.CheckKeyName(seg); err != nil {
				return err
			}
			child := b.Bucket(childKey(seg))
			if child == nil {
				var err error
				child, err = b.CreateBucket(childKey(seg))
				if err != nil {
					return err
				}
				if err := child.Put(nameKey, []byte(seg)); err != nil {
					return err
				}
			}
			b = child
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &key{db: s.db, addr: addr}, nil
}

// DeleteKeyTree implements store.Store.
func (s *Store) DeleteKeyTree(addr types.Address) error {
	parent, ok := regpath.Parent(addr)
	if !ok {
		return fmt.Errorf("%w: cannot delete hive %s", store.ErrInvalidName, addr.Root)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		pb, err := lookup(tx, parent)
		if err != nil {
			return store.NotExist(addr, nil)
		}
		err = pb.DeleteBucket(childKey(regpath.Base(addr)))
		if errors.Is(err, bbolt.ErrBucketNotFound) {
			return store.NotExist(addr, err)
		}
		return err
	})
}

// Close implements store.Store.
func (s *Store) Close() error {
	return s.db.Close()
}

// key re-resolves its path in every transaction; a key deleted by another
// handle reports store.ErrKeyDeleted.
type key struct {
	db   *bbolt.DB
	addr types.Address
}

func (k *key) bucket(tx *bbolt.Tx) (*bbolt.Bucket, error) {
	b, err := lookup(tx, k.addr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k.addr, store.ErrKeyDeleted)
	}
	return b, nil
}

func (k *key) EachSubkey(fn func(name string, err error)) error {
	return k.db.View(func(tx *bbolt.Tx) error {
		b, err := k.bucket(tx)
		if err != nil {
			return err
		}
		c := b.Cursor()
		for ck, v := c.Seek(keyPrefix); ck != nil && bytes.HasPrefix(ck, keyPrefix); ck, v = c.Next() {
			if v != nil {
				fn("", fmt.Errorf("%w: key entry %q is not a bucket", ErrCorrupt, ck))
				continue
			}
			name := b.Bucket(ck).Get(nameKey)
			if name == nil {
				fn("", fmt.Errorf("%w: key entry %q has no name", ErrCorrupt, ck))
				continue
			}
			fn(string(name), nil)
		}
		return nil
	})
}

func (k *key) EachValue(fn func(name string, typ types.RegType, data []byte, err error)) error {
	return k.db.View(func(tx *bbolt.Tx) error {
		b, err := k.bucket(tx)
		if err != nil {
			return err
		}
		c := b.Cursor()
		for ck, v := c.Seek(valuePrefix); ck != nil && bytes.HasPrefix(ck, valuePrefix); ck, v = c.Next() {
			var rec valueRecord
			if v == nil {
				fn(string(ck[len(valuePrefix):]), 0, nil, fmt.Errorf("%w: value entry %q is a bucket", ErrCorrupt, ck))
				continue
			}
			if err := msgpack.Unmarshal(v, &rec); err != nil {
				fn(string(ck[len(valuePrefix):]), 0, nil, fmt.Errorf("%w: value %q: %w", ErrCorrupt, ck, err))
				continue
			}
			fn(rec.Name, types.RegType(rec.Type), bytes.Clone(rec.Data), nil)
		}
		return nil
	})
}

func (k *key) SetValue(name string, typ types.RegType, data []byte) error {
	if err := store.CheckValueName(name); err != nil {
		return err
	}
	raw, err := msgpack.Marshal(&valueRecord{Name: name, Type: uint32(typ), Data: data})
	if err != nil {
		return fmt.Errorf("boltstore: encode value %q: %w", name, err)
	}
	return k.db.Update(func(tx *bbolt.Tx) error {
		b, err := k.bucket(tx)
		if err != nil {
			return err
		}
		return b.Put(valueKey(name), raw)
	})
}

func (k *key) Close() error { return nil }
