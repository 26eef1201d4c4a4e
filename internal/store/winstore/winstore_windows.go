//go:build windows

package winstore

import (
	"errors"
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/joshuapare/regkit/internal/store"
	"github.com/joshuapare/regkit/pkg/regpath"
	"github.com/joshuapare/regkit/pkg/types"
)

// The registry package has no raw typed setter and its DeleteKey cannot
// select a WOW64 view, so these two are called directly.
var (
	modadvapi32         = windows.NewLazySystemDLL("advapi32.dll")
	procRegSetValueExW  = modadvapi32.NewProc("RegSetValueExW")
	procRegDeleteKeyExW = modadvapi32.NewProc("RegDeleteKeyExW")
	errnoMoreData       = windows.ERROR_MORE_DATA
	errnoNoMoreItems    = windows.ERROR_NO_MORE_ITEMS
	errnoFileNotFound   = windows.ERROR_FILE_NOT_FOUND
	initialNameBufChars = 256
)

var hives = map[types.Root]registry.Key{
	types.LocalMachine:  registry.LOCAL_MACHINE,
	types.CurrentUser:   registry.CURRENT_USER,
	types.ClassesRoot:   registry.CLASSES_ROOT,
	types.Users:         registry.USERS,
	types.CurrentConfig: registry.CURRENT_CONFIG,
}

// Store is the live Windows registry.
type Store struct {
	access uint32 // extra access flags, e.g. WOW64 view selection
}

var _ store.Store = (*Store)(nil)

// Open returns a handle to the live registry. It holds no resources.
func Open(opt Options) (*Store, error) {
	var access uint32
	switch opt.View {
	case View64:
		access = registry.WOW64_64KEY
	case View32:
		access = registry.WOW64_32KEY
	}
	return &Store{access: access}, nil
}

func hive(addr types.Address) (registry.Key, error) {
	k, ok := hives[addr.Root]
	if !ok {
		return 0, fmt.Errorf("%w: unknown hive %d", store.ErrInvalidName, addr.Root)
	}
	return k, nil
}

func translate(addr types.Address, err error) error {
	if errors.Is(err, errnoFileNotFound) {
		return store.NotExist(addr, err)
	}
	return err
}

// OpenKey implements store.Store.
func (s *Store) OpenKey(addr types.Address) (store.Key, error) {
	root, err := hive(addr)
	if err != nil {
		return nil, err
	}
	k, err := registry.OpenKey(root, addr.Subpath, registry.READ|s.access)
	if err != nil {
		return nil, translate(addr, err)
	}
	return &key{k: k, addr: addr}, nil
}

// CreateKey implements store.Store. RegCreateKeyEx creates every missing
// intermediate key itself.
func (s *Store) CreateKey(addr types.Address) (store.Key, error) {
	root, err := hive(addr)
	if err != nil {
		return nil, err
	}
	k, _, err := registry.CreateKey(root, addr.Subpath, registry.ALL_ACCESS|s.access)
	if err != nil {
		return nil, err
	}
	return &key{k: k, addr: addr}, nil
}

// DeleteKeyTree implements store.Store. Children are removed depth first
// because RegDeleteKey refuses keys that still have subkeys.
func (s *Store) DeleteKeyTree(addr types.Address) error {
	if addr.IsRoot() {
		return fmt.Errorf("%w: cannot delete hive %s", store.ErrInvalidName, addr.Root)
	}
	root, err := hive(addr)
	if err != nil {
		return err
	}
	return s.deleteTree(root, addr)
}

func (s *Store) deleteTree(root registry.Key, addr types.Address) error {
	k, err := registry.OpenKey(root, addr.Subpath, registry.ENUMERATE_SUB_KEYS|registry.QUERY_VALUE|s.access)
	if err != nil {
		return translate(addr, err)
	}
	names, err := k.ReadSubKeyNames(-1)
	k.Close()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := s.deleteTree(root, regpath.Join(addr, name)); err != nil {
			return err
		}
	}
	return translate(addr, s.deleteKey(root, addr.Subpath))
}

// deleteKey removes one leaf key in the store's view.
func (s *Store) deleteKey(root registry.Key, subpath string) error {
	p, err := windows.UTF16PtrFromString(subpath)
	if err != nil {
		return err
	}
	r0, _, _ := procRegDeleteKeyExW.Call(
		uintptr(root),
		uintptr(unsafe.Pointer(p)),
		uintptr(s.access),
		0,
	)
	if r0 != 0 {
		return syscall.Errno(r0)
	}
	return nil
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

type key struct {
	k    registry.Key
	addr types.Address
}

// EachSubkey enumerates by index so one undecodable entry does not end the
// listing the way registry.Key.ReadSubKeyNames does.
func (k *key) EachSubkey(fn func(name string, err error)) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	buf := make([]uint16, initialNameBufChars)
	for i := uint32(0); ; i++ {
		l := uint32(len(buf))
		err := windows.RegEnumKeyEx(windows.Handle(k.k), i, &buf[0], &l, nil, nil, nil, nil)
		for errors.Is(err, errnoMoreData) {
			buf = make([]uint16, 2*len(buf))
			l = uint32(len(buf))
			err = windows.RegEnumKeyEx(windows.Handle(k.k), i, &buf[0], &l, nil, nil, nil, nil)
		}
		switch {
		case err == nil:
			fn(windows.UTF16ToString(buf[:l]), nil)
		case errors.Is(err, errnoNoMoreItems):
			return nil
		case errors.Is(err, windows.ERROR_KEY_DELETED), errors.Is(err, windows.ERROR_INVALID_HANDLE):
			return err
		default:
			fn("", err)
		}
	}
}

// EachValue enumerates by index for the same reason as EachSubkey. Names
// are collected first so reading data cannot shift the indexes.
func (k *key) EachValue(fn func(name string, typ types.RegType, data []byte, err error)) error {
	names, err := k.valueNames(fn)
	if err != nil {
		return err
	}
	for _, name := range names {
		data, typ, err := k.getValue(name)
		fn(name, typ, data, err)
	}
	return nil
}

func (k *key) valueNames(fn func(string, types.RegType, []byte, error)) ([]string, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var names []string
	buf := make([]uint16, initialNameBufChars)
	for i := uint32(0); ; i++ {
		l := uint32(len(buf))
		err := windows.RegEnumValue(windows.Handle(k.k), i, &buf[0], &l, nil, nil, nil, nil)
		for errors.Is(err, errnoMoreData) {
			buf = make([]uint16, 2*len(buf))
			l = uint32(len(buf))
			err = windows.RegEnumValue(windows.Handle(k.k), i, &buf[0], &l, nil, nil, nil, nil)
		}
		switch {
		case err == nil:
			names = append(names, windows.UTF16ToString(buf[:l]))
		case errors.Is(err, errnoNoMoreItems):
			return names, nil
		case errors.Is(err, windows.ERROR_KEY_DELETED), errors.Is(err, windows.ERROR_INVALID_HANDLE):
			return nil, err
		default:
			fn("", 0, nil, err)
		}
	}
}

func (k *key) getValue(name string) ([]byte, types.RegType, error) {
	n, typ, err := k.k.GetValue(name, nil)
	if err != nil {
		return nil, 0, err
	}
	for {
		buf := make([]byte, n)
		n, typ, err = k.k.GetValue(name, buf)
		if errors.Is(err, registry.ErrShortBuffer) {
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		return buf[:n], types.RegType(typ), nil
	}
}

func (k *key) SetValue(name string, typ types.RegType, data []byte) error {
	pname, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidName, err)
	}
	var pdata *byte
	if len(data) > 0 {
		pdata = &data[0]
	}
	r0, _, _ := procRegSetValueExW.Call(
		uintptr(k.k),
		uintptr(unsafe.Pointer(pname)),
		0,
		uintptr(typ),
		uintptr(unsafe.Pointer(pdata)),
		uintptr(len(data)),
	)
	if r0 != 0 {
		return syscall.Errno(r0)
	}
	return nil
}

func (k *key) Close() error {
	return k.k.Close()
}
