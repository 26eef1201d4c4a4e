package types

import "fmt"

// Separator joins the segments of a registry path.
const Separator = `\`

// Root identifies one of the five predefined top-level hives.
type Root uint8

const (
	LocalMachine Root = iota
	CurrentUser
	ClassesRoot
	Users
	CurrentConfig

	rootCount = iota
)

var rootNames = [rootCount]struct {
	canonical string
	alias     string
}{
	LocalMachine:  {"HKEY_LOCAL_MACHINE", "HKLM"},
	CurrentUser:   {"HKEY_CURRENT_USER", "HKCU"},
	ClassesRoot:   {"HKEY_CLASSES_ROOT", "HKCR"},
	Users:         {"HKEY_USERS", "HKU"},
	CurrentConfig: {"HKEY_CURRENT_CONFIG", "HKCC"},
}

// AllRoots returns every root hive in declaration order.
func AllRoots() []Root {
	return []Root{LocalMachine, CurrentUser, ClassesRoot, Users, CurrentConfig}
}

// String returns the canonical hive name, e.g. "HKEY_LOCAL_MACHINE".
func (r Root) String() string {
	if int(r) < rootCount {
		return rootNames[r].canonical
	}
	return fmt.Sprintf("Root(%d)", uint8(r))
}

// Alias returns the short hive name, e.g. "HKLM".
func (r Root) Alias() string {
	if int(r) < rootCount {
		return rootNames[r].alias
	}
	return ""
}

// Valid reports whether r is one of the five hives.
func (r Root) Valid() bool {
	return int(r) < rootCount
}

// Address is a resolved registry location: a hive plus the path below it.
// Subpath is empty when the address names the hive itself and never starts
// or ends with Separator.
type Address struct {
	Root    Root
	Subpath string
}

// IsRoot reports whether the address names the hive itself.
func (a Address) IsRoot() bool {
	return a.Subpath == ""
}

// String renders the canonical form, e.g. `HKEY_CURRENT_USER\Software\Foo`.
func (a Address) String() string {
	if a.Subpath == "" {
		return a.Root.String()
	}
	return a.Root.String() + Separator + a.Subpath
}
