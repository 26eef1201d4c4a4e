// Package winstore is the live Windows registry backend, built on
// golang.org/x/sys/windows/registry. On other platforms Open returns
// store.ErrUnsupported.
package winstore

// View selects which WOW64 registry view keys are opened in.
type View int

const (
	ViewDefault View = iota // the view native to the running process
	View64                  // KEY_WOW64_64KEY
	View32                  // KEY_WOW64_32KEY
)

// Options configures the native backend.
type Options struct {
	View View
}
