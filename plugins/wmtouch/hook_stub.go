//go:build !windows

package wmtouch

import (
	"github.com/skirk/tslib/ts"
)

// attach is a no-op without a native window subsystem: there is no
// procedure to subclass, so frames arrive only through the interceptor
// or Inject (tests and the tsprint demo source).
func (in *Input) attach(ts.WindowHandle) error {
	return nil
}
