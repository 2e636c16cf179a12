//go:build windows

package wmtouch

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/AllenDang/w32"
	"golang.org/x/sys/windows"

	"github.com/skirk/tslib/ts"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procSetWindowLongPtr      = user32.NewProc("SetWindowLongPtrW")
	procCallWindowProc        = user32.NewProc("CallWindowProcW")
	procDefWindowProc         = user32.NewProc("DefWindowProcW")
	procRegisterTouchWindow   = user32.NewProc("RegisterTouchWindow")
	procGetTouchInputInfo     = user32.NewProc("GetTouchInputInfo")
	procCloseTouchInputHandle = user32.NewProc("CloseTouchInputHandle")
)

const gwlpWndProc = -4 // GWLP_WNDPROC

// trampoline is the window procedure installed by the subclass. It
// recovers the device state through the window registry and hands the
// message to the interceptor chain.
var trampoline = syscall.NewCallback(func(hwnd, msg, wparam, lparam uintptr) uintptr {
	in := Lookup(ts.WindowHandle(hwnd))
	if in == nil {
		r, _, _ := procDefWindowProc.Call(hwnd, msg, wparam, lparam)
		return r
	}
	return in.ic.HandleMessage(ts.WindowHandle(hwnd), uint32(msg), wparam, lparam)
})

// attach registers win for raw touch messages and installs the
// interceptor as its window procedure. The procedure that was active
// before becomes the tail of the chain.
func (in *Input) attach(win ts.WindowHandle) error {
	if r, _, _ := procRegisterTouchWindow.Call(uintptr(win), 0); r == 0 {
		return fmt.Errorf("wmtouch: RegisterTouchWindow: error %d", w32.GetLastError())
	}
	idx := gwlpWndProc
	prev, _, _ := procSetWindowLongPtr.Call(uintptr(win), uintptr(idx), trampoline)
	if prev == 0 {
		return fmt.Errorf("wmtouch: SetWindowLongPtr: error %d", w32.GetLastError())
	}
	in.prevProc = prev
	in.ic.next = prevProcHandler{proc: prev}
	in.ic.unpack = winUnpacker{}
	return nil
}

// prevProcHandler forwards a message to the window procedure that was
// active before the subclass and returns its result verbatim.
type prevProcHandler struct {
	proc uintptr
}

func (p prevProcHandler) HandleMessage(win ts.WindowHandle, msg uint32, wparam, lparam uintptr) uintptr {
	r, _, _ := procCallWindowProc.Call(p.proc, uintptr(win), uintptr(msg), wparam, lparam)
	return r
}

// winUnpacker unpacks native touch frames straight into the contact
// buffer. TouchInput mirrors the TOUCHINPUT layout, so no copy is made.
type winUnpacker struct{}

func (winUnpacker) Unpack(handle uintptr, n int, dst []TouchInput) bool {
	if n <= 0 || n > len(dst) {
		return false
	}
	r, _, _ := procGetTouchInputInfo.Call(
		handle,
		uintptr(n),
		uintptr(unsafe.Pointer(&dst[0])),
		unsafe.Sizeof(dst[0]),
	)
	return r != 0
}

func (winUnpacker) Release(handle uintptr) {
	procCloseTouchInputHandle.Call(handle)
}
