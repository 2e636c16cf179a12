package wmtouch

import (
	"github.com/skirk/tslib/ts"
)

// Handler processes one window message and returns the OS-visible result.
// Handlers form an explicit chain: an interceptor that does not consume a
// message forwards it to the next handler and returns its result verbatim.
type Handler interface {
	HandleMessage(win ts.WindowHandle, msg uint32, wparam, lparam uintptr) uintptr
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(win ts.WindowHandle, msg uint32, wparam, lparam uintptr) uintptr

// HandleMessage calls the underlying function.
func (f HandlerFunc) HandleMessage(win ts.WindowHandle, msg uint32, wparam, lparam uintptr) uintptr {
	return f(win, msg, wparam, lparam)
}

// Unpacker extracts per-contact records from the opaque frame handle a
// touch message carries. Unpack fills dst[:n] and reports success;
// Release returns the handle to the OS once the frame is consumed.
type Unpacker interface {
	Unpack(handle uintptr, n int, dst []TouchInput) bool
	Release(handle uintptr)
}

// Interceptor is the head of a window's message chain. It consumes touch
// messages into the device state's contact buffer and forwards everything
// else to the handler that was active before it.
type Interceptor struct {
	in     *Input
	next   Handler
	unpack Unpacker
}

// HandleMessage stores the frame of a touch message and reports it
// handled (result 0) to the OS. Messages that are not touch, or whose
// frame cannot be stored, fall through to the next handler; without a
// next handler the result is 0.
func (ic *Interceptor) HandleMessage(win ts.WindowHandle, msg uint32, wparam, lparam uintptr) uintptr {
	if msg == MsgTouch && ic.unpack != nil {
		// The contact count rides in the low 32 bits of wparam.
		n := int(uint32(wparam))
		if ic.in.storeFrame(n, lparam, ic.unpack) {
			ic.unpack.Release(lparam)
			return 0
		}
	}
	if ic.next == nil {
		return 0
	}
	return ic.next.HandleMessage(win, msg, wparam, lparam)
}

// memFrame adapts an in-memory contact slice to the Unpacker contract,
// for platforms without a native frame handle and for tests.
type memFrame []TouchInput

func (f memFrame) Unpack(_ uintptr, n int, dst []TouchInput) bool {
	if n > len(f) || n > len(dst) {
		return false
	}
	copy(dst[:n], f[:n])
	return true
}

func (f memFrame) Release(uintptr) {}
