// Package wmtouch is the raw multi-touch input module. It subclasses a
// window's message procedure, buffers the per-contact records of each
// touch message, and translates them into normalized samples for the ts
// pipeline. No filtering, calibration, or coordinate transformation
// happens here; later stages own those.
package wmtouch

import (
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/tevino/abool"

	"github.com/skirk/tslib/ts"
)

// ModuleName is the name the module registers under.
const ModuleName = "wmtouch"

func init() {
	ts.RegisterModule(ModuleName, func(dev *ts.Device, params string) (ts.Module, error) {
		return New(dev, params)
	})
}

// Input is the per-device state of the module: the contact buffer written
// by the interceptor and read by the sample translator. The buffer grows
// to the largest contact count seen and never shrinks.
type Input struct {
	mu  sync.Mutex
	buf []TouchInput

	ic       *Interceptor
	prevProc uintptr // window procedure active before the subclass

	// grabEvents is parsed from configuration but not consulted by the
	// read path. See GrabWanted.
	grabEvents *abool.AtomicBool

	dropped atomic.Uint64
	log     *slog.Logger

	// Pressure and slot tracking land in a later stage; these stay at
	// their zero defaults for now.
	currentX     int32
	currentY     int32
	currentP     int32
	slot         int
	penDown      bool
	lastPressure int32
}

// Window-to-state registry consulted by the OS-side message trampoline.
// Entries are installed at init and overwritten by a re-init on the same
// window; Close leaves them in place, like the subclass itself.
var (
	regMu    sync.RWMutex
	registry = make(map[ts.WindowHandle]*Input)
)

func registerWindow(win ts.WindowHandle, in *Input) {
	regMu.Lock()
	registry[win] = in
	regMu.Unlock()
}

// Lookup returns the input state hooked to win, or nil.
func Lookup(win ts.WindowHandle) *Input {
	regMu.RLock()
	defer regMu.RUnlock()
	return registry[win]
}

// New builds the module for dev, parses params, and installs the window
// hook. The single recognized option is grab_events, an unsigned integer
// literal in any base; a malformed literal fails initialization and
// leaves no state behind.
func New(dev *ts.Device, params string) (*Input, error) {
	in := &Input{
		grabEvents: abool.New(),
		log:        slog.Default(),
	}

	vars := []ts.Var{{
		Name: "grab_events",
		Parse: func(value string) error {
			v, err := strconv.ParseUint(value, 0, 64)
			if err != nil {
				return err
			}
			if v != 0 {
				in.grabEvents.Set()
			}
			return nil
		},
	}}
	if err := ts.ParseParams(params, vars); err != nil {
		return nil, err
	}

	in.ic = &Interceptor{in: in}
	registerWindow(dev.Window(), in)
	if err := in.attach(dev.Window()); err != nil {
		regMu.Lock()
		delete(registry, dev.Window())
		regMu.Unlock()
		return nil, err
	}
	return in, nil
}

// SetLogger routes drop diagnostics to log instead of slog.Default.
func (in *Input) SetLogger(log *slog.Logger) {
	if log != nil {
		in.log = log
	}
}

// storeFrame grows the contact buffer to exactly n slots when needed,
// zero-clears the full current capacity, and unpacks the frame into it.
// On unpack failure the frame is counted as dropped and the message is
// left for the previous handler; the buffer keeps its (cleared) capacity.
func (in *Input) storeFrame(n int, handle uintptr, up Unpacker) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if n > len(in.buf) {
		in.buf = make([]TouchInput, n)
	}
	clear(in.buf)
	if !up.Unpack(handle, n, in.buf) {
		in.dropped.Add(1)
		in.log.Debug("wmtouch: touch frame dropped", "contacts", n)
		return false
	}
	return true
}

// Inject feeds one synthetic touch frame through the same path a native
// touch message takes. It exists for tests and for platforms without a
// window hook, and reports whether the frame was stored.
func (in *Input) Inject(frame []TouchInput) bool {
	return in.storeFrame(len(frame), 0, memFrame(frame))
}

// Dropped reports how many touch frames were discarded on the degraded
// path (failed unpack) since initialization.
func (in *Input) Dropped() uint64 { return in.dropped.Load() }

// GrabWanted reports the parsed grab_events flag. Nothing consumes it
// yet; it is kept so configurations carrying it keep working and so the
// gap stays visible.
func (in *Input) GrabWanted() bool { return in.grabEvents.IsSet() }

// Interceptor exposes the window-message chain head for this device.
func (in *Input) Interceptor() *Interceptor { return in.ic }

func sampleFrom(s *ts.Sample, t *TouchInput) {
	s.X = t.X
	s.Y = t.Y
	s.Sec = int64(t.Time) / 1000
	s.Usec = int64(t.Time) % 1000 * 1000
}

// Read translates the first buffered contact into samp[0] when its flags
// say down or move. An untouched device (zero capacity) produces 0.
//
// The return contract is historic: once any frame has been buffered,
// Read reports 1 even when no sample was written, so callers may trust
// samp[0] only after a down or move contact.
func (in *Input) Read(samp []ts.Sample) int {
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.buf) == 0 || len(samp) == 0 {
		return 0
	}
	if in.buf[0].Flags&(TouchDown|TouchMove) != 0 {
		sampleFrom(&samp[0], &in.buf[0])
	}
	return 1
}

// ReadMulti translates buffered contacts into out, bounded by the buffer
// capacity and len(out). Contacts not flagged down or move are skipped
// without leaving a gap. Returns the number of samples written.
//
// Output order is the OS-assigned contact order of the last frame; slots
// carry no per-finger identity across calls.
func (in *Input) ReadMulti(out []ts.Sample) int {
	in.mu.Lock()
	defer in.mu.Unlock()
	k := 0
	for j := 0; j < len(out) && j < len(in.buf); j++ {
		if in.buf[j].Flags&(TouchDown|TouchMove) == 0 {
			continue
		}
		sampleFrom(&out[k], &in.buf[j])
		k++
	}
	return k
}

// Close releases the contact buffer. It never double-frees and is safe
// after a failed initialization. The window procedure stays subclassed
// and the registry entry stays in place; a later re-init on the same
// window overwrites both.
func (in *Input) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.buf = nil
	return nil
}
