package wmtouch

// TouchFlag is the contact lifecycle bit field reported with each
// per-contact record.
type TouchFlag uint32

const (
	TouchMove       TouchFlag = 0x0001
	TouchDown       TouchFlag = 0x0002
	TouchUp         TouchFlag = 0x0004
	TouchInRange    TouchFlag = 0x0008
	TouchPrimary    TouchFlag = 0x0010
	TouchNoCoalesce TouchFlag = 0x0020
	TouchPalm       TouchFlag = 0x0080
)

// MsgTouch is the window message code carrying multi-touch frames
// (WM_TOUCH). The interceptor forwards every other message.
const MsgTouch uint32 = 0x0240

// TouchInput is one per-contact record as unpacked from a touch message.
// The layout mirrors the OS TOUCHINPUT structure so frames can be
// unpacked into a []TouchInput without copying. X and Y are in device
// coordinates; Time is the OS millisecond timestamp.
type TouchInput struct {
	X         int32
	Y         int32
	Source    uintptr
	ID        uint32
	Flags     TouchFlag
	Mask      uint32
	Time      uint32
	ExtraInfo uintptr
	CxContact uint32
	CyContact uint32
}
