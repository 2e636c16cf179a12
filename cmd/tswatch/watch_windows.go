//go:build windows

package main

import (
	"fmt"
	"log/slog"
	"runtime"
	"syscall"
	"time"
	"unsafe"

	"fyne.io/systray"
	"fyne.io/systray/example/icon"
	"github.com/AllenDang/w32"
	"golang.org/x/sys/windows"

	"github.com/skirk/tslib/plugins/wmtouch"
	"github.com/skirk/tslib/ts"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procRegisterClassEx = user32.NewProc("RegisterClassExW")
	procCreateWindowEx  = user32.NewProc("CreateWindowExW")
	procShowWindow      = user32.NewProc("ShowWindow")
	procDefWindowProc   = user32.NewProc("DefWindowProcW")
	procGetMessage      = user32.NewProc("GetMessageW")
	procTranslateMsg    = user32.NewProc("TranslateMessage")
	procDispatchMsg     = user32.NewProc("DispatchMessageW")
	procPostQuitMessage = user32.NewProc("PostQuitMessage")
	procLoadCursor      = user32.NewProc("LoadCursorW")
)

const (
	wsOverlappedWindow = 0x00CF0000
	swShow             = 5
	wmDestroy          = 0x0002
	cwUseDefault       = 0x80000000
	idcArrow           = 32512
	colorWindow        = 5
)

type wndClassEx struct {
	cbSize        uint32
	style         uint32
	lpfnWndProc   uintptr
	cbClsExtra    int32
	cbWndExtra    int32
	hInstance     syscall.Handle
	hIcon         syscall.Handle
	hCursor       syscall.Handle
	hbrBackground syscall.Handle
	lpszMenuName  *uint16
	lpszClassName *uint16
	hIconSm       syscall.Handle
}

type msgW struct {
	hwnd    uintptr
	message uint32
	wparam  uintptr
	lparam  uintptr
	time    uint32
	ptX     int32
	ptY     int32
}

// baseWndProc is the procedure the touch target window starts with; the
// wmtouch subclass chains back to it for everything it does not consume.
var baseWndProc = syscall.NewCallback(func(hwnd, msg, wparam, lparam uintptr) uintptr {
	if uint32(msg) == wmDestroy {
		procPostQuitMessage.Call(0)
		return 0
	}
	r, _, _ := procDefWindowProc.Call(hwnd, msg, wparam, lparam)
	return r
})

func watch(log *slog.Logger, opts options) error {
	devReady := make(chan *ts.Device, 1)
	pumpErr := make(chan error, 1)

	// Window creation and its message pump must share one OS thread.
	go func() {
		runtime.LockOSThread()
		hwnd, err := createTouchWindow()
		if err != nil {
			pumpErr <- err
			return
		}

		dev := ts.Open(ts.WindowHandle(hwnd))
		params := ""
		if opts.grab {
			params = "grab_events=1"
		}
		if err := dev.Attach(wmtouch.ModuleName, params); err != nil {
			pumpErr <- err
			return
		}
		if in := wmtouch.Lookup(dev.Window()); in != nil {
			in.SetLogger(log)
		}
		devReady <- dev

		var msg msgW
		for {
			r, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
			if int32(r) <= 0 {
				break
			}
			procTranslateMsg.Call(uintptr(unsafe.Pointer(&msg)))
			procDispatchMsg.Call(uintptr(unsafe.Pointer(&msg)))
		}
		pumpErr <- nil
	}()

	var dev *ts.Device
	select {
	case err := <-pumpErr:
		return err
	case dev = <-devReady:
	}
	log.Info("watching touch window", "hwnd", fmt.Sprintf("%#x", dev.Window()), "grab", opts.grab)

	go readLoop(log, dev, opts)

	systray.Run(func() { onReady(log) }, func() { onExit(log, dev) })
	return nil
}

func createTouchWindow() (w32.HWND, error) {
	instance := w32.GetModuleHandle("")
	className, err := windows.UTF16PtrFromString("tswatchTouchTarget")
	if err != nil {
		return 0, err
	}
	title, err := windows.UTF16PtrFromString("tswatch touch target")
	if err != nil {
		return 0, err
	}

	cursor, _, _ := procLoadCursor.Call(0, uintptr(idcArrow))
	wc := wndClassEx{
		style:         0,
		lpfnWndProc:   baseWndProc,
		hInstance:     syscall.Handle(instance),
		hCursor:       syscall.Handle(cursor),
		hbrBackground: syscall.Handle(colorWindow + 1),
		lpszClassName: className,
	}
	wc.cbSize = uint32(unsafe.Sizeof(wc))
	if atom, _, _ := procRegisterClassEx.Call(uintptr(unsafe.Pointer(&wc))); atom == 0 {
		return 0, fmt.Errorf("RegisterClassEx: error %d", w32.GetLastError())
	}

	hwnd, _, _ := procCreateWindowEx.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(title)),
		uintptr(wsOverlappedWindow),
		uintptr(cwUseDefault), uintptr(cwUseDefault),
		480, 360,
		0, 0,
		uintptr(instance), 0,
	)
	if hwnd == 0 {
		return 0, fmt.Errorf("CreateWindowEx: error %d", w32.GetLastError())
	}
	procShowWindow.Call(hwnd, uintptr(swShow))
	return w32.HWND(hwnd), nil
}

func readLoop(log *slog.Logger, dev *ts.Device, opts options) {
	samp := make([]ts.Sample, opts.slots)
	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()
	for range ticker.C {
		n := dev.ReadMulti(samp)
		for k := 0; k < n; k++ {
			log.Info("sample",
				"slot", k,
				"x", samp[k].X,
				"y", samp[k].Y,
				"sec", samp[k].Sec,
				"usec", samp[k].Usec,
			)
		}
	}
}

func onReady(log *slog.Logger) {
	systray.SetIcon(icon.Data)
	systray.SetTitle("tswatch")
	systray.SetTooltip("tswatch: touch sample watcher")

	mQuit := systray.AddMenuItem("Quit", "Stop watching and exit")
	go func() {
		<-mQuit.ClickedCh
		log.Info("quit requested")
		systray.Quit()
	}()
}

func onExit(log *slog.Logger, dev *ts.Device) {
	if in := wmtouch.Lookup(dev.Window()); in != nil && in.Dropped() > 0 {
		log.Warn("frames dropped on the degraded path", "count", in.Dropped())
	}
	dev.Close()
}
