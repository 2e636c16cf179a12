// Package ts is the host pipeline for normalized touch samples: a device
// owns a chain of modules configured by name, and consumers pull samples
// from the head of the chain.
package ts

import (
	"errors"
	"fmt"
	"strings"
)

// WindowHandle identifies the input source a device is bound to. On
// Windows it is the HWND whose messages carry the touch data.
type WindowHandle uintptr

var (
	// ErrUnknownModule reports a module name with no registered init function.
	ErrUnknownModule = errors.New("ts: unknown module")
	// ErrClosed reports use of a device after Close.
	ErrClosed = errors.New("ts: device closed")
)

// Device owns the module chain for one opened input source. The last
// attached module is the head of the chain and serves reads.
type Device struct {
	win    WindowHandle
	chain  []Module
	closed bool
}

// Open binds a new, unconfigured device to win.
func Open(win WindowHandle) *Device {
	return &Device{win: win}
}

// Window returns the handle the device was opened on.
func (d *Device) Window() WindowHandle { return d.win }

// Configure instantiates the modules named by conf, in order. conf uses
// the configuration-file dialect understood by ParseConf. A failed module
// leaves the previously attached ones in place.
func (d *Device) Configure(conf string) error {
	entries, err := ParseConf(strings.NewReader(conf))
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := d.Attach(e.Name, e.Params); err != nil {
			return err
		}
	}
	return nil
}

// Attach instantiates one named module and pushes it onto the chain.
func (d *Device) Attach(name, params string) error {
	if d.closed {
		return ErrClosed
	}
	fn, ok := lookupModule(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownModule, name)
	}
	mod, err := fn(d, params)
	if err != nil {
		return fmt.Errorf("ts: init module %q: %w", name, err)
	}
	d.chain = append(d.chain, mod)
	return nil
}

// Read asks the head of the chain for a single-contact sample. With no
// modules attached it produces nothing.
func (d *Device) Read(samp []Sample) int {
	if len(d.chain) == 0 {
		return 0
	}
	return d.chain[len(d.chain)-1].Read(samp)
}

// ReadMulti asks the head of the chain for up to len(out) samples.
func (d *Device) ReadMulti(out []Sample) int {
	if len(d.chain) == 0 {
		return 0
	}
	return d.chain[len(d.chain)-1].ReadMulti(out)
}

// Close finalizes the chain in reverse attachment order. It is safe to
// call more than once; later calls do nothing.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	var errs []error
	for i := len(d.chain) - 1; i >= 0; i-- {
		if err := d.chain[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	d.chain = nil
	return errors.Join(errs...)
}
