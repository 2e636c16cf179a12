package wmtouch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skirk/tslib/ts"
)

func TestReadUntouchedDevice(t *testing.T) {
	in := newTestInput()
	samp := make([]ts.Sample, 1)
	if n := in.Read(samp); n != 0 {
		t.Fatalf("Read on untouched device = %d, want 0", n)
	}
	if n := in.ReadMulti(make([]ts.Sample, 4)); n != 0 {
		t.Fatalf("ReadMulti on untouched device = %d, want 0", n)
	}
}

func TestReadSingleContact(t *testing.T) {
	tests := []struct {
		name       string
		flags      TouchFlag
		wantSample bool
	}{
		{name: "down contact emits", flags: TouchDown, wantSample: true},
		{name: "move contact emits", flags: TouchMove, wantSample: true},
		{name: "move with extra bits emits", flags: TouchMove | TouchPrimary | TouchInRange, wantSample: true},
		{name: "up contact leaves sample alone", flags: TouchUp, wantSample: false},
		{name: "in-range only leaves sample alone", flags: TouchInRange, wantSample: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := newTestInput()
			require.True(t, in.Inject([]TouchInput{{X: 150, Y: 250, Flags: tt.flags, Time: 2345}}))

			// Pre-fill with a sentinel: Read reports 1 either way, and
			// callers may only trust the sample after a down or move
			// contact. This pins the historic caller hazard.
			samp := []ts.Sample{{X: -1, Y: -1, Sec: -1, Usec: -1}}
			n := in.Read(samp)
			require.Equal(t, 1, n, "Read reports one slot examined once a frame is buffered")

			if tt.wantSample {
				assert.Equal(t, int32(150), samp[0].X)
				assert.Equal(t, int32(250), samp[0].Y)
				assert.Equal(t, int64(2), samp[0].Sec)
				assert.Equal(t, int64(345000), samp[0].Usec)
			} else {
				assert.Equal(t, ts.Sample{X: -1, Y: -1, Sec: -1, Usec: -1}, samp[0],
					"sample must be untouched even though Read returned 1")
			}
		})
	}
}

func TestTimestampConversion(t *testing.T) {
	tests := []struct {
		ms       uint32
		wantSec  int64
		wantUsec int64
	}{
		{ms: 0, wantSec: 0, wantUsec: 0},
		{ms: 999, wantSec: 0, wantUsec: 999000},
		{ms: 1000, wantSec: 1, wantUsec: 0},
		{ms: 123456, wantSec: 123, wantUsec: 456000},
		{ms: 4294967295, wantSec: 4294967, wantUsec: 295000},
	}

	for _, tt := range tests {
		var s ts.Sample
		sampleFrom(&s, &TouchInput{Time: tt.ms})
		if s.Sec != tt.wantSec || s.Usec != tt.wantUsec {
			t.Errorf("T=%dms -> %d.%06d, want %d.%06d", tt.ms, s.Sec, s.Usec, tt.wantSec, tt.wantUsec)
		}
	}
}

func TestReadMulti(t *testing.T) {
	frame := []TouchInput{
		{X: 10, Y: 11, Flags: TouchMove, Time: 5000},
		{X: 20, Y: 21, Flags: TouchUp, Time: 5000},
		{X: 30, Y: 31, Flags: TouchDown, Time: 5000},
	}

	t.Run("all moving contacts translate", func(t *testing.T) {
		in := newTestInput()
		moves := []TouchInput{
			{X: 1, Y: 2, Flags: TouchMove, Time: 7100},
			{X: 3, Y: 4, Flags: TouchMove, Time: 7100},
			{X: 5, Y: 6, Flags: TouchMove, Time: 7100},
		}
		require.True(t, in.Inject(moves))

		out := make([]ts.Sample, 5)
		n := in.ReadMulti(out)
		require.Equal(t, 3, n)
		for i, m := range moves {
			assert.Equal(t, m.X, out[i].X, "slot %d", i)
			assert.Equal(t, m.Y, out[i].Y, "slot %d", i)
			assert.Equal(t, int64(7), out[i].Sec, "slot %d", i)
			assert.Equal(t, int64(100000), out[i].Usec, "slot %d", i)
		}
	})

	t.Run("lifted contacts are skipped densely", func(t *testing.T) {
		in := newTestInput()
		require.True(t, in.Inject(frame))

		out := make([]ts.Sample, 5)
		n := in.ReadMulti(out)
		require.Equal(t, 2, n, "only down and move contacts produce samples")
		// Dense output: the down contact follows the move with no gap.
		assert.Equal(t, int32(10), out[0].X)
		assert.Equal(t, int32(30), out[1].X)
	})

	t.Run("bounded by caller slots", func(t *testing.T) {
		in := newTestInput()
		require.True(t, in.Inject(frame))

		out := make([]ts.Sample, 2)
		// Slots bound the records examined, not the samples written:
		// two slots cover the move and up contacts, yielding one sample.
		assert.Equal(t, 1, in.ReadMulti(out))
	})

	t.Run("bounded by capacity", func(t *testing.T) {
		in := newTestInput()
		require.True(t, in.Inject(frame[:1]))

		out := make([]ts.Sample, 8)
		assert.Equal(t, 1, in.ReadMulti(out))
	})

	t.Run("move and removed pair yields one sample", func(t *testing.T) {
		in := newTestInput()
		require.True(t, in.Inject([]TouchInput{
			{X: 100, Y: 200, Flags: TouchMove, Time: 9000},
			{X: 300, Y: 400, Flags: TouchUp, Time: 9000},
		}))

		out := make([]ts.Sample, 4)
		require.Equal(t, 1, in.ReadMulti(out))
		assert.Equal(t, int32(100), out[0].X)
		assert.Equal(t, int32(200), out[0].Y)
	})

	t.Run("pressure field left untouched", func(t *testing.T) {
		in := newTestInput()
		require.True(t, in.Inject(frame[:1]))

		out := []ts.Sample{{Pressure: 777}, {Pressure: 888}}
		require.Equal(t, 1, in.ReadMulti(out))
		assert.Equal(t, uint32(777), out[0].Pressure, "pressure belongs to other stages")
	})
}

func TestGrabEventsConfiguration(t *testing.T) {
	tests := []struct {
		name     string
		params   string
		wantGrab bool
		wantErr  bool
	}{
		{name: "defaults to unset", params: "", wantGrab: false},
		{name: "nonzero sets the flag", params: "grab_events=1", wantGrab: true},
		{name: "zero leaves it unset", params: "grab_events=0", wantGrab: false},
		{name: "hex literal accepted", params: "grab_events=0x10", wantGrab: true},
		{name: "malformed literal fails init", params: "grab_events=abc", wantErr: true},
		{name: "out of range literal fails init", params: "grab_events=99999999999999999999999", wantErr: true},
		{name: "unknown option fails init", params: "grab=1", wantErr: true},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win := ts.WindowHandle(0x9000 + i)
			dev := ts.Open(win)
			in, err := New(dev, tt.params)
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, ts.ErrBadParam)
				assert.Nil(t, Lookup(win), "failed init must not leak device state")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantGrab, in.GrabWanted())
			assert.Same(t, in, Lookup(win), "window registry must resolve the device state")
		})
	}
}

func TestCloseReleasesBufferOnce(t *testing.T) {
	in := newTestInput()
	require.True(t, in.Inject([]TouchInput{{X: 1, Flags: TouchDown, Time: 50}}))
	require.Len(t, in.buf, 1)

	require.NoError(t, in.Close())
	assert.Nil(t, in.buf)
	require.NoError(t, in.Close(), "double Close must be safe")

	// A finalized state behaves like an untouched one.
	assert.Equal(t, 0, in.Read(make([]ts.Sample, 1)))
}

func TestModuleThroughPipeline(t *testing.T) {
	dev := ts.Open(ts.WindowHandle(0xA100))
	require.NoError(t, dev.Configure("module wmtouch grab_events=1\n"))
	t.Cleanup(func() { _ = dev.Close() })

	in := Lookup(dev.Window())
	require.NotNil(t, in)
	assert.True(t, in.GrabWanted())

	require.True(t, in.Inject([]TouchInput{
		{X: 40, Y: 50, Flags: TouchDown, Time: 61000},
		{X: 60, Y: 70, Flags: TouchDown, Time: 61000},
	}))

	out := make([]ts.Sample, 5)
	n := dev.ReadMulti(out)
	require.Equal(t, 2, n)
	assert.Equal(t, int32(40), out[0].X)
	assert.Equal(t, int32(60), out[1].X)
	assert.Equal(t, int64(61), out[0].Sec)

	samp := make([]ts.Sample, 1)
	require.Equal(t, 1, dev.Read(samp))
	assert.Equal(t, int32(40), samp[0].X)
}

func TestRegisteredUnderModuleName(t *testing.T) {
	names := ts.ModuleNames()
	for _, n := range names {
		if n == ModuleName {
			return
		}
	}
	t.Fatalf("%q missing from registered modules %v", ModuleName, names)
}

func TestInjectOversizedAndEmptyFrames(t *testing.T) {
	in := newTestInput()

	if !in.Inject(nil) {
		t.Fatal("empty frame should be storable")
	}
	if n := in.ReadMulti(make([]ts.Sample, 2)); n != 0 {
		t.Fatalf("empty frame produced %d samples", n)
	}

	require.True(t, in.Inject([]TouchInput{{Flags: TouchDown, Time: 1}}))
	// An empty frame after a populated one clears every buffered contact.
	require.True(t, in.Inject(nil))
	if n := in.ReadMulti(make([]ts.Sample, 2)); n != 0 {
		t.Fatalf("cleared buffer produced %d samples", n)
	}
}

func TestNewDoesNotRegisterOnParamFailure(t *testing.T) {
	win := ts.WindowHandle(0xB200)
	_, err := New(ts.Open(win), "grab_events=nope")
	if err == nil {
		t.Fatal("New succeeded with malformed params")
	}
	if !errors.Is(err, ts.ErrBadParam) {
		t.Fatalf("error = %v, want ts.ErrBadParam", err)
	}
	if Lookup(win) != nil {
		t.Fatal("window registry entry leaked after failed init")
	}
}
