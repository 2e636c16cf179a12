package main

import (
	"github.com/skirk/tslib/plugins/wmtouch"
)

// demoFrames is a short two-finger gesture: both contacts land, slide,
// then one lifts while the other keeps moving, and finally both lift.
// The lift-only frame yields no samples, which is the point: up contacts
// are skipped by the translator.
func demoFrames() [][]wmtouch.TouchInput {
	return [][]wmtouch.TouchInput{
		{
			{ID: 1, X: 4200, Y: 9800, Flags: wmtouch.TouchDown | wmtouch.TouchPrimary, Time: 120000},
			{ID: 2, X: 6300, Y: 9750, Flags: wmtouch.TouchDown, Time: 120000},
		},
		{
			{ID: 1, X: 4260, Y: 9710, Flags: wmtouch.TouchMove | wmtouch.TouchPrimary, Time: 120016},
			{ID: 2, X: 6240, Y: 9830, Flags: wmtouch.TouchMove, Time: 120016},
		},
		{
			{ID: 1, X: 4330, Y: 9620, Flags: wmtouch.TouchMove | wmtouch.TouchPrimary, Time: 120033},
			{ID: 2, X: 6180, Y: 9910, Flags: wmtouch.TouchUp, Time: 120033},
		},
		{
			{ID: 1, X: 4330, Y: 9620, Flags: wmtouch.TouchUp | wmtouch.TouchPrimary, Time: 120050},
		},
	}
}
