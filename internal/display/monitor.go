package display

import (
	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
)

// monitorIndex maps the configured monitor onto an index in [0, count).
// Negative values count from the end, so -1 is the last monitor. Out of
// range values fall back to the first monitor and report ok=false.
func monitorIndex(configured, count int) (idx int, ok bool) {
	if count <= 0 {
		return -1, false
	}
	if configured < 0 {
		configured += count
	}
	if configured < 0 || configured >= count {
		return 0, false
	}
	return configured, true
}

// selectMonitor returns the configured monitor of display, or nil when the
// display has none.
func selectMonitor(display *gdk.Display, configured int) (mon *gdk.Monitor, ok bool) {
	if display == nil {
		return nil, false
	}
	monitors := display.Monitors()
	if monitors == nil {
		return nil, false
	}

	idx, ok := monitorIndex(configured, int(monitors.NItems()))
	if idx < 0 {
		return nil, false
	}
	return wrapMonitor(monitors.Item(uint(idx))), ok
}

// MonitorCount reports how many monitors the default display has.
func MonitorCount() int {
	display := gdk.DisplayGetDefault()
	if display == nil || display.Monitors() == nil {
		return 0
	}
	return int(display.Monitors().NItems())
}

// wrapMonitor resolves a list item to its gdk.Monitor wrapper.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	mon, _ := obj.Cast().(*gdk.Monitor)
	return mon
}
