// Package display presents notices in a GTK4/libadwaita window. It handles
// monitor selection, full-screen or layer-shell placement, live updates,
// auto-close, and the native color chooser used by the editor.
package display
