// Package dbus implements the io.github.jmylchreest.FSNotice D-Bus
// interface. The server lets other processes present and close notices on
// a running fsnoticed; the client is used by the fsnotice CLI and editor.
package dbus
