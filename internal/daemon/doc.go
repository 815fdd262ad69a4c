// Package daemon ties the fsnoticed pieces together: D-Bus requests, the
// presenter window, history, the chime, and config hot-reload.
package daemon
