package dbus

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Client talks to a running fsnoticed.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient opens a private session bus connection.
func NewClient() (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(BusName, ObjectPath),
	}, nil
}

// Disconnect closes the client connection.
func (c *Client) Disconnect() error {
	return c.conn.Close()
}

// Running reports whether a presenter currently owns BusName.
func (c *Client) Running(ctx context.Context) bool {
	var has bool
	err := c.conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, BusName).Store(&has)
	return err == nil && has
}

// Present asks the daemon to show a notice and returns its ID. size 0
// selects the daemon's configured initial size.
func (c *Client) Present(ctx context.Context, text string, size int, color string) (string, error) {
	var id string
	call := c.obj.CallWithContext(ctx, Interface+".Present", 0, text, clampInt32(size), color)
	if err := call.Store(&id); err != nil {
		return "", fmt.Errorf("present: %w", err)
	}
	return id, nil
}

// Close asks the daemon to close the current notice.
func (c *Client) Close(ctx context.Context) (bool, error) {
	var closed bool
	if err := c.obj.CallWithContext(ctx, Interface+".Close", 0).Store(&closed); err != nil {
		return false, fmt.Errorf("close: %w", err)
	}
	return closed, nil
}

// State returns the daemon's presenter state.
func (c *Client) State(ctx context.Context) (State, error) {
	var st State
	if err := c.obj.CallWithContext(ctx, Interface+".GetState", 0).Store(&st.Presenting, &st.ID); err != nil {
		return State{}, fmt.Errorf("get state: %w", err)
	}
	return st, nil
}
