package dbus

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// WatchClosed subscribes to Closed signals. The channel is closed when ctx
// is done or the connection drops.
func (c *Client) WatchClosed(ctx context.Context) (<-chan ClosedEvent, error) {
	if err := c.conn.AddMatchSignal(
		dbus.WithMatchObjectPath(ObjectPath),
		dbus.WithMatchInterface(Interface),
		dbus.WithMatchMember("Closed"),
	); err != nil {
		return nil, fmt.Errorf("failed to add match rule: %w", err)
	}

	raw := make(chan *dbus.Signal, 16)
	c.conn.Signal(raw)

	out := make(chan ClosedEvent, 4)
	go func() {
		defer close(out)
		defer c.conn.RemoveSignal(raw)

		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-raw:
				if !ok {
					return
				}
				ev, ok := parseClosed(sig)
				if !ok {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// WaitClosed blocks until the notice with id closes.
func (c *Client) WaitClosed(ctx context.Context, id string) (CloseReason, error) {
	events, err := c.WatchClosed(ctx)
	if err != nil {
		return 0, err
	}
	for ev := range events {
		if ev.ID == id {
			return ev.Reason, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("signal stream ended before %s closed", id)
}

// PresentAndWait presents a notice and blocks until it closes. It
// subscribes before presenting so a fast close is not missed.
func (c *Client) PresentAndWait(ctx context.Context, text string, size int, color string) (string, CloseReason, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := c.WatchClosed(ctx)
	if err != nil {
		return "", 0, err
	}

	id, err := c.Present(ctx, text, size, color)
	if err != nil {
		return "", 0, err
	}

	for ev := range events {
		if ev.ID == id {
			return id, ev.Reason, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return id, 0, err
	}
	return id, 0, fmt.Errorf("signal stream ended before %s closed", id)
}

// parseClosed decodes a Closed(su) signal.
func parseClosed(sig *dbus.Signal) (ClosedEvent, bool) {
	if sig == nil || sig.Name != Interface+".Closed" || len(sig.Body) != 2 {
		return ClosedEvent{}, false
	}
	id, ok := sig.Body[0].(string)
	if !ok {
		return ClosedEvent{}, false
	}
	reason, ok := sig.Body[1].(uint32)
	if !ok {
		return ClosedEvent{}, false
	}
	return ClosedEvent{ID: id, Reason: CloseReason(reason)}, true
}
