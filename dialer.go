package smb2

import "context"

// Dialer is the top-level entry point a caller uses to stand up a
// Connection: configure a Negotiator and optionally an EventBus, then
// Dial a caller-supplied Transport against a host/port.
type Dialer struct {
	Negotiator Negotiator
	EventBus   EventBus // defaults to NewEventBus() if nil
}

// Dial opens t, negotiates a dialect, and returns the resulting
// Connection. File/tree/pipe operations are built on top of the returned
// Connection by a higher layer; this engine stops at Authenticate.
func (d *Dialer) Dial(ctx context.Context, t Transport, host string, port int) (*Connection, error) {
	bus := d.EventBus
	if bus == nil {
		bus = NewEventBus()
	}

	n := d.Negotiator
	c := NewConnection(t, bus, &n)

	if err := c.Connect(ctx, host, port); err != nil {
		return nil, err
	}
	return c, nil
}
