package smb2

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbsmb/smb2/internal/erref"
	wire "github.com/kbsmb/smb2/internal/smb2"
)

// Connection is one per TCP endpoint: it exclusively owns a Transport, a
// SequenceWindow, an OutstandingRequests map, a SessionTable, a
// PreauthSessionTable, a ConnectionInfo, and the send mutex embedded in
// SendPath. It implements connect, authenticate (authenticate.go), and
// close.
type Connection struct {
	mu        sync.Mutex
	connected bool
	closed    bool

	transport Transport
	bus       EventBus
	negotiator *Negotiator

	host string
	port int

	window      *SequenceWindow
	outstanding *OutstandingRequests
	info        *ConnectionInfo
	sendPath    *SendPath
	receivePath *ReceivePath

	unsubscribeLogoff func()
}

// NewConnection wires a Connection around a caller-supplied Transport and
// EventBus: the bus is an explicit collaborator, never a process-wide
// singleton.
func NewConnection(t Transport, bus EventBus, negotiator *Negotiator) *Connection {
	return &Connection{transport: t, bus: bus, negotiator: negotiator}
}

// Info returns the connection's negotiated capabilities. It is nil until
// Connect has returned successfully.
func (c *Connection) Info() *ConnectionInfo { return c.info }

// Connect fails if already connected, opens the transport, constructs
// ConnectionInfo, and runs dialect negotiation.
func (c *Connection) Connect(ctx context.Context, host string, port int) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return &erref.InternalError{Msg: "already connected"}
	}
	c.connected = true
	c.mu.Unlock()

	c.host, c.port = host, port

	endpoint := fmt.Sprintf("%s:%d", host, port)
	if err := c.transport.Connect(ctx, endpoint); err != nil {
		return &erref.TransportError{Err: err}
	}

	if err := c.negotiator.ensureClientGUID(); err != nil {
		return err
	}

	c.window = newSequenceWindow()
	c.outstanding = newOutstandingRequests()
	c.info = newConnectionInfo(c.negotiator.ClientGUID)
	c.sendPath = newSendPath(c.window, c.outstanding, c.transport, c.info)
	c.receivePath = newReceivePath(c.window, c.outstanding, c.info, c.handleError)

	go c.transport.Run(c.receivePath.handle, c.handleError)

	if err := c.negotiator.negotiateDialect(c, ctx); err != nil {
		c.handleError(err)
		return err
	}

	c.unsubscribeLogoff = c.bus.Subscribe(func(event any) {
		if ev, ok := event.(SessionLoggedOffEvent); ok {
			c.info.SessionTable.Remove(ev.SessionID)
		}
	})

	return nil
}

// logoff sends a LOGOFF for sess and publishes SessionLoggedOff on
// success.
func (c *Connection) logoff(ctx context.Context, sess *Session) error {
	req := &wire.LogoffRequest{}

	fut, err := c.sendPath.send(req, sess, req.Size()-wire.HeaderSize, ctx)
	if err != nil {
		return err
	}

	pkt, err := fut.await(ctx)
	if err != nil {
		return err
	}

	if _, err := accept(wire.SMB2_LOGOFF, pkt); err != nil {
		return err
	}

	c.bus.Publish(SessionLoggedOffEvent{SessionID: sess.SessionID})
	return nil
}

// Close unless forced logs off every active session (logging, not
// failing, on a per-session error), then disconnects the transport and
// publishes ConnectionClosed. It is idempotent under repeated calls from
// error paths.
func (c *Connection) Close(force bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if !force && c.info != nil {
		for _, sess := range c.info.SessionTable.List() {
			if err := c.logoff(context.Background(), sess); err != nil {
				logger.Println("close: logoff failed for session", sess.SessionID, ":", err)
			}
		}
	}

	if c.unsubscribeLogoff != nil {
		c.unsubscribeLogoff()
	}

	err := c.transport.Disconnect()
	c.bus.Publish(ConnectionClosedEvent{Host: c.host, Port: c.port})

	if err != nil {
		return &erref.TransportError{Err: err}
	}
	return nil
}

// handleError fails all outstanding request promises with t, then
// closes the connection, swallowing any close-time error.
func (c *Connection) handleError(t error) {
	if c.outstanding != nil {
		c.outstanding.handleError(t)
	}
	if err := c.Close(true); err != nil {
		logger.Println("handleError: close failed:", err)
	}
}
