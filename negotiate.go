package smb2

import (
	"context"
	"crypto/rand"

	"github.com/kbsmb/smb2/internal/erref"
	wire "github.com/kbsmb/smb2/internal/smb2"
)

// Negotiator drives the initial dialect/capability handshake: plain
// option fields, no hidden state, consumed once by
// ConnectionLifecycle.connect.
type Negotiator struct {
	RequireMessageSigning bool
	ClientGUID            [16]byte // generated with crypto/rand if zero
}

// ensureClientGUID fills in a fresh random ClientGUID if the caller left it
// zero. It runs before ConnectionInfo is constructed so the GUID recorded
// there and the GUID sent on the wire are always the same value.
func (n *Negotiator) ensureClientGUID() error {
	if n.ClientGUID != zero {
		return nil
	}
	if _, err := rand.Read(n.ClientGUID[:]); err != nil {
		return &erref.InternalError{Msg: err.Error()}
	}
	return nil
}

func (n *Negotiator) makeRequest() (*wire.NegotiateRequest, error) {
	req := new(wire.NegotiateRequest)

	if n.RequireMessageSigning {
		req.SecurityMode = wire.SMB2_NEGOTIATE_SIGNING_REQUIRED
	} else {
		req.SecurityMode = wire.SMB2_NEGOTIATE_SIGNING_ENABLED
	}

	req.Capabilities = clientCapabilities
	req.Dialects = clientDialects
	req.ClientGuid = n.ClientGUID

	return req, nil
}

// negotiateDialect sends NEGOTIATE, awaits the response bounded by ctx,
// and records everything ConnectionInfo needs.
func (n *Negotiator) negotiateDialect(c *Connection, ctx context.Context) error {
	req, err := n.makeRequest()
	if err != nil {
		return err
	}
	fut, err := c.sendPath.send(req, nil, req.Size()-wire.HeaderSize, ctx)
	if err != nil {
		return err
	}

	pkt, err := fut.await(ctx)
	if err != nil {
		return err
	}

	res, err := accept(wire.SMB2_NEGOTIATE, pkt)
	if err != nil {
		return err
	}

	r := wire.NegotiateResponseDecoder(res)
	if r.IsInvalid() {
		return &erref.InvalidResponseError{Msg: "broken negotiate response format"}
	}

	c.info.NegotiatedDialect = r.DialectRevision()
	c.info.Capabilities = clientCapabilities & r.Capabilities()
	c.info.MaxTransactSize = r.MaxTransactSize()
	c.info.MaxReadSize = r.MaxReadSize()
	c.info.MaxWriteSize = r.MaxWriteSize()
	c.info.ServerRequiresSigning = n.RequireMessageSigning || r.SecurityMode()&wire.SMB2_NEGOTIATE_SIGNING_REQUIRED != 0
	c.info.GSSNegotiateToken = append([]byte(nil), r.SecurityBuffer()...)
	copy(c.info.ServerGUID[:], r.ServerGuid())

	return nil
}
