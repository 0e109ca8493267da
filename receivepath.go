package smb2

import (
	"fmt"

	"github.com/kbsmb/smb2/internal/erref"
	wire "github.com/kbsmb/smb2/internal/smb2"
)

// ReceivePath parses credits, validates signatures, and routes inbound
// frames to the waiting promise. Transport invokes handle for every
// decoded frame on its own goroutine; ReceivePath never takes the send
// mutex.
type ReceivePath struct {
	window      *SequenceWindow
	outstanding *OutstandingRequests
	info        *ConnectionInfo

	// fail reports a fatal transport/protocol error up to
	// Connection.handleError.
	fail func(err error)
}

func newReceivePath(window *SequenceWindow, outstanding *OutstandingRequests, info *ConnectionInfo, fail func(err error)) *ReceivePath {
	return &ReceivePath{window: window, outstanding: outstanding, info: info, fail: fail}
}

// handle dispatches one decoded inbound frame: header validation,
// credit accounting, async/expired-session bookkeeping, signature
// verification, and finally delivery to the waiting promise.
func (rp *ReceivePath) handle(pkt []byte) {
	p := wire.PacketCodec(pkt)
	if p.IsInvalid() {
		rp.fail(&erref.TransportError{Err: fmt.Errorf("broken packet header format")})
		return
	}

	messageID := p.MessageId()

	if !rp.outstanding.isOutstanding(messageID) {
		rp.fail(&erref.TransportError{Err: fmt.Errorf("unknown sequence number %d", messageID)})
		return
	}

	rp.window.CreditsGranted(uint64(p.CreditResponse()))

	req, ok := rp.outstanding.getByMessageID(messageID)
	if !ok {
		// Raced with another goroutine's receivedResponseFor; nothing
		// left to deliver to.
		return
	}

	status := erref.NtStatus(p.Status())

	if p.Flags()&wire.SMB2_FLAGS_ASYNC_COMMAND != 0 && status == erref.STATUS_PENDING {
		rp.outstanding.markAsync(messageID, p.AsyncId())
		return
	}

	if status == erref.STATUS_NETWORK_SESSION_EXPIRED {
		if sessionID := p.SessionId(); sessionID != 0 {
			if sess, ok := rp.info.SessionTable.Lookup(sessionID); ok {
				sess.MarkExpired()
			}
		}
		return
	}

	if sessionID := p.SessionId(); sessionID != 0 && p.Command() != wire.SMB2_SESSION_SETUP {
		sess, found := rp.info.SessionTable.Lookup(sessionID)
		if !found {
			sess, found = rp.info.PreauthSessionTable.Lookup(sessionID)
		}
		if !found {
			logger.Println("skip: unknown session id returned:", sessionID)
			return
		}

		signed := p.Flags()&wire.SMB2_FLAGS_SIGNED != 0
		switch {
		case signed:
			if sess.Signatory == nil || !sess.Signatory.Verify(pkt) {
				logger.Println("skip: unverified packet returned")
				if rp.info.ServerRequiresSigning {
					rp.fail(&erref.TransportError{Err: fmt.Errorf("unverified packet returned")})
				}
				return
			}
		case rp.info.ServerRequiresSigning:
			rp.fail(&erref.TransportError{Err: fmt.Errorf("signing required")})
			return
		}
	}

	req, ok = rp.outstanding.receivedResponseFor(messageID)
	if !ok {
		return
	}
	req.promise.fulfil(pkt)
}
