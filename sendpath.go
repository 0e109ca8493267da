package smb2

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbsmb/smb2/internal/erref"
	wire "github.com/kbsmb/smb2/internal/smb2"
)

// SendPath assembles headers, assigns message IDs and credits, and hands
// the serialized packet to Transport. The send mutex
// serializes ID allocation and transport writes so frames appear on the
// wire in strictly ascending MessageId order; no part of response
// handling runs under it.
type SendPath struct {
	mu          sync.Mutex
	window      *SequenceWindow
	outstanding *OutstandingRequests
	transport   Transport
	info        *ConnectionInfo
}

func newSendPath(window *SequenceWindow, outstanding *OutstandingRequests, t Transport, info *ConnectionInfo) *SendPath {
	return &SendPath{window: window, outstanding: outstanding, transport: t, info: info}
}

// send assigns a fresh MessageId/CreditCharge/CreditRequest to pkt,
// signs it with sess's Signatory when one is supplied, and writes it to
// the transport, returning a promise for the eventual response.
//
// payloadSize is the command's expected request/response payload size,
// used for the credit-charge calculation; callers that
// don't move bulk data (NEGOTIATE, SESSION_SETUP, LOGOFF) pass the
// encoded body size, which is always well under singleCreditPayloadSize.
func (sp *SendPath) send(pkt wire.Packet, sess *Session, payloadSize int, ctx context.Context) (*promise, error) {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, &erref.ContextError{Err: ctx.Err()}
	default:
	}

	available := sp.window.Available()
	if available == 0 {
		// Behavior on a zero window is logged, not blocked; whether
		// callers should wait or fail is left to the caller.
		logger.Println("send: available credits are zero, proceeding anyway")
	}

	needed := creditsNeeded(payloadSize)
	grant := grantCredits(needed, available, sp.info.largeMTU())

	ids := sp.window.Get(uint64(grant))
	messageID := ids[0]

	hdr := pkt.Header()
	hdr.MessageId = messageID
	hdr.CreditCharge = grant
	hdr.CreditRequestResponse = creditRequest(available, grant)
	if sess != nil {
		hdr.SessionId = sess.SessionID
	}

	buf := make([]byte, pkt.Size())
	pkt.Encode(buf)

	if sess != nil && sess.Signatory != nil {
		buf = sess.Signatory.Sign(buf)
	}

	p := newPromise()
	req := &Request{
		MessageID:   messageID,
		Correlation: uuid.New(),
		Packet:      buf,
		Timestamp:   time.Now(),
		promise:     p,
	}
	sp.outstanding.registerOutstanding(req)

	if err := sp.transport.Write(buf); err != nil {
		sp.outstanding.receivedResponseFor(messageID)
		return nil, &erref.TransportError{Err: err}
	}

	return p, nil
}
