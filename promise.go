package smb2

import (
	"context"

	"github.com/kbsmb/smb2/internal/erref"
)

// promise is a single-shot, timeout-aware future: internally a one-slot
// channel, which keeps the parked-waiter state disjoint from the
// connection's send mutex.
type promise struct {
	done chan []byte
	err  error
}

func newPromise() *promise {
	return &promise{done: make(chan []byte, 1)}
}

// fulfil delivers a terminal packet to the waiting caller. It must be
// called at most once.
func (p *promise) fulfil(pkt []byte) {
	p.done <- pkt
}

// fail delivers a terminal error instead of a packet. It must be called
// at most once, and never alongside fulfil.
func (p *promise) fail(err error) {
	p.err = err
	close(p.done)
}

// await blocks until the promise is fulfilled, failed, or ctx is done,
// whichever happens first. An expired context does not retract the
// message from the wire: the Request remains registered in
// OutstandingRequests so a late response can still be matched, even
// though this particular caller has stopped waiting for it.
func (p *promise) await(ctx context.Context) ([]byte, error) {
	select {
	case pkt, ok := <-p.done:
		if !ok {
			return nil, p.err
		}
		return pkt, nil
	case <-ctx.Done():
		return nil, &erref.ContextError{Err: ctx.Err()}
	}
}
