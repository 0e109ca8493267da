package smb2

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Request is the record OutstandingRequests owns from registration until
// the promise is fulfilled or the connection errors out.
type Request struct {
	MessageID  uint64
	Correlation uuid.UUID
	Packet     []byte // the serialized request, kept for SMB 3.1.1-style chaining and retransmit diagnostics
	Timestamp  time.Time
	AsyncID    uint64 // set once a STATUS_PENDING async response names it
	hasAsyncID bool

	promise *promise
}

// OutstandingRequests correlates in-flight message IDs (and, once an
// async response arrives, async IDs) to the Request awaiting a terminal
// response.
type OutstandingRequests struct {
	mu       sync.Mutex
	byMsgID  map[uint64]*Request
	byAsync  map[uint64]uint64 // asyncID -> messageID
}

func newOutstandingRequests() *OutstandingRequests {
	return &OutstandingRequests{
		byMsgID: make(map[uint64]*Request),
		byAsync: make(map[uint64]uint64),
	}
}

// registerOutstanding records a newly sent Request keyed by its message
// ID.
func (o *OutstandingRequests) registerOutstanding(req *Request) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.byMsgID[req.MessageID] = req
}

// isOutstanding reports whether messageID still has a pending Request.
func (o *OutstandingRequests) isOutstanding(messageID uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.byMsgID[messageID]
	return ok
}

// getByMessageID looks up a Request without removing it, used by the
// async-PENDING branch of ReceivePath which must keep the request
// outstanding.
func (o *OutstandingRequests) getByMessageID(messageID uint64) (*Request, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	req, ok := o.byMsgID[messageID]
	return req, ok
}

// markAsync records the AsyncId a STATUS_PENDING response named, without
// removing the Request.
func (o *OutstandingRequests) markAsync(messageID, asyncID uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if req, ok := o.byMsgID[messageID]; ok {
		req.AsyncID = asyncID
		req.hasAsyncID = true
		o.byAsync[asyncID] = messageID
	}
}

// receivedResponseFor removes and returns the Request for a terminal
// response, along with whether it was found.
func (o *OutstandingRequests) receivedResponseFor(messageID uint64) (*Request, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	req, ok := o.byMsgID[messageID]
	if !ok {
		return nil, false
	}
	delete(o.byMsgID, messageID)
	if req.hasAsyncID {
		delete(o.byAsync, req.AsyncID)
	}
	return req, true
}

// handleError fails every pending promise with err and clears the maps,
// used by ConnectionLifecycle.handleError to fan out a connection-wide
// failure.
func (o *OutstandingRequests) handleError(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for id, req := range o.byMsgID {
		req.promise.fail(err)
		delete(o.byMsgID, id)
	}
	o.byAsync = make(map[uint64]uint64)
}
