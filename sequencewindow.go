package smb2

import (
	"fmt"
	"sync"
)

// SequenceWindow is the ordered, monotonically increasing allocator of
// 64-bit message IDs. Its state is (nextID, availableCredits): issued
// IDs are never reused, available credits never go negative, and get(n)
// always returns n contiguous IDs.
type SequenceWindow struct {
	mu        sync.Mutex
	nextID    uint64
	available uint64
}

// newSequenceWindow starts a window with a single credit, which pays for
// the NEGOTIATE request (MessageId 0); credits the server returns are
// added later through CreditsGranted.
func newSequenceWindow() *SequenceWindow {
	return &SequenceWindow{available: 1}
}

// Available reports the current credit balance.
func (w *SequenceWindow) Available() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.available
}

// Get allocates n contiguous message IDs and decrements the credit
// balance by n. It panics on n <= 0: SendPath never asks for a zero or
// negative charge, and a caller that does has a logic bug worth
// surfacing immediately rather than silently issuing ID 0 forever.
func (w *SequenceWindow) Get(n uint64) []uint64 {
	if n == 0 {
		panic(fmt.Sprintf("smb2: SequenceWindow.Get called with n=%d", n))
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	ids := make([]uint64, n)
	for i := range ids {
		ids[i] = w.nextID + uint64(i)
	}
	w.nextID += n

	if n > w.available {
		w.available = 0
	} else {
		w.available -= n
	}

	return ids
}

// CreditsGranted adds k credits returned by the server (MS-SMB2
// 3.2.5.1.4). k == 0 leaves the window unchanged.
func (w *SequenceWindow) CreditsGranted(k uint64) {
	if k == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.available += k
}
