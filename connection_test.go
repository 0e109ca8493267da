package smb2

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wire "github.com/kbsmb/smb2/internal/smb2"
)

// TestConnectNegotiatesDialect covers a single NEGOTIATE round trip with
// MessageId 0 that records the negotiated dialect into ConnectionInfo.
func TestConnectNegotiatesDialect(t *testing.T) {
	ft := newFakeTransport()
	c := NewConnection(ft, NewEventBus(), &Negotiator{})

	done := make(chan error, 1)
	go func() { done <- c.Connect(context.Background(), "fileserver", 445) }()

	var req []byte
	select {
	case req = <-ft.written:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for NEGOTIATE request")
	}

	p := wire.PacketCodec(req)
	assert.Equal(t, wire.SMB2_NEGOTIATE, p.Command())
	assert.Equal(t, uint64(0), p.MessageId())

	body := negotiateResponseBody(wire.SMB300, wire.SMB2_GLOBAL_CAP_LARGE_MTU)
	resp := rawPacket(wire.SMB2_NEGOTIATE, 0 /* STATUS_SUCCESS */, 0, 1, 0, 0, body)
	ft.deliver(resp)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Connect never returned")
	}

	assert.Equal(t, wire.SMB300, c.Info().NegotiatedDialect)
	assert.NotZero(t, c.Info().Capabilities&wire.SMB2_GLOBAL_CAP_LARGE_MTU)
}

// TestReceivePathAsyncThenFinal covers a STATUS_PENDING async response
// followed by the final response for the same request.
func TestReceivePathAsyncThenFinal(t *testing.T) {
	window := newSequenceWindow()
	outstanding := newOutstandingRequests()
	info := newConnectionInfo([16]byte{})

	var failed error
	rp := newReceivePath(window, outstanding, info, func(err error) { failed = err })

	req := newTestRequest(3)
	outstanding.registerOutstanding(req)

	pending := rawAsyncPacket(wire.SMB2_ECHO, uint32(0x00000103) /* STATUS_PENDING */, 3, 0xABCD, 0, nil)
	rp.handle(pending)

	require.NoError(t, failed)
	assert.True(t, outstanding.isOutstanding(3))
	got, ok := outstanding.getByMessageID(3)
	require.True(t, ok)
	assert.Equal(t, uint64(0xABCD), got.AsyncID)

	final := rawPacket(wire.SMB2_ECHO, 0, 3, 2, 0, 0, []byte("done"))
	rp.handle(final)

	assert.False(t, outstanding.isOutstanding(3))
	pkt, err := req.promise.await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("done"), pkt[wire.HeaderSize:])
}

// TestReceivePathUnsignedRejectedWhenSigningRequired covers a response
// for a signing-required session that arrives unsigned.
func TestReceivePathUnsignedRejectedWhenSigningRequired(t *testing.T) {
	window := newSequenceWindow()
	outstanding := newOutstandingRequests()
	info := newConnectionInfo([16]byte{})
	info.ServerRequiresSigning = true

	sess := &Session{SessionID: 42}
	info.SessionTable.Register(sess)

	var failed error
	rp := newReceivePath(window, outstanding, info, func(err error) { failed = err })

	req := newTestRequest(1)
	outstanding.registerOutstanding(req)

	unsigned := rawPacket(wire.SMB2_ECHO, 0, 1, 1, 0, 42, []byte("body"))
	rp.handle(unsigned)

	assert.Error(t, failed)
	// the promise is never fulfilled: the request stays registered.
	assert.True(t, outstanding.isOutstanding(1))
}

// TestReceivePathSignedVerifiedDelivers shows the companion positive case:
// a correctly signed packet for a known session is delivered.
func TestReceivePathSignedVerifiedDelivers(t *testing.T) {
	window := newSequenceWindow()
	outstanding := newOutstandingRequests()
	info := newConnectionInfo([16]byte{})

	sig, err := newSignatory(wire.SMB300, testSessionKey())
	require.NoError(t, err)
	sess := &Session{SessionID: 42, Signatory: sig}
	info.SessionTable.Register(sess)

	rp := newReceivePath(window, outstanding, info, func(err error) { t.Fatalf("unexpected failure: %v", err) })

	req := newTestRequest(1)
	outstanding.registerOutstanding(req)

	pkt := rawPacket(wire.SMB2_ECHO, 0, 1, 1, 0, 42, []byte("body"))
	signed := sig.Sign(pkt)

	rp.handle(signed)

	assert.False(t, outstanding.isOutstanding(1))
	delivered, err := req.promise.await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, signed, delivered)
}

// TestReceivePathUnknownMessageIDFailsConnection covers a response
// whose MessageId was never registered as outstanding.
func TestReceivePathUnknownMessageIDFailsConnection(t *testing.T) {
	window := newSequenceWindow()
	outstanding := newOutstandingRequests()
	info := newConnectionInfo([16]byte{})

	var failed error
	rp := newReceivePath(window, outstanding, info, func(err error) { failed = err })

	rp.handle(rawPacket(wire.SMB2_ECHO, 0, 999, 1, 0, 0, nil))

	assert.Error(t, failed)
}
