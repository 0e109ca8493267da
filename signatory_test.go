package smb2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wire "github.com/kbsmb/smb2/internal/smb2"
)

func testSessionKey() []byte {
	key := make([]byte, 16)
	for i := range key {
		key[i] = byte(i + 1)
	}
	return key
}

func TestSignatoryRoundTripSMB202(t *testing.T) {
	sig, err := newSignatory(wire.SMB202, testSessionKey())
	require.NoError(t, err)

	pkt := rawPacket(wire.SMB2_SESSION_SETUP, 0, 1, 0, 0, 42, []byte("hello world"))
	signed := sig.Sign(pkt)

	assert.True(t, sig.Verify(signed))
}

func TestSignatoryRoundTripSMB300UsesCMAC(t *testing.T) {
	sig, err := newSignatory(wire.SMB300, testSessionKey())
	require.NoError(t, err)

	pkt := rawPacket(wire.SMB2_SESSION_SETUP, 0, 1, 0, 0, 42, []byte("hello world"))
	signed := sig.Sign(pkt)

	assert.True(t, sig.Verify(signed))
}

func TestSignatoryDetectsTampering(t *testing.T) {
	sig, err := newSignatory(wire.SMB300, testSessionKey())
	require.NoError(t, err)

	pkt := rawPacket(wire.SMB2_SESSION_SETUP, 0, 1, 0, 0, 42, []byte("hello world"))
	signed := sig.Sign(pkt)

	tampered := append([]byte(nil), signed...)
	tampered[wire.HeaderSize] ^= 0xFF // flip a body byte after signing

	assert.False(t, sig.Verify(tampered))
}

func TestSignatorySetsSignedFlag(t *testing.T) {
	sig, err := newSignatory(wire.SMB202, testSessionKey())
	require.NoError(t, err)

	pkt := rawPacket(wire.SMB2_SESSION_SETUP, 0, 1, 0, 0, 42, []byte("body"))
	signed := sig.Sign(pkt)

	p := wire.PacketCodec(signed)
	assert.NotZero(t, p.Flags()&wire.SMB2_FLAGS_SIGNED)
}
