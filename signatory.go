package smb2

import (
	"crypto/aes"
	"crypto/hmac"
	"crypto/sha256"
	"hash"

	"github.com/kbsmb/smb2/internal/cmac"
	"github.com/kbsmb/smb2/internal/kdf"
	wire "github.com/kbsmb/smb2/internal/smb2"
)

// hashSignatory is the default Signatory: HMAC-SHA256 for SMB 2.x,
// AES-CMAC for SMB 3.x. It is kept separate from Session so a caller can
// supply a different Signatory (hardware-backed signing, a mock for
// tests) without touching the engine.
type hashSignatory struct {
	signer   hash.Hash
	verifier hash.Hash
}

// newSignatory derives the signing key for dialect from sessionKey and
// builds the matching Signatory. SMB202/SMB210 sign directly with the
// session key; SMB300/SMB302 first run it through the SP800-108 KDF
// (internal/kdf) with the "SMB2AESCMAC" label and "SmbSign" context.
func newSignatory(dialect uint16, sessionKey []byte) (Signatory, error) {
	switch dialect {
	case wire.SMB202, wire.SMB210:
		return &hashSignatory{
			signer:   hmac.New(sha256.New, sessionKey),
			verifier: hmac.New(sha256.New, sessionKey),
		}, nil
	case wire.SMB300, wire.SMB302:
		signingKey := kdf.Key(sessionKey, []byte("SMB2AESCMAC\x00"), []byte("SmbSign\x00"))
		ciph, err := aes.NewCipher(signingKey)
		if err != nil {
			return nil, err
		}
		return &hashSignatory{
			signer:   cmac.New(ciph),
			verifier: cmac.New(ciph),
		}, nil
	default:
		return &hashSignatory{
			signer:   hmac.New(sha256.New, sessionKey),
			verifier: hmac.New(sha256.New, sessionKey),
		}, nil
	}
}

func (h *hashSignatory) Sign(pkt []byte) []byte {
	p := wire.PacketCodec(pkt)
	p.SetFlags(p.Flags() | wire.SMB2_FLAGS_SIGNED)
	p.SetSignature(zero[:])

	h.signer.Reset()
	h.signer.Write(pkt)
	p.SetSignature(h.signer.Sum(nil))

	return pkt
}

func (h *hashSignatory) Verify(pkt []byte) bool {
	p := wire.PacketCodec(pkt)

	signature := append([]byte{}, p.Signature()...)
	p.SetSignature(zero[:])

	h.verifier.Reset()
	h.verifier.Write(pkt)
	computed := h.verifier.Sum(nil)

	p.SetSignature(signature)

	return cmac.Equal(signature, computed[:len(signature)])
}
