// Package kdf implements the single-iteration SP 800-108 counter-mode key
// derivation function SMB 3.x uses (MS-SMB2 3.1.4.1.1) to turn a session
// key into signing/encryption/decryption keys.
package kdf

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
)

// Key derives a 128-bit key from sessionKey using label and context,
// matching the KDF invoked as kdf(sessionKey, label, context) throughout
// session setup.
func Key(sessionKey, label, context []byte) []byte {
	h := hmac.New(sha256.New, sessionKey)

	var counter [4]byte
	binary.BigEndian.PutUint32(counter[:], 1)

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], 128)

	h.Write(counter[:])
	h.Write(label)
	h.Write(context)
	h.Write(length[:])

	return h.Sum(nil)[:16]
}
