// Package cmac implements AES-CMAC (RFC 4493 / NIST SP 800-38B), the
// signing/verification primitive SMB 3.x uses once the signing key has
// been derived via internal/kdf. Go's standard library has no CMAC
// implementation, so this is a compact, from-scratch one rather than a
// stand-in.
package cmac

import (
	"crypto/cipher"
	"crypto/subtle"
	"hash"
)

const blockSize = 16

var rb = [blockSize]byte{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x87,
}

func shiftLeft(dst, src []byte) {
	var carry byte
	for i := len(src) - 1; i >= 0; i-- {
		b := src[i]
		dst[i] = (b << 1) | carry
		carry = b >> 7
	}
}

func xorBlock(dst, a, b []byte) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

func subkeys(c cipher.Block) (k1, k2 [blockSize]byte) {
	var zero [blockSize]byte
	var l [blockSize]byte
	c.Encrypt(l[:], zero[:])

	if l[0]&0x80 == 0 {
		shiftLeft(k1[:], l[:])
	} else {
		var shifted [blockSize]byte
		shiftLeft(shifted[:], l[:])
		xorBlock(k1[:], shifted[:], rb[:])
	}

	if k1[0]&0x80 == 0 {
		shiftLeft(k2[:], k1[:])
	} else {
		var shifted [blockSize]byte
		shiftLeft(shifted[:], k1[:])
		xorBlock(k2[:], shifted[:], rb[:])
	}

	return k1, k2
}

type cmacHash struct {
	c      cipher.Block
	k1, k2 [blockSize]byte
	buf    []byte
}

// New returns a hash.Hash computing AES-CMAC over the given, already
// keyed, AES cipher.Block.
func New(c cipher.Block) hash.Hash {
	k1, k2 := subkeys(c)
	return &cmacHash{c: c, k1: k1, k2: k2}
}

func (h *cmacHash) Write(p []byte) (int, error) {
	h.buf = append(h.buf, p...)
	return len(p), nil
}

func (h *cmacHash) Sum(b []byte) []byte {
	n := len(h.buf)
	var x [blockSize]byte

	if n == 0 {
		xorBlock(x[:], h.k2[:], pad(nil))
	} else if n%blockSize == 0 {
		last := h.buf[n-blockSize:]
		xorBlock(x[:], h.k1[:], last)
	} else {
		last := h.buf[n-n%blockSize:]
		xorBlock(x[:], h.k2[:], pad(last))
	}

	var mac [blockSize]byte
	var y [blockSize]byte

	full := (n - 1) / blockSize // number of complete leading blocks, excluding the last one
	if n == 0 {
		full = 0
	}

	for i := 0; i < full; i++ {
		block := h.buf[i*blockSize : (i+1)*blockSize]
		xorBlock(y[:], mac[:], block)
		h.c.Encrypt(mac[:], y[:])
	}

	xorBlock(y[:], mac[:], x[:])
	h.c.Encrypt(mac[:], y[:])

	return append(b, mac[:]...)
}

func (h *cmacHash) Reset()         { h.buf = h.buf[:0] }
func (h *cmacHash) Size() int      { return blockSize }
func (h *cmacHash) BlockSize() int { return blockSize }

func pad(b []byte) []byte {
	var out [blockSize]byte
	n := copy(out[:], b)
	out[n] = 0x80
	return out[:]
}

// Equal reports whether two MACs are identical using constant-time
// comparison, matching the verification discipline of the engine's
// Signatory collaborator.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
