package smb2

import (
	"log"
	"os"

	. "github.com/kbsmb/smb2/internal/smb2"
)

// logger is the package-level logger used on the receive-path's
// best-effort skip branches (unknown session, bad signature, ...).
var logger = log.New(os.Stderr, "smb2: ", log.LstdFlags)

var zero [16]byte

// singleCreditPayloadSize is SINGLE_CREDIT_PAYLOAD_SIZE, MS-SMB2 3.1.5.2:
// one credit buys the client 64 KiB of request/response payload.
const singleCreditPayloadSize = 65536

// preferredMinimumCredits is the PREFERRED_MINIMUM_CREDITS target
// SendPath tries to keep the window topped up to.
const preferredMinimumCredits = 512

// clientDialects is the set this engine offers during NEGOTIATE, oldest
// first and newest last.
//
// SMB 3.1.1's negotiate-context preauth-integrity/cipher negotiation is
// not modeled: the highest dialect offered is SMB302, whose
// signing/encryption keys derive directly from the session key with no
// prior context exchange.
var clientDialects = []uint16{SMB202, SMB210, SMB300, SMB302}

var clientCapabilities = SMB2_GLOBAL_CAP_DFS | SMB2_GLOBAL_CAP_LARGE_MTU | SMB2_GLOBAL_CAP_MULTI_CHANNEL
