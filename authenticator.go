package smb2

import (
	"crypto/rand"
	"encoding/asn1"
	"io"

	"github.com/kbsmb/smb2/internal/erref"
	"github.com/kbsmb/smb2/internal/spnego"
)

// AuthContext carries whatever credential material an Authenticator needs
// to decide Supports and to drive Authenticate. It is intentionally a
// plain struct of optional fields rather than a mechanism-specific type:
// the facade is mechanism-agnostic by construction.
type AuthContext struct {
	TargetSPN string // e.g. "cifs/fileserver.corp.example.com", used by Kerberos
	Username  string
	Domain    string
	Password  string
}

// Authenticator is the facade collaborator driving one GSS mechanism:
// OID(), Supports(ctx), Init(rng), Round(ctx, inToken) and SessionKey().
type Authenticator interface {
	// OID reports the GSS mechanism this authenticator implements, used
	// to match against the server's NegTokenInit mechTypes list.
	OID() asn1.ObjectIdentifier

	// Supports reports whether ctx carries what this mechanism needs
	// (e.g. a Kerberos authenticator needs a usable SPN/client).
	Supports(ctx *AuthContext) bool

	// Init prepares the authenticator with a random source before the
	// round loop starts.
	Init(rng io.Reader) error

	// Round processes one SESSION_SETUP round: inToken is the server's
	// security buffer (nil on the first round), and the returned token
	// is sent in the next request's security buffer.
	Round(ctx *AuthContext, inToken []byte) (outToken []byte, err error)

	// SessionKey returns the derived session key once the round loop
	// has produced one; it may be called again after the final round to
	// pick up key material finalized only then.
	SessionKey() []byte
}

// selectAuthenticator parses the server's GSS token as a SPNEGO
// NegTokenInit, then picks the first configured
// authenticator whose OID is in the server's list (or any authenticator
// if the server's list is empty) and that supports ctx.
func selectAuthenticator(candidates []Authenticator, serverToken []byte, ctx *AuthContext) (Authenticator, error) {
	mechs, err := spnego.MechTypeList(serverToken)
	if err != nil {
		// A malformed or absent initial token is not fatal: some
		// servers defer mechanism advertisement to SESSION_SETUP
		// entirely, so fall through to "any mechanism is acceptable".
		mechs = nil
	}

	for _, a := range candidates {
		if !a.Supports(ctx) {
			continue
		}
		if len(mechs) == 0 || oidIn(a.OID(), mechs) {
			return a, nil
		}
	}

	return nil, &erref.AuthenticationError{Msg: "no configured authenticator matches the server's mechanism list"}
}

func oidIn(oid asn1.ObjectIdentifier, list []asn1.ObjectIdentifier) bool {
	for _, o := range list {
		if o.Equal(oid) {
			return true
		}
	}
	return false
}

// defaultRNG is the RNG provider passed to Authenticator.Init when the
// caller doesn't supply one.
var defaultRNG io.Reader = rand.Reader
