package smb2

import (
	"encoding/asn1"
	"io"

	"github.com/samuong/go-ntlmssp"

	"github.com/kbsmb/smb2/internal/erref"
	"github.com/kbsmb/smb2/internal/spnego"
)

// NTLMAuthenticator is the second concrete Authenticator, giving
// mechanism selection two real OIDs to choose between. It wraps
// github.com/samuong/go-ntlmssp for the NTLM-over-SPNEGO message
// exchange.
type NTLMAuthenticator struct {
	Domain   string
	Username string
	Password string

	sessionKey []byte
}

func (n *NTLMAuthenticator) OID() asn1.ObjectIdentifier { return spnego.NTLMSSPOid }

func (n *NTLMAuthenticator) Supports(ctx *AuthContext) bool {
	if n.Username != "" && n.Password != "" {
		return true
	}
	return ctx != nil && ctx.Username != "" && ctx.Password != ""
}

func (n *NTLMAuthenticator) Init(rng io.Reader) error {
	return nil
}

func (n *NTLMAuthenticator) Round(ctx *AuthContext, inToken []byte) ([]byte, error) {
	username, password, domain := n.Username, n.Password, n.Domain
	if ctx != nil {
		if username == "" {
			username = ctx.Username
		}
		if password == "" {
			password = ctx.Password
		}
		if domain == "" {
			domain = ctx.Domain
		}
	}

	if inToken == nil {
		negotiate, err := ntlmssp.NewNegotiateMessage(domain, "")
		if err != nil {
			return nil, err
		}
		return spnego.WrapInit(n.OID(), negotiate)
	}

	challenge, err := spnego.UnwrapResp(inToken)
	if err != nil {
		return nil, err
	}

	authenticate, err := ntlmssp.ProcessChallenge(challenge, username, password)
	if err != nil {
		return nil, &erref.AuthenticationError{Msg: err.Error()}
	}

	return spnego.WrapResp(authenticate)
}

// SessionKey always returns nil.
//
// go-ntlmssp's ProcessChallenge does not export the NTLMv2 session key
// (it is consumed internally to build the AUTHENTICATE message's MIC),
// so this authenticator produces no signing key, and Connection.Authenticate
// gives the sessions it mints no Signatory, the same as for
// SMB2_SESSION_FLAG_IS_GUEST sessions.
func (n *NTLMAuthenticator) SessionKey() []byte {
	return n.sessionKey
}
