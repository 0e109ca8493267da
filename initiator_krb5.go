package smb2

import (
	"encoding/asn1"
	"io"

	"github.com/jcmturner/gokrb5/v8/client"
	"github.com/jcmturner/gokrb5/v8/gssapi2"
	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/kbsmb/smb2/internal/spnego"
)

// KerberosAuthenticator is an Authenticator backed by gokrb5's GSSAPI
// helper: initSecContext drives each SESSION_SETUP round, and sum/
// SessionKey supply the MIC and signing-key material once the exchange
// completes.
type KerberosAuthenticator struct {
	SPN    string
	Client *client.Client
	User   types.PrincipalName

	gssimpl *gssapi2.GSSAPI
}

func (k *KerberosAuthenticator) OID() asn1.ObjectIdentifier { return spnego.KerberosOid }

func (k *KerberosAuthenticator) Supports(ctx *AuthContext) bool {
	return k.Client != nil && (k.SPN != "" || (ctx != nil && ctx.TargetSPN != ""))
}

func (k *KerberosAuthenticator) Init(rng io.Reader) error {
	k.gssimpl = &gssapi2.GSSAPI{
		Client: k.Client,
		User:   k.User,
	}
	return nil
}

func (k *KerberosAuthenticator) Round(ctx *AuthContext, inToken []byte) ([]byte, error) {
	spn := k.SPN
	if spn == "" && ctx != nil {
		spn = ctx.TargetSPN
	}

	if k.gssimpl == nil {
		k.gssimpl = &gssapi2.GSSAPI{
			Client: k.Client,
			User:   k.User,
		}
	}

	if inToken == nil {
		token, _, err := k.gssimpl.InitSecContext(spn, nil, false)
		if err != nil {
			return nil, err
		}
		return spnego.WrapInit(k.OID(), token)
	}

	responseToken, err := spnego.UnwrapResp(inToken)
	if err != nil {
		return nil, err
	}

	token, _, err := k.gssimpl.InitSecContext(spn, responseToken, false)
	if err != nil {
		return nil, err
	}
	return spnego.WrapResp(token)
}

// sum computes a GSS MIC over bs, protecting the final mechListMIC
// exchange once the round loop completes.
func (k *KerberosAuthenticator) sum(bs []byte) []byte {
	return k.gssimpl.GetMIC(bs)
}

func (k *KerberosAuthenticator) SessionKey() []byte {
	// Only the first 16 bytes are used; zero padding is added if fewer
	// are available (AES-CMAC/HMAC-SHA256 both derive from a 16-byte key
	// per MS-SMB2 3.1.4.1.1).
	sliced := k.gssimpl.SessionKey()
	if len(sliced) > 16 {
		sliced = sliced[:16]
	}
	for len(sliced) < 16 {
		sliced = append(sliced, 0x00)
	}
	return sliced
}
