// Package spnego implements just enough of RFC 4178 GSS-API SPNEGO to let
// the Authenticator facade pick a mechanism and carry its tokens inside
// SESSION_SETUP security buffers. It is not a general GSS-API
// implementation: only NegTokenInit/NegTokenResp parsing and construction
// are implemented, which is all the engine needs.
package spnego

import (
	"encoding/asn1"

	"github.com/geoffgarside/ber"
)

// Well-known mechanism OIDs the engine's two initiators advertise.
var (
	// SPNEGOOid identifies the SPNEGO pseudo-mechanism itself.
	SPNEGOOid = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 2}

	// KerberosOid is the OID for Kerberos V5 ("1.2.840.113554.1.2.2").
	KerberosOid = asn1.ObjectIdentifier{1, 2, 840, 113554, 1, 2, 2}

	// NTLMSSPOid identifies Microsoft's NTLM SSP mechanism.
	NTLMSSPOid = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 2, 2, 10}
)

// negTokenInit mirrors RFC 4178 NegTokenInit. Servers frequently encode
// this using BER rather than strict DER (optional fields, indefinite
// lengths), which is why decoding goes through geoffgarside/ber rather
// than the standard library's strict encoding/asn1.
type negTokenInit struct {
	MechTypes    []asn1.ObjectIdentifier `asn1:"explicit,tag:0"`
	ReqFlags     asn1.BitString          `asn1:"explicit,optional,tag:1"`
	MechToken    []byte                  `asn1:"explicit,optional,tag:2"`
	MechListMIC  []byte                  `asn1:"explicit,optional,tag:3"`
}

type initialContextToken struct {
	ThisMech asn1.ObjectIdentifier
	Init     negTokenInit `asn1:"explicit,tag:0"`
}

// MechTypeList parses the server's initial GSS token (delivered on the
// NEGOTIATE response) and returns the ordered list of mechanism OIDs it
// offers. A nil/empty token yields a nil list,
// which the Authenticator facade treats as "any mechanism is acceptable".
func MechTypeList(token []byte) ([]asn1.ObjectIdentifier, error) {
	if len(token) == 0 {
		return nil, nil
	}

	var t initialContextToken
	if _, err := ber.Unmarshal(token, &t); err != nil {
		// Some servers omit the outer GSS wrapper and send the
		// NegTokenInit choice directly.
		var init negTokenInit
		if _, err2 := ber.Unmarshal(token, &init); err2 != nil {
			return nil, err
		}
		return init.MechTypes, nil
	}

	return t.Init.MechTypes, nil
}

// negTokenResp mirrors RFC 4178 NegTokenResp, used for every round after
// the first.
type negTokenResp struct {
	NegState      asn1.Enumerated `asn1:"explicit,optional,tag:0"`
	SupportedMech asn1.ObjectIdentifier `asn1:"explicit,optional,tag:1"`
	ResponseToken []byte          `asn1:"explicit,optional,tag:2"`
	MechListMIC   []byte          `asn1:"explicit,optional,tag:3"`
}

// WrapInit builds the first round's NegTokenInit, naming mech as the sole
// offered mechanism and carrying mechToken as the initiator's first GSS
// token.
func WrapInit(mech asn1.ObjectIdentifier, mechToken []byte) ([]byte, error) {
	return asn1.Marshal(initialContextToken{
		ThisMech: SPNEGOOid,
		Init: negTokenInit{
			MechTypes: []asn1.ObjectIdentifier{mech},
			MechToken: mechToken,
		},
	})
}

// WrapResp builds a subsequent round's NegTokenResp carrying responseToken.
func WrapResp(responseToken []byte) ([]byte, error) {
	return asn1.MarshalWithParams(negTokenResp{
		ResponseToken: responseToken,
	}, "explicit,tag:1")
}

// UnwrapResp extracts the responseToken carried in the server's
// NegTokenResp.
func UnwrapResp(token []byte) ([]byte, error) {
	var r negTokenResp
	if _, err := ber.UnmarshalWithParams(token, &r, "explicit,tag:1"); err != nil {
		return nil, err
	}
	return r.ResponseToken, nil
}
