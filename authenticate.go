package smb2

import (
	"context"

	"github.com/kbsmb/smb2/internal/erref"
	wire "github.com/kbsmb/smb2/internal/smb2"
)

// Authenticate executes the GSS/SPNEGO-driven multi-round authentication
// that mints a Session.
func (c *Connection) Authenticate(ctx context.Context, authenticators []Authenticator, authCtx *AuthContext) (*Session, error) {
	a, err := selectAuthenticator(authenticators, c.info.GSSNegotiateToken, authCtx)
	if err != nil {
		return nil, err
	}
	if err := a.Init(defaultRNG); err != nil {
		return nil, err
	}

	var sess *Session
	var inToken []byte

	for {
		outToken, err := a.Round(authCtx, inToken)
		if err != nil {
			return nil, &erref.AuthenticationError{Msg: err.Error()}
		}

		req := &wire.SessionSetupRequest{
			Capabilities:   c.info.Capabilities & wire.SMB2_GLOBAL_CAP_DFS,
			SecurityBuffer: outToken,
		}
		if c.info.ServerRequiresSigning {
			req.SecurityMode = wire.SMB2_NEGOTIATE_SIGNING_REQUIRED
		} else {
			req.SecurityMode = wire.SMB2_NEGOTIATE_SIGNING_ENABLED
		}

		fut, err := c.sendPath.send(req, sess, req.Size()-wire.HeaderSize, ctx)
		if err != nil {
			return nil, err
		}

		pkt, err := fut.await(ctx)
		if err != nil {
			return nil, err
		}

		res, err := accept(wire.SMB2_SESSION_SETUP, pkt)
		if err != nil {
			return nil, err
		}

		st := status(pkt)

		if sess == nil {
			// Capture the server-assigned SessionId from the first
			// response and register the session in PreauthSessionTable
			// under it.
			sess = &Session{
				SessionID:       wire.PacketCodec(pkt).SessionId(),
				SigningRequired: c.info.ServerRequiresSigning,
			}
			c.info.PreauthSessionTable.Register(sess)
		}

		switch st {
		case erref.STATUS_MORE_PROCESSING_REQUIRED:
			r := wire.SessionSetupResponseDecoder(res)
			if r.IsInvalid() {
				c.info.PreauthSessionTable.Remove(sess.SessionID)
				return nil, &erref.InvalidResponseError{Msg: "broken session setup response format"}
			}

			sessFlags := r.SessionFlags()
			if sessFlags&(wire.SMB2_SESSION_FLAG_IS_GUEST|wire.SMB2_SESSION_FLAG_IS_NULL) == 0 {
				if sessionKey := a.SessionKey(); len(sessionKey) > 0 {
					sig, err := newSignatory(c.info.NegotiatedDialect, sessionKey)
					if err != nil {
						c.info.PreauthSessionTable.Remove(sess.SessionID)
						return nil, err
					}
					sess.SigningKey = sessionKey
					sess.Signatory = sig
				}
			}

			inToken = r.SecurityBuffer()
			continue

		case erref.STATUS_SUCCESS:
			r := wire.SessionSetupResponseDecoder(res)
			if !r.IsInvalid() {
				if final := r.SecurityBuffer(); len(final) > 0 {
					// Feed the final security buffer back once
					// more so the authenticator can finalize key
					// material.
					_, _ = a.Round(authCtx, final)
				}
			}

			c.info.PreauthSessionTable.Remove(sess.SessionID)
			c.info.SessionTable.Register(sess)
			return sess, nil

		default:
			c.info.PreauthSessionTable.Remove(sess.SessionID)
			return nil, &erref.AuthenticationError{Status: st}
		}
	}
}
