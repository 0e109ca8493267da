// Package smb2 implements the connection engine of an SMB2/3 client: the
// dialect negotiation handshake, the credit-based flow-control window,
// request/response correlation, asynchronous responses, GSS/SPNEGO-driven
// session setup, inbound-frame dispatch (signature verification, session
// routing) and orderly shutdown.
//
// The byte-level codecs for individual commands live in internal/smb2,
// the transport framing is supplied by a caller-provided Transport, and
// concrete GSS mechanisms are supplied by a caller-provided set of
// Authenticators. File/tree/pipe operations, configuration loading and
// logging setup are out of scope; they are built on top of Connection and
// Session.
package smb2
