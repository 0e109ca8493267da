package smb2

// ConnectionInfo holds the negotiated capabilities and tables a
// Connection publishes once during negotiation and then treats as
// read-only, aside from the two session tables.
type ConnectionInfo struct {
	ClientGUID [16]byte
	ServerGUID [16]byte

	NegotiatedDialect   uint16
	Capabilities        uint32
	MaxReadSize         uint32
	MaxWriteSize        uint32
	MaxTransactSize     uint32
	ServerRequiresSigning bool

	// GSSNegotiateToken is the server's initial SPNEGO token from the
	// NEGOTIATE response; it may be empty for servers that defer their
	// mechanism list entirely to SESSION_SETUP.
	GSSNegotiateToken []byte

	SessionTable        *SessionTable
	PreauthSessionTable *PreauthSessionTable
}

func newConnectionInfo(clientGUID [16]byte) *ConnectionInfo {
	return &ConnectionInfo{
		ClientGUID:          clientGUID,
		SessionTable:        newSessionTableT(),
		PreauthSessionTable: newPreauthSessionTable(),
	}
}

// largeMTU reports whether the negotiated capabilities include
// SMB2_GLOBAL_CAP_LARGE_MTU, which the credit accounting branches on.
func (ci *ConnectionInfo) largeMTU() bool {
	const capLargeMTU = 0x00000004
	return ci.Capabilities&capLargeMTU != 0
}
