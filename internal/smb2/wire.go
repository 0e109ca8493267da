// Package smb2 is the codec collaborator: it converts between the on-wire
// SMB2 header+body (MS-SMB2 2.2.1) and the in-memory records the engine
// passes around. It deliberately does not implement the byte-level bodies
// of file/tree/pipe commands — only what NEGOTIATE, SESSION_SETUP and
// LOGOFF need, plus the generic header fields every command shares.
package smb2

import "encoding/binary"

// Commands used by the connection engine. The full SMB2 command table has
// 19 entries; only the ones the core drives directly are named here.
const (
	SMB2_NEGOTIATE     uint16 = 0x0000
	SMB2_SESSION_SETUP uint16 = 0x0001
	SMB2_LOGOFF        uint16 = 0x0002
	SMB2_ECHO          uint16 = 0x000D
)

// Header flags (MS-SMB2 2.2.1.2).
const (
	SMB2_FLAGS_SERVER_TO_REDIR uint32 = 0x00000001
	SMB2_FLAGS_ASYNC_COMMAND   uint32 = 0x00000002
	SMB2_FLAGS_SIGNED          uint32 = 0x00000008
)

// Dialect revisions.
const (
	UnknownSMB uint16 = 0x0000
	SMB2       uint16 = 0x0002 // wildcard returned to force a dialect re-negotiate
	SMB202     uint16 = 0x0202
	SMB210     uint16 = 0x0210
	SMB300     uint16 = 0x0300
	SMB302     uint16 = 0x0302
	SMB311     uint16 = 0x0311
)

// Negotiate security modes (MS-SMB2 2.2.3).
const (
	SMB2_NEGOTIATE_SIGNING_ENABLED  uint16 = 0x0001
	SMB2_NEGOTIATE_SIGNING_REQUIRED uint16 = 0x0002
)

// Global capability flags (MS-SMB2 2.2.3).
const (
	SMB2_GLOBAL_CAP_DFS           uint32 = 0x00000001
	SMB2_GLOBAL_CAP_LEASING       uint32 = 0x00000002
	SMB2_GLOBAL_CAP_LARGE_MTU     uint32 = 0x00000004
	SMB2_GLOBAL_CAP_MULTI_CHANNEL uint32 = 0x00000008
	SMB2_GLOBAL_CAP_ENCRYPTION    uint32 = 0x00000040
)

// Session flags (MS-SMB2 2.2.6).
const (
	SMB2_SESSION_FLAG_IS_GUEST      uint16 = 0x0001
	SMB2_SESSION_FLAG_IS_NULL       uint16 = 0x0002
	SMB2_SESSION_FLAG_ENCRYPT_DATA  uint16 = 0x0004
)

// header byte offsets within the 64-byte SMB2 header.
const (
	offProtocolId    = 0
	offStructureSize = 4
	offCreditCharge  = 6
	offStatus        = 8
	offCommand       = 12
	offCredit        = 14
	offFlags         = 16
	offNextCommand   = 20
	offMessageId     = 24
	offAsyncId       = 32 // valid only when SMB2_FLAGS_ASYNC_COMMAND is set
	offReserved      = 32 // overlaps AsyncId when sync
	offTreeId        = 36
	offSessionId     = 40
	offSignature     = 48
	HeaderSize       = 64
)

var protocolId = [4]byte{0xFE, 'S', 'M', 'B'}

// Header is the in-memory form of the 64-byte SMB2 header, populated by
// SendPath before a request is encoded. Inbound frames are not decoded
// into a Header; ReceivePath reads them through PacketCodec.
type Header struct {
	CreditCharge          uint16
	Status                uint32
	Command               uint16
	CreditRequestResponse uint16
	Flags                 uint32
	NextCommand           uint32
	MessageId             uint64
	AsyncId               uint64
	TreeId                uint32
	SessionId             uint64
	Signature             [16]byte
}

// Packet is anything the engine can serialize onto the wire: a command
// body together with the header fields SendPath fills in (MessageId,
// CreditCharge, CreditRequestResponse, SessionId, ...).
type Packet interface {
	Header() *Header
	Size() int
	Encode(buf []byte)
}

func encodeHeader(buf []byte, h *Header) {
	copy(buf[offProtocolId:], protocolId[:])
	binary.LittleEndian.PutUint16(buf[offStructureSize:], 64)
	binary.LittleEndian.PutUint16(buf[offCreditCharge:], h.CreditCharge)
	binary.LittleEndian.PutUint32(buf[offStatus:], h.Status)
	binary.LittleEndian.PutUint16(buf[offCommand:], h.Command)
	binary.LittleEndian.PutUint16(buf[offCredit:], h.CreditRequestResponse)
	binary.LittleEndian.PutUint32(buf[offFlags:], h.Flags)
	binary.LittleEndian.PutUint32(buf[offNextCommand:], h.NextCommand)
	binary.LittleEndian.PutUint64(buf[offMessageId:], h.MessageId)
	binary.LittleEndian.PutUint32(buf[offTreeId:], h.TreeId)
	binary.LittleEndian.PutUint64(buf[offSessionId:], h.SessionId)
	copy(buf[offSignature:], h.Signature[:])
}

// PacketCodec is a thin, allocation-free view over a received (or about to
// be sent) frame, used throughout the receive and send paths.
type PacketCodec []byte

func (p PacketCodec) IsInvalid() bool {
	if len(p) < HeaderSize {
		return true
	}
	return p[0] != protocolId[0] || p[1] != protocolId[1] || p[2] != protocolId[2] || p[3] != protocolId[3]
}

func (p PacketCodec) Command() uint16     { return binary.LittleEndian.Uint16(p[offCommand:]) }
func (p PacketCodec) Status() uint32      { return binary.LittleEndian.Uint32(p[offStatus:]) }
func (p PacketCodec) Flags() uint32       { return binary.LittleEndian.Uint32(p[offFlags:]) }
func (p PacketCodec) MessageId() uint64   { return binary.LittleEndian.Uint64(p[offMessageId:]) }
func (p PacketCodec) SessionId() uint64   { return binary.LittleEndian.Uint64(p[offSessionId:]) }
func (p PacketCodec) TreeId() uint32      { return binary.LittleEndian.Uint32(p[offTreeId:]) }
func (p PacketCodec) NextCommand() int    { return int(binary.LittleEndian.Uint32(p[offNextCommand:])) }
func (p PacketCodec) CreditResponse() uint16 {
	return binary.LittleEndian.Uint16(p[offCredit:])
}

func (p PacketCodec) AsyncId() uint64 {
	if p.Flags()&SMB2_FLAGS_ASYNC_COMMAND == 0 {
		return 0
	}
	return binary.LittleEndian.Uint64(p[offAsyncId:])
}

func (p PacketCodec) Signature() []byte { return p[offSignature : offSignature+16] }

func (p PacketCodec) SetFlags(f uint32) { binary.LittleEndian.PutUint32(p[offFlags:], f) }

func (p PacketCodec) SetSignature(sig []byte) { copy(p[offSignature:offSignature+16], sig) }

// Data returns the command body that follows the fixed 64-byte header.
func (p PacketCodec) Data() []byte { return p[HeaderSize:] }
