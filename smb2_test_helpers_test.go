package smb2

import (
	"context"
	"encoding/binary"

	wire "github.com/kbsmb/smb2/internal/smb2"
)

// rawPacket hand-assembles a 64-byte SMB2 header (MS-SMB2 2.2.1) plus body,
// the way a real server's bytes would arrive over Transport. The byte
// offsets mirror internal/smb2/wire.go's encodeHeader exactly; tests build
// these independently of the codec so a codec bug can't hide a test bug.
func rawPacket(command uint16, status uint32, messageID uint64, creditResponse uint16, flags uint32, sessionID uint64, body []byte) []byte {
	buf := make([]byte, wire.HeaderSize+len(body))

	copy(buf[0:4], []byte{0xFE, 'S', 'M', 'B'})
	binary.LittleEndian.PutUint16(buf[4:], 64) // StructureSize
	binary.LittleEndian.PutUint32(buf[8:], status)
	binary.LittleEndian.PutUint16(buf[12:], command)
	binary.LittleEndian.PutUint16(buf[14:], creditResponse)
	binary.LittleEndian.PutUint32(buf[16:], flags)
	binary.LittleEndian.PutUint64(buf[24:], messageID)
	binary.LittleEndian.PutUint64(buf[40:], sessionID)

	copy(buf[wire.HeaderSize:], body)
	return buf
}

func rawAsyncPacket(command uint16, status uint32, messageID, asyncID uint64, creditResponse uint16, body []byte) []byte {
	pkt := rawPacket(command, status, messageID, creditResponse, wire.SMB2_FLAGS_ASYNC_COMMAND, 0, body)
	binary.LittleEndian.PutUint64(pkt[32:], asyncID)
	return pkt
}

// negotiateResponseBody builds the fixed 64-byte NEGOTIATE response body
// (MS-SMB2 2.2.4), empty security buffer.
func negotiateResponseBody(dialect uint16, capabilities uint32) []byte {
	b := make([]byte, 64)
	binary.LittleEndian.PutUint16(b[0:], 65) // StructureSize
	binary.LittleEndian.PutUint16(b[4:], dialect)
	binary.LittleEndian.PutUint32(b[24:], capabilities)
	binary.LittleEndian.PutUint32(b[28:], 1<<20) // MaxTransactSize
	binary.LittleEndian.PutUint32(b[32:], 1<<20) // MaxReadSize
	binary.LittleEndian.PutUint32(b[36:], 1<<20) // MaxWriteSize
	return b
}

// sessionSetupResponseBody builds a SESSION_SETUP response body (2.2.6)
// carrying securityBuffer.
func sessionSetupResponseBody(sessionFlags uint16, securityBuffer []byte) []byte {
	b := make([]byte, 8+len(securityBuffer))
	binary.LittleEndian.PutUint16(b[0:], 9) // StructureSize
	binary.LittleEndian.PutUint16(b[2:], sessionFlags)
	if len(securityBuffer) > 0 {
		binary.LittleEndian.PutUint16(b[4:], wire.HeaderSize+8)
		binary.LittleEndian.PutUint16(b[6:], uint16(len(securityBuffer)))
	}
	copy(b[8:], securityBuffer)
	return b
}

// fakeTransport is a Transport that hands writes to a channel a test can
// read synchronously, and lets a test push synthetic inbound frames
// through whatever handle Connect wired up via Run.
type fakeTransport struct {
	written chan []byte

	handle      func(pkt []byte)
	handleError func(err error)
	ready       chan struct{}
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{written: make(chan []byte, 16), ready: make(chan struct{})}
}

func (f *fakeTransport) Connect(ctx context.Context, endpoint string) error { return nil }
func (f *fakeTransport) Disconnect() error                                 { return nil }
func (f *fakeTransport) IsConnected() bool                                 { return true }

func (f *fakeTransport) Write(pkt []byte) error {
	buf := append([]byte(nil), pkt...)
	f.written <- buf
	return nil
}

func (f *fakeTransport) Run(handle func(pkt []byte), handleError func(err error)) {
	f.handle = handle
	f.handleError = handleError
	close(f.ready)
}

// deliver feeds pkt to the handler Connect registered via Run, as if it
// had just arrived off the wire. It waits for Run to have been called
// first, since Connect launches it on its own goroutine.
func (f *fakeTransport) deliver(pkt []byte) {
	<-f.ready
	f.handle(pkt)
}
