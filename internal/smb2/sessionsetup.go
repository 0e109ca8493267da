package smb2

import "encoding/binary"

// SessionSetupRequest is the body of an SMB2 SESSION_SETUP request (2.2.5).
type SessionSetupRequest struct {
	hdr Header

	Flags             uint8
	SecurityMode      uint16
	Capabilities      uint32
	Channel           uint32
	PreviousSessionId uint64
	SecurityBuffer    []byte
}

func (r *SessionSetupRequest) Header() *Header { return &r.hdr }

func (r *SessionSetupRequest) Size() int {
	return HeaderSize + 24 + len(r.SecurityBuffer)
}

func (r *SessionSetupRequest) Encode(buf []byte) {
	r.hdr.Command = SMB2_SESSION_SETUP
	encodeHeader(buf, &r.hdr)

	b := buf[HeaderSize:]
	binary.LittleEndian.PutUint16(b[0:], 25)
	b[2] = r.Flags
	binary.LittleEndian.PutUint16(b[3:], r.SecurityMode)
	binary.LittleEndian.PutUint32(b[4:], r.Capabilities)
	binary.LittleEndian.PutUint32(b[8:], r.Channel)
	binary.LittleEndian.PutUint16(b[12:], HeaderSize+24)
	binary.LittleEndian.PutUint16(b[14:], uint16(len(r.SecurityBuffer)))
	binary.LittleEndian.PutUint64(b[16:], r.PreviousSessionId)
	copy(b[24:], r.SecurityBuffer)
}

// SessionSetupResponseDecoder reads an SMB2 SESSION_SETUP response body.
type SessionSetupResponseDecoder []byte

func (d SessionSetupResponseDecoder) IsInvalid() bool { return len(d) < 8 }

func (d SessionSetupResponseDecoder) SessionFlags() uint16 {
	return binary.LittleEndian.Uint16(d[2:])
}

func (d SessionSetupResponseDecoder) SecurityBufferOffset() uint16 {
	return binary.LittleEndian.Uint16(d[4:])
}
func (d SessionSetupResponseDecoder) SecurityBufferLength() uint16 {
	return binary.LittleEndian.Uint16(d[6:])
}

func (d SessionSetupResponseDecoder) SecurityBuffer() []byte {
	off := int(d.SecurityBufferOffset()) - HeaderSize
	n := int(d.SecurityBufferLength())
	if off < 0 || off+n > len(d) {
		return nil
	}
	return d[off : off+n]
}

// LogoffRequest is the (empty) body of an SMB2 LOGOFF request (2.2.7).
type LogoffRequest struct {
	hdr Header
}

func (r *LogoffRequest) Header() *Header { return &r.hdr }
func (r *LogoffRequest) Size() int       { return HeaderSize + 4 }
func (r *LogoffRequest) Encode(buf []byte) {
	r.hdr.Command = SMB2_LOGOFF
	encodeHeader(buf, &r.hdr)
	binary.LittleEndian.PutUint16(buf[HeaderSize:], 4)
}

// ErrorResponseDecoder reads the generic SMB2_ERROR response body
// (2.2.2), used whenever Status is neither SUCCESS nor a
// command-specific informational code.
type ErrorResponseDecoder []byte

func (d ErrorResponseDecoder) IsInvalid() bool { return len(d) < 8 }

func (d ErrorResponseDecoder) ErrorContextCount() uint8 { return d[2] }

func (d ErrorResponseDecoder) ErrorData() []byte { return d[8:] }
