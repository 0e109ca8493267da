package smb2

import "encoding/binary"

// NegotiateRequest is the body of an SMB2 NEGOTIATE request (2.2.3).
type NegotiateRequest struct {
	hdr Header

	SecurityMode uint16
	Capabilities uint32
	ClientGuid   [16]byte
	Dialects     []uint16
}

func (r *NegotiateRequest) Header() *Header { return &r.hdr }

func (r *NegotiateRequest) Size() int {
	return HeaderSize + 36 + 2*len(r.Dialects)
}

func (r *NegotiateRequest) Encode(buf []byte) {
	r.hdr.Command = SMB2_NEGOTIATE
	encodeHeader(buf, &r.hdr)

	b := buf[HeaderSize:]
	binary.LittleEndian.PutUint16(b[0:], 36)
	binary.LittleEndian.PutUint16(b[2:], uint16(len(r.Dialects)))
	binary.LittleEndian.PutUint16(b[4:], r.SecurityMode)
	binary.LittleEndian.PutUint32(b[8:], r.Capabilities)
	copy(b[12:28], r.ClientGuid[:])
	for i, d := range r.Dialects {
		binary.LittleEndian.PutUint16(b[36+2*i:], d)
	}
}

// NegotiateResponseDecoder reads an SMB2 NEGOTIATE response body.
type NegotiateResponseDecoder []byte

func (d NegotiateResponseDecoder) IsInvalid() bool { return len(d) < 64 }

func (d NegotiateResponseDecoder) SecurityMode() uint16    { return binary.LittleEndian.Uint16(d[2:]) }
func (d NegotiateResponseDecoder) DialectRevision() uint16 { return binary.LittleEndian.Uint16(d[4:]) }
func (d NegotiateResponseDecoder) ServerGuid() []byte      { return d[8:24] }
func (d NegotiateResponseDecoder) Capabilities() uint32    { return binary.LittleEndian.Uint32(d[24:]) }
func (d NegotiateResponseDecoder) MaxTransactSize() uint32 { return binary.LittleEndian.Uint32(d[28:]) }
func (d NegotiateResponseDecoder) MaxReadSize() uint32     { return binary.LittleEndian.Uint32(d[32:]) }
func (d NegotiateResponseDecoder) MaxWriteSize() uint32    { return binary.LittleEndian.Uint32(d[36:]) }

func (d NegotiateResponseDecoder) SecurityBufferOffset() uint16 {
	return binary.LittleEndian.Uint16(d[56:])
}
func (d NegotiateResponseDecoder) SecurityBufferLength() uint16 {
	return binary.LittleEndian.Uint16(d[58:])
}

// SecurityBuffer returns the server's initial GSS token, which may be
// empty for dialects/servers that defer it entirely to SESSION_SETUP.
func (d NegotiateResponseDecoder) SecurityBuffer() []byte {
	off := int(d.SecurityBufferOffset()) - HeaderSize
	n := int(d.SecurityBufferLength())
	if off < 0 || off+n > len(d) {
		return nil
	}
	return d[off : off+n]
}
