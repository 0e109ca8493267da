package smb2

import (
	"fmt"

	"github.com/kbsmb/smb2/internal/erref"
	wire "github.com/kbsmb/smb2/internal/smb2"
)

// accept checks that a completed response matches the command a driver
// just sent and returns its body. The core never raises on a
// non-success NTSTATUS here — interpreting status codes for a given
// command is the caller's responsibility; the authenticate round loop is
// the one driver in this engine that looks at specific statuses, and it
// does so explicitly itself.
func accept(cmd uint16, pkt []byte) ([]byte, error) {
	p := wire.PacketCodec(pkt)
	if command := p.Command(); cmd != command {
		return nil, &erref.InvalidResponseError{Msg: fmt.Sprintf("expected command %#x, got %#x", cmd, command)}
	}
	return p.Data(), nil
}

// status reads the NTSTATUS off a completed response packet.
func status(pkt []byte) erref.NtStatus {
	return erref.NtStatus(wire.PacketCodec(pkt).Status())
}
