package smb2

import "context"

// Transport is the byte-stream framing collaborator: a Direct TCP
// (4-byte big-endian length prefix, port 445) or NetBIOS byte stream.
// The engine never parses bytes itself past this boundary.
type Transport interface {
	Connect(ctx context.Context, endpoint string) error
	Disconnect() error
	IsConnected() bool

	// Write serializes pkt with the transport's framing and flushes it.
	Write(pkt []byte) error

	// Run delivers decoded inbound frames to handle and transport-level
	// errors to handleError until the transport is disconnected or
	// encounters a fatal read error. It is invoked on a dedicated
	// goroutine by ConnectionLifecycle.connect.
	Run(handle func(pkt []byte), handleError func(err error))
}
