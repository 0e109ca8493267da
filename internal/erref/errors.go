// Package erref holds the NTSTATUS vocabulary and the engine's typed
// errors. It has no dependency on the wire codec or transport so it can be
// imported from either side.
package erref

import "fmt"

// NtStatus is a 32-bit NT status code as carried in the SMB2 header.
type NtStatus uint32

const (
	STATUS_SUCCESS                     NtStatus = 0x00000000
	STATUS_PENDING                     NtStatus = 0x00000103
	STATUS_MORE_PROCESSING_REQUIRED    NtStatus = 0xC0000016
	STATUS_NETWORK_SESSION_EXPIRED     NtStatus = 0xC000035C
	STATUS_LOGON_FAILURE               NtStatus = 0xC000006D
	STATUS_ACCESS_DENIED               NtStatus = 0xC0000022
	STATUS_USER_SESSION_DELETED        NtStatus = 0xC0000203
	STATUS_INVALID_PARAMETER           NtStatus = 0xC000000D
)

func (s NtStatus) String() string {
	switch s {
	case STATUS_SUCCESS:
		return "STATUS_SUCCESS"
	case STATUS_PENDING:
		return "STATUS_PENDING"
	case STATUS_MORE_PROCESSING_REQUIRED:
		return "STATUS_MORE_PROCESSING_REQUIRED"
	case STATUS_NETWORK_SESSION_EXPIRED:
		return "STATUS_NETWORK_SESSION_EXPIRED"
	case STATUS_LOGON_FAILURE:
		return "STATUS_LOGON_FAILURE"
	case STATUS_ACCESS_DENIED:
		return "STATUS_ACCESS_DENIED"
	case STATUS_USER_SESSION_DELETED:
		return "STATUS_USER_SESSION_DELETED"
	default:
		return fmt.Sprintf("NTSTATUS(0x%08X)", uint32(s))
	}
}

// TransportError wraps a failure from the Transport collaborator: I/O,
// decode, unknown-MessageId, or a signing-policy violation. It is always
// fatal to the Connection.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "smb2: transport error: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// InvalidResponseError reports a response that does not match what the
// protocol driver (negotiate, authenticate) expected.
type InvalidResponseError struct {
	Msg string
}

func (e *InvalidResponseError) Error() string { return "smb2: invalid response: " + e.Msg }

// ContextError wraps a context cancellation/deadline observed while
// waiting on a send or a response.
type ContextError struct {
	Err error
}

func (e *ContextError) Error() string { return "smb2: " + e.Err.Error() }
func (e *ContextError) Unwrap() error { return e.Err }

// InternalError reports a failure local to the client (RNG, cipher setup)
// that is not attributable to the server or network.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string { return "smb2: internal error: " + e.Msg }

// AuthenticationError reports a SESSION_SETUP exchange that terminated
// without producing a usable session: no authenticator matched the
// server's mechanism list, or the server returned a status other than
// STATUS_MORE_PROCESSING_REQUIRED / STATUS_SUCCESS.
type AuthenticationError struct {
	Status NtStatus
	Msg    string
}

func (e *AuthenticationError) Error() string {
	if e.Status == 0 && e.Msg != "" {
		return "smb2: authentication failed: " + e.Msg
	}
	return "smb2: authentication failed: " + e.Status.String()
}

// ResponseError reports a non-success NTSTATUS on an otherwise
// well-formed, completed response. The engine itself never raises this —
// it hands the packet back to the caller, who decides what a given
// status means for their command.
type ResponseError struct {
	Status NtStatus
}

func (e *ResponseError) Error() string { return "smb2: server returned " + e.Status.String() }
