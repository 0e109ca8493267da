package erref

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNtStatusString(t *testing.T) {
	assert.Equal(t, "STATUS_SUCCESS", STATUS_SUCCESS.String())
	assert.Equal(t, "STATUS_PENDING", STATUS_PENDING.String())
	assert.Contains(t, NtStatus(0x12345678).String(), "0x12345678")
}

func TestTransportErrorUnwraps(t *testing.T) {
	inner := errors.New("read failed")
	e := &TransportError{Err: inner}

	assert.ErrorIs(t, e, inner)
	assert.Contains(t, e.Error(), "read failed")
}

func TestContextErrorUnwraps(t *testing.T) {
	inner := errors.New("deadline exceeded")
	e := &ContextError{Err: inner}
	assert.ErrorIs(t, e, inner)
}

func TestAuthenticationErrorMessage(t *testing.T) {
	withStatus := &AuthenticationError{Status: STATUS_LOGON_FAILURE}
	assert.Contains(t, withStatus.Error(), "STATUS_LOGON_FAILURE")

	withMsg := &AuthenticationError{Msg: "no matching mechanism"}
	assert.Contains(t, withMsg.Error(), "no matching mechanism")
}

func TestResponseErrorMessage(t *testing.T) {
	e := &ResponseError{Status: STATUS_ACCESS_DENIED}
	assert.Contains(t, e.Error(), "STATUS_ACCESS_DENIED")
}
