package spnego

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapInitMechTypeListRoundTrip(t *testing.T) {
	token, err := WrapInit(KerberosOid, []byte("initial-token"))
	require.NoError(t, err)

	mechs, err := MechTypeList(token)
	require.NoError(t, err)

	require.Len(t, mechs, 1)
	assert.True(t, mechs[0].Equal(KerberosOid))
}

func TestMechTypeListEmptyTokenIsAcceptAny(t *testing.T) {
	mechs, err := MechTypeList(nil)
	require.NoError(t, err)
	assert.Nil(t, mechs)
}

func TestWrapRespUnwrapRespRoundTrip(t *testing.T) {
	want := []byte("ntlm-challenge-response")

	token, err := WrapResp(want)
	require.NoError(t, err)

	got, err := UnwrapResp(token)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestUnwrapRespRejectsGarbage(t *testing.T) {
	_, err := UnwrapResp([]byte{0x00, 0x01, 0x02})
	assert.Error(t, err)
}
