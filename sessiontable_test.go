package smb2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTableRegisterLookupRemove(t *testing.T) {
	st := newSessionTableT()
	sess := &Session{SessionID: 42}

	_, found := st.Lookup(42)
	assert.False(t, found)

	st.Register(sess)
	got, found := st.Lookup(42)
	require.True(t, found)
	assert.Same(t, sess, got)

	st.Remove(42)
	_, found = st.Lookup(42)
	assert.False(t, found)
}

func TestSessionTableList(t *testing.T) {
	st := newSessionTableT()
	st.Register(&Session{SessionID: 1})
	st.Register(&Session{SessionID: 2})

	assert.Len(t, st.List(), 2)
}

// TestSessionPromotionInvariant checks that a session lives in exactly
// one of PreauthSessionTable/SessionTable between its first
// SESSION_SETUP response and either promotion or teardown.
func TestSessionPromotionInvariant(t *testing.T) {
	preauth := newPreauthSessionTable()
	table := newSessionTableT()
	sess := &Session{SessionID: 99}

	preauth.Register(sess)
	_, inPreauth := preauth.Lookup(99)
	_, inTable := table.Lookup(99)
	assert.True(t, inPreauth)
	assert.False(t, inTable)

	// promotion on STATUS_SUCCESS
	preauth.Remove(99)
	table.Register(sess)

	_, inPreauth = preauth.Lookup(99)
	_, inTable = table.Lookup(99)
	assert.False(t, inPreauth)
	assert.True(t, inTable)
}

func TestSessionMarkExpired(t *testing.T) {
	sess := &Session{SessionID: 1}
	assert.False(t, sess.Expired())
	sess.MarkExpired()
	assert.True(t, sess.Expired())
}
