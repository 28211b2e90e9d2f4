package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"termdate/internal/store"
)

func newTestSession(t *testing.T) (*store.Store, *Session, int64, int64) {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	alice, err := st.CreateUser(store.NewUserParams{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)
	bob, err := st.CreateUser(store.NewUserParams{Username: "bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)

	sess, err := New(st, alice)
	require.NoError(t, err)
	return st, sess, alice, bob
}

func TestNewSessionStartsOnOwnProfile(t *testing.T) {
	_, sess, alice, _ := newTestSession(t)
	require.Equal(t, ViewOwnProfile, sess.View())
	require.Equal(t, alice, sess.ViewingID())
	require.Zero(t, sess.ConversationID())
}

func TestNewSessionUnknownUser(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	_, err = New(st, 42)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAdvanceNeverShowsSelf(t *testing.T) {
	_, sess, alice, bob := newTestSession(t)

	require.NoError(t, sess.Apply(InputRight))
	require.Equal(t, ViewOtherProfile, sess.View())
	require.Equal(t, bob, sess.ViewingID())
	require.NotEqual(t, alice, sess.ViewingID())
}

func TestAdvanceExhausted(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	alice, err := st.CreateUser(store.NewUserParams{Username: "alice", Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)
	sess, err := New(st, alice)
	require.NoError(t, err)

	err = sess.Apply(InputRight)
	require.ErrorIs(t, err, store.ErrExhausted)
	// The session stays usable on its own profile.
	require.Equal(t, ViewOwnProfile, sess.View())
}

func TestInteractAndAdvanceRecordsSeen(t *testing.T) {
	st, sess, alice, bob := newTestSession(t)

	require.NoError(t, sess.Apply(InputRight)) // browse to bob
	// Like bob, then advance; with nobody left the session falls back to
	// the own-profile view instead of erroring.
	require.NoError(t, sess.Apply(InputDown))
	require.Equal(t, ViewOwnProfile, sess.View())

	seen, err := st.SeenIDs(alice)
	require.NoError(t, err)
	require.Equal(t, []int64{bob}, seen)
}

func TestSeenSurvivesSessionRestart(t *testing.T) {
	st, sess, alice, _ := newTestSession(t)

	require.NoError(t, sess.Apply(InputRight))
	_ = sess.Apply(InputDown) // exhausts after the like

	// A fresh session must not resurface already-acted-on profiles.
	sess2, err := New(st, alice)
	require.NoError(t, err)
	err = sess2.Apply(InputRight)
	require.ErrorIs(t, err, store.ErrExhausted)
}

func TestOpenChatFromOtherProfile(t *testing.T) {
	st, sess, alice, bob := newTestSession(t)

	require.NoError(t, sess.Apply(InputRight)) // view bob
	require.NoError(t, sess.Apply(InputUp))    // open chat
	require.Equal(t, ViewChat, sess.View())
	require.NotZero(t, sess.ConversationID())

	// The conversation is the canonical pair's.
	convID, err := st.GetOrCreateConversation(bob, alice)
	require.NoError(t, err)
	require.Equal(t, convID, sess.ConversationID())
}

func TestChatWithMatchRequiresMatch(t *testing.T) {
	st, sess, alice, bob := newTestSession(t)

	err := sess.Apply(InputLeft)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Equal(t, ViewOwnProfile, sess.View())

	require.NoError(t, st.RecordInteraction(alice, bob, store.MatchLike))
	require.NoError(t, st.RecordInteraction(bob, alice, store.MatchLike))

	require.NoError(t, sess.Apply(InputLeft))
	require.Equal(t, ViewChat, sess.View())
	require.Equal(t, bob, sess.ViewingID())
}

func TestSendMessageScopedToSession(t *testing.T) {
	st, sess, alice, _ := newTestSession(t)

	// No open conversation: rejected.
	_, err := sess.SendMessage("hi")
	require.ErrorIs(t, err, store.ErrValidation)

	require.NoError(t, sess.Apply(InputRight))
	require.NoError(t, sess.Apply(InputUp))

	_, err = sess.SendMessage("Hey there!")
	require.NoError(t, err)

	msgs, err := st.ListMessages(sess.ConversationID(), 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	// The sender is always the authenticated user.
	require.Equal(t, alice, msgs[0].SenderID)
}

func TestEditScopedToOwnProfile(t *testing.T) {
	st, sess, alice, bob := newTestSession(t)

	// Even while viewing bob, edits land on alice.
	require.NoError(t, sess.Apply(InputRight))
	upd := (&store.ProfileUpdate{}).Set(store.FieldBio, "hello")
	require.NoError(t, sess.EditOwnProfile(upd))

	me, err := st.GetProfile(alice)
	require.NoError(t, err)
	require.Equal(t, "hello", me.Bio)

	other, err := st.GetProfile(bob)
	require.NoError(t, err)
	require.Empty(t, other.Bio)
}

func TestEditViewTransitions(t *testing.T) {
	_, sess, _, _ := newTestSession(t)

	require.NoError(t, sess.Apply(InputUp))
	require.Equal(t, ViewEdit, sess.View())
	require.NoError(t, sess.Apply(InputLeft))
	require.Equal(t, ViewOwnProfile, sess.View())
}

func TestReturnToSelfClosesChat(t *testing.T) {
	_, sess, alice, _ := newTestSession(t)

	require.NoError(t, sess.Apply(InputRight))
	require.NoError(t, sess.Apply(InputUp)) // chat with bob
	require.NoError(t, sess.Apply(InputLeft))
	require.Equal(t, ViewOtherProfile, sess.View())
	require.Zero(t, sess.ConversationID())

	require.NoError(t, sess.Apply(InputLeft)) // back to self
	require.Equal(t, ViewOwnProfile, sess.View())
	require.Equal(t, alice, sess.ViewingID())
}

func TestQuitFromAnywhere(t *testing.T) {
	for _, setup := range []Input{InputRight, InputUp} {
		_, sess, _, _ := newTestSession(t)
		require.NoError(t, sess.Apply(setup))
		require.NoError(t, sess.Apply(InputQuit))
		require.Equal(t, ViewQuit, sess.View())
	}
}

func TestSubmitAnswerRequiresConversation(t *testing.T) {
	st, sess, _, _ := newTestSession(t)
	ch, err := st.AddChallenge("t", "a", "b")
	require.NoError(t, err)

	err = sess.SubmitAnswer(ch, store.RoleA, "func F() {}")
	require.ErrorIs(t, err, store.ErrValidation)

	require.NoError(t, sess.Apply(InputRight))
	require.NoError(t, sess.Apply(InputUp))
	require.NoError(t, sess.SubmitAnswer(ch, store.RoleA, "func F() {}"))
}

func TestOperationFailureKeepsSessionUsable(t *testing.T) {
	_, sess, _, _ := newTestSession(t)

	// A failed transition (no matches yet) must not wedge navigation.
	err := sess.Apply(InputLeft)
	require.Error(t, err)

	require.NoError(t, sess.Apply(InputRight))
	require.Equal(t, ViewOtherProfile, sess.View())

	require.NoError(t, sess.Apply(InputQuit))
}
