// Package session tracks the authenticated user, the profile currently on
// screen, and the open conversation. Every mutating store call is scoped to
// the authenticated id held here; there is no path to act as another user.
package session

import (
	"errors"
	"fmt"

	"termdate/internal/store"
)

// View is what the terminal is currently showing.
type View int

const (
	ViewOwnProfile View = iota
	ViewOtherProfile
	ViewChat
	ViewEdit
	ViewQuit
)

func (v View) String() string {
	switch v {
	case ViewOwnProfile:
		return "own-profile"
	case ViewOtherProfile:
		return "other-profile"
	case ViewChat:
		return "chat"
	case ViewEdit:
		return "edit"
	case ViewQuit:
		return "quit"
	}
	return fmt.Sprintf("view(%d)", int(v))
}

// Input is one of the four directional selections plus the quit signal.
// Key bindings live in the UI layer.
type Input int

const (
	InputLeft Input = iota
	InputUp
	InputRight
	InputDown
	InputQuit
)

// Session is the navigation state for one logged-in user.
type Session struct {
	st *store.Store

	userID         int64
	viewingID      int64 // profile currently displayed
	conversationID int64 // 0 when no chat is open
	view           View
	seen           map[int64]bool
}

// New starts a session for the authenticated user, viewing their own profile.
func New(st *store.Store, userID int64) (*Session, error) {
	if _, err := st.GetProfile(userID); err != nil {
		return nil, fmt.Errorf("cannot start session: %w", err)
	}

	s := &Session{
		st:        st,
		userID:    userID,
		viewingID: userID,
		view:      ViewOwnProfile,
		seen:      make(map[int64]bool),
	}

	// Users already acted on stay out of the browse rotation.
	ids, err := st.SeenIDs(userID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		s.seen[id] = true
	}
	return s, nil
}

// UserID returns the authenticated user id.
func (s *Session) UserID() int64 { return s.userID }

// ViewingID returns the id of the profile on screen.
func (s *Session) ViewingID() int64 { return s.viewingID }

// ConversationID returns the open conversation id, or 0.
func (s *Session) ConversationID() int64 { return s.conversationID }

// View returns the current view.
func (s *Session) View() View { return s.view }

// Apply performs one navigation transition. From the own-profile view the
// slots are chat-with-a-match / edit / advance / quit; from another profile
// they are return-to-self / chat-with-this-user / pass-and-advance /
// like-and-advance. Store failures leave the session usable.
func (s *Session) Apply(input Input) error {
	if input == InputQuit {
		s.view = ViewQuit
		return nil
	}

	switch s.view {
	case ViewOwnProfile:
		switch input {
		case InputLeft:
			return s.openChatWithMatch()
		case InputUp:
			s.view = ViewEdit
			return nil
		case InputRight:
			return s.advance()
		case InputDown:
			s.view = ViewQuit
			return nil
		}
	case ViewOtherProfile:
		switch input {
		case InputLeft:
			return s.returnToSelf()
		case InputUp:
			return s.openChatWith(s.viewingID)
		case InputRight:
			return s.interactAndAdvance(store.MatchPass)
		case InputDown:
			return s.interactAndAdvance(store.MatchLike)
		}
	case ViewChat, ViewEdit:
		// Any directional input leaves the sub-view.
		if s.viewingID == s.userID {
			s.view = ViewOwnProfile
		} else {
			s.view = ViewOtherProfile
		}
		s.conversationID = 0
		return nil
	}
	return nil
}

// advance fetches the next unseen profile. ErrExhausted keeps the current
// view so the caller can show "no more profiles" without looping.
func (s *Session) advance() error {
	next, err := s.st.NextProfile(s.userID, s.seenList())
	if errors.Is(err, store.ErrExhausted) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to advance: %w", err)
	}
	s.viewingID = next.ID
	s.view = ViewOtherProfile
	return nil
}

// interactAndAdvance records a like/pass on the viewed profile, then advances.
func (s *Session) interactAndAdvance(kind store.MatchType) error {
	if err := s.st.RecordInteraction(s.userID, s.viewingID, kind); err != nil {
		return err
	}
	s.seen[s.viewingID] = true
	if err := s.advance(); err != nil {
		if errors.Is(err, store.ErrExhausted) {
			return s.returnToSelf()
		}
		return err
	}
	return nil
}

func (s *Session) returnToSelf() error {
	s.viewingID = s.userID
	s.view = ViewOwnProfile
	s.conversationID = 0
	return nil
}

// openChatWith opens (or creates) the conversation between the authenticated
// user and other, and marks incoming messages read.
func (s *Session) openChatWith(other int64) error {
	convID, err := s.st.GetOrCreateConversation(s.userID, other)
	if err != nil {
		return err
	}
	if err := s.st.MarkRead(convID, s.userID); err != nil {
		return err
	}
	s.conversationID = convID
	s.viewingID = other
	s.view = ViewChat
	return nil
}

// openChatWithMatch opens chat with the first mutual match, if any.
func (s *Session) openChatWithMatch() error {
	matches, err := s.st.MutualMatches(s.userID)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no matches yet: %w", store.ErrNotFound)
	}
	return s.openChatWith(matches[0])
}

// SendMessage appends a message to the open conversation as the authenticated
// user. It is the only way the session sends messages.
func (s *Session) SendMessage(text string) (int64, error) {
	if s.conversationID == 0 {
		return 0, fmt.Errorf("no open conversation: %w", store.ErrValidation)
	}
	id, _, err := s.st.AppendMessage(s.conversationID, s.userID, text)
	return id, err
}

// EditOwnProfile applies a partial update to the authenticated user's profile.
// Other profiles cannot be edited through a session.
func (s *Session) EditOwnProfile(upd *store.ProfileUpdate) error {
	return s.st.UpdateProfile(s.userID, upd)
}

// SubmitAnswer records the authenticated user's challenge submission for the
// open conversation.
func (s *Session) SubmitAnswer(challengeID int64, role store.Role, code string) error {
	if s.conversationID == 0 {
		return fmt.Errorf("no open conversation: %w", store.ErrValidation)
	}
	return s.st.SubmitAnswer(challengeID, s.conversationID, s.userID, role, code)
}

func (s *Session) seenList() []int64 {
	ids := make([]int64, 0, len(s.seen))
	for id := range s.seen {
		ids = append(ids, id)
	}
	return ids
}
