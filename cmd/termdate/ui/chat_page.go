package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"termdate/internal/session"
	"termdate/internal/store"
)

// chatPage renders the two-party conversation view: history in a viewport,
// a text input below it. The /challenge command starts the coding flow.
type chatPage struct {
	styles  Styles
	history viewport.Model
	input   textinput.Model
	limit   int

	userID   int64
	partner  string
	messages []store.Message
}

func newChatPage(styles Styles, limit int) chatPage {
	if limit <= 0 {
		limit = 100
	}
	input := textinput.New()
	input.Placeholder = "message (or /challenge)"
	input.CharLimit = 500
	return chatPage{
		styles:  styles,
		history: viewport.New(80, 20),
		input:   input,
		limit:   limit,
	}
}

func (c *chatPage) resize(width, height int) {
	if width > 4 {
		c.history.Width = width - 4
		c.input.Width = width - 8
	}
	if height > 6 {
		c.history.Height = height - 6
	}
}

// load pulls the conversation history and focuses the input.
func (c *chatPage) load(st *store.Store, sess *session.Session) tea.Cmd {
	c.userID = sess.UserID()

	if partner, err := st.GetProfile(sess.ViewingID()); err == nil {
		c.partner = partner.Username
	}
	msgs, err := st.ListMessages(sess.ConversationID(), c.limit)
	if err == nil {
		c.messages = msgs
	}
	c.renderHistory()
	c.input.Focus()
	return textinput.Blink
}

func (c *chatPage) renderHistory() {
	var b strings.Builder
	for _, m := range c.messages {
		line := fmt.Sprintf("[%s] %s", m.SentAt.Format("15:04"), m.Text)
		if m.SenderID == c.userID {
			b.WriteString(c.styles.MsgMine.Render("you> "+line) + "\n")
		} else {
			b.WriteString(c.styles.MsgTheirs.Render(c.partner+"> "+line) + "\n")
		}
	}
	c.history.SetContent(b.String())
	c.history.GotoBottom()
}

// updateChat handles chat keys: enter sends (or starts a challenge), esc
// returns to the profile view.
func (a *App) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		a.chat.history, cmd = a.chat.history.Update(msg)
		return a, cmd
	}

	switch key.String() {
	case "esc":
		return a.apply(session.InputLeft)
	case "enter":
		text := strings.TrimSpace(a.chat.input.Value())
		a.chat.input.SetValue("")
		if text == "" {
			return a, nil
		}
		if text == "/challenge" {
			return a.startChallenge()
		}
		if _, err := a.sess.SendMessage(text); err != nil {
			a.fail(err)
			return a, nil
		}
		a.errLine = ""
		return a, a.chat.load(a.st, a.sess)
	}

	var cmd tea.Cmd
	a.chat.input, cmd = a.chat.input.Update(msg)
	return a, cmd
}

func (c *chatPage) view() string {
	s := c.styles
	header := s.Header.Render("chat with " + c.partner)
	hint := s.Hint.Render("enter send   /challenge start a coding challenge   esc back")
	return header + "\n" + c.history.View() + "\n" + c.input.View() + "\n" + hint
}
