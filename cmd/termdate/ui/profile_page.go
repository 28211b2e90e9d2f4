package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"termdate/internal/session"
	"termdate/internal/store"
)

// editField indexes the profile edit inputs.
const (
	editBio = iota
	editLink
	editFont
	editLocation
	editAge
	editFieldCount
)

// profilePage renders the browse card and the self-edit form.
type profilePage struct {
	styles Styles

	user      *store.User
	mutual    bool
	exhausted bool

	inputs    []textinput.Model
	focusIdx  int
	editError string
}

func newProfilePage(styles Styles) profilePage {
	inputs := make([]textinput.Model, editFieldCount)
	labels := []string{"Bio", "Profile link", "Name font", "Location", "Age"}
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.CharLimit = 200
		inputs[i] = ti
	}
	return profilePage{styles: styles, inputs: inputs}
}

// load refreshes the displayed profile from the store.
func (p *profilePage) load(st *store.Store, sess *session.Session) tea.Cmd {
	u, err := st.GetProfile(sess.ViewingID())
	if err != nil {
		p.user = nil
		return nil
	}
	p.user = u
	p.exhausted = false
	if sess.ViewingID() != sess.UserID() {
		p.mutual, _ = st.IsMutualMatch(sess.UserID(), sess.ViewingID())
	}
	return nil
}

// loadEdit seeds the edit form from the logged-in user's profile.
func (p *profilePage) loadEdit(st *store.Store, sess *session.Session) tea.Cmd {
	u, err := st.GetProfile(sess.UserID())
	if err != nil {
		return nil
	}
	p.user = u
	p.inputs[editBio].SetValue(u.Bio)
	p.inputs[editLink].SetValue(u.ProfileLink)
	p.inputs[editFont].SetValue(u.NameFont)
	p.inputs[editLocation].SetValue(u.Location)
	if u.Age > 0 {
		p.inputs[editAge].SetValue(strconv.Itoa(u.Age))
	}
	p.focusIdx = 0
	p.editError = ""
	p.inputs[0].Focus()
	return textinput.Blink
}

// update (edit form) cycles focus with tab, saves on enter, cancels on esc.
func (a *App) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	p := &a.profile
	switch key.String() {
	case "esc":
		return a.apply(session.InputLeft)
	case "tab", "shift+tab", "down", "up":
		p.inputs[p.focusIdx].Blur()
		if key.String() == "shift+tab" || key.String() == "up" {
			p.focusIdx = (p.focusIdx + editFieldCount - 1) % editFieldCount
		} else {
			p.focusIdx = (p.focusIdx + 1) % editFieldCount
		}
		p.inputs[p.focusIdx].Focus()
		return a, textinput.Blink
	case "enter":
		upd := &store.ProfileUpdate{}
		upd.Set(store.FieldBio, p.inputs[editBio].Value())
		upd.Set(store.FieldProfileLink, p.inputs[editLink].Value())
		upd.Set(store.FieldNameFont, p.inputs[editFont].Value())
		upd.Set(store.FieldLocation, p.inputs[editLocation].Value())
		if ageText := strings.TrimSpace(p.inputs[editAge].Value()); ageText != "" {
			age, err := strconv.Atoi(ageText)
			if err != nil {
				p.editError = "age must be a number"
				return a, nil
			}
			upd.Set(store.FieldAge, age)
		}
		if err := a.sess.EditOwnProfile(upd); err != nil {
			p.editError = err.Error()
			return a, nil
		}
		return a.apply(session.InputLeft)
	}

	var cmd tea.Cmd
	p.inputs[p.focusIdx], cmd = p.inputs[p.focusIdx].Update(msg)
	return a, cmd
}

// view renders the profile card.
func (p *profilePage) view(own bool) string {
	s := p.styles
	if p.user == nil {
		return s.Hint.Render("no profile to show")
	}

	var b strings.Builder
	b.WriteString(s.Title.Render(p.user.Username))
	b.WriteString("\n")
	if p.user.NameFont != "" {
		b.WriteString(s.Hint.Render(fmt.Sprintf("font: %s", p.user.NameFont)) + "\n")
	}
	b.WriteString("\n")

	row := func(label, value string) {
		if value != "" {
			b.WriteString(s.Label.Render(label+": ") + s.Value.Render(value) + "\n")
		}
	}
	row("Bio", p.user.Bio)
	row("Link", p.user.ProfileLink)
	row("Location", p.user.Location)
	if p.user.Age > 0 {
		row("Age", strconv.Itoa(p.user.Age))
	}
	if !own && p.mutual {
		b.WriteString("\n" + s.Unread.Render("It's a match!") + "\n")
	}
	if p.exhausted {
		b.WriteString("\n" + s.Hint.Render("no more profiles to browse") + "\n")
	}

	card := s.Card.Render(b.String())
	var hint string
	if own {
		hint = s.Hint.Render("← chat with a match   ↑ edit   → browse   ↓/q quit")
	} else {
		hint = s.Hint.Render("← my profile   ↑ chat   → pass   ↓ like   q quit")
	}
	return card + "\n" + hint
}

// editView renders the self-edit form.
func (p *profilePage) editView() string {
	s := p.styles
	var b strings.Builder
	b.WriteString(s.Header.Render("Edit profile") + "\n\n")
	for i := range p.inputs {
		b.WriteString(p.inputs[i].View() + "\n")
	}
	if p.editError != "" {
		b.WriteString("\n" + s.ErrorLine.Render(p.editError))
	}
	b.WriteString("\n" + s.Hint.Render("tab next field   enter save   esc cancel"))
	return s.Card.Render(b.String())
}
