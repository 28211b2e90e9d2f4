package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"termdate/internal/executor"
	"termdate/internal/store"
)

// challengePhase is the page's presentation phase. Execution phases are owned
// by the executor state machine; this only tracks what is on screen.
type challengePhase int

const (
	phaseInactive challengePhase = iota
	phaseEditing
	phaseWaiting
	phaseCountdown
	phaseResult
)

// challengePage drives the collaborative coding challenge flow inside a chat.
type challengePage struct {
	styles  Styles
	machine *executor.Machine

	phase          challengePhase
	countdownTicks int

	current  *store.Challenge
	myRole   store.Role
	editor   textarea.Model
	pendingA string
	pendingB string
	result   executor.Result
}

func newChallengePage(styles Styles, countdownTicks int) challengePage {
	if countdownTicks <= 0 {
		countdownTicks = executor.DefaultCountdownTicks
	}
	editor := textarea.New()
	editor.Placeholder = "// your half of the challenge"
	editor.SetHeight(12)
	return challengePage{
		styles:         styles,
		machine:        executor.NewMachine(),
		countdownTicks: countdownTicks,
		editor:         editor,
	}
}

func (c *challengePage) active() bool {
	return c.phase != phaseInactive
}

func (c *challengePage) resize(width, height int) {
	if width > 8 {
		c.editor.SetWidth(width - 8)
	}
}

// begin shows this user's half of a freshly picked challenge.
func (c *challengePage) begin(ch *store.Challenge, role store.Role) {
	c.current = ch
	c.myRole = role
	c.editor.Reset()
	c.editor.Focus()
	c.phase = phaseEditing
}

func (c *challengePage) challengeID() int64 {
	if c.current == nil {
		return 0
	}
	return c.current.ID
}

func (c *challengePage) role() store.Role { return c.myRole }

func (c *challengePage) code() string { return c.editor.Value() }

// prompt returns the half of the challenge text for this user's role.
func (c *challengePage) prompt() string {
	if c.current == nil {
		return ""
	}
	if c.myRole == store.RoleA {
		return c.current.PartAPrompt
	}
	return c.current.PartBPrompt
}

func (c *challengePage) waitForPartner() {
	c.phase = phaseWaiting
}

func (c *challengePage) showResult(res executor.Result) {
	c.result = res
	c.phase = phaseResult
}

// close resets the page back to the chat view.
func (c *challengePage) close() {
	c.phase = phaseInactive
	c.current = nil
	c.pendingA = ""
	c.pendingB = ""
}

// updateChallenge handles keys while the challenge overlay is up.
func (a *App) updateChallenge(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	c := &a.challenge
	switch c.phase {
	case phaseEditing:
		switch key.String() {
		case "esc":
			c.close()
			return a, nil
		case "ctrl+d":
			return a.submitChallenge()
		}
		var cmd tea.Cmd
		c.editor, cmd = c.editor.Update(msg)
		return a, cmd

	case phaseWaiting, phaseResult:
		// Any key dismisses.
		c.close()
		return a, a.chat.load(a.st, a.sess)

	case phaseCountdown:
		// Countdown cannot be interrupted from the keyboard.
		return a, nil
	}
	return a, nil
}

func (c *challengePage) view() string {
	s := c.styles
	switch c.phase {
	case phaseEditing:
		var b strings.Builder
		b.WriteString(s.Title.Render("CODE CHALLENGE") + "\n")
		if c.current != nil {
			b.WriteString(s.Value.Render(c.current.Description) + "\n\n")
		}
		b.WriteString(s.Header.Render(fmt.Sprintf("your part (role %s):", strings.ToUpper(string(c.myRole)))) + "\n")
		b.WriteString(s.Value.Render(c.prompt()) + "\n\n")
		b.WriteString(c.editor.View() + "\n")
		b.WriteString(s.Hint.Render("ctrl+d submit   esc cancel"))
		return s.Card.Render(b.String())

	case phaseWaiting:
		return s.Card.Render(
			s.Header.Render("submission stored") + "\n\n" +
				s.Value.Render("waiting for your partner's half...") + "\n\n" +
				s.Hint.Render("press any key to return to chat"))

	case phaseCountdown:
		remaining := c.machine.TicksLeft()
		style := s.CountdownStyle(remaining)
		return s.Card.Render(
			s.Header.Render("STARTS IN") + "\n\n" +
				style.Render(fmt.Sprintf("   %d   ", remaining)))

	case phaseResult:
		var b strings.Builder
		switch c.result.Outcome {
		case executor.OutcomePass:
			b.WriteString(s.ResultPass.Render("PASSED — both halves ran together!") + "\n")
		case executor.OutcomeFail:
			b.WriteString(s.ResultFail.Render("FAILED — the combined code did not run") + "\n")
		case executor.OutcomeTimeout:
			b.WriteString(s.ResultFail.Render("TIMEOUT — execution exceeded the limit") + "\n")
		case executor.OutcomeInvalidSubmission:
			b.WriteString(s.ResultFail.Render("INVALID — a submission did not compile") + "\n")
		}
		if c.result.Output != "" {
			b.WriteString("\n" + s.Header.Render("output") + "\n" + s.Value.Render(c.result.Output))
		}
		if c.result.ErrText != "" {
			b.WriteString("\n" + s.Header.Render("errors") + "\n" + s.ErrorLine.Render(c.result.ErrText))
		}
		b.WriteString("\n\n" + s.Hint.Render("press any key to return to chat"))
		return s.Card.Render(b.String())
	}
	return ""
}
