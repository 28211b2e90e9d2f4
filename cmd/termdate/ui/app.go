package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"termdate/internal/config"
	"termdate/internal/executor"
	"termdate/internal/session"
	"termdate/internal/store"
)

// tickMsg advances the challenge countdown.
type tickMsg struct{}

// execDoneMsg carries the executor result back onto the UI loop.
type execDoneMsg struct {
	result executor.Result
}

// App is the top-level bubbletea model. It owns the session and delegates
// rendering to the page for the session's current view.
type App struct {
	styles Styles
	log    *zap.Logger
	cfg    *config.Config

	st   *store.Store
	sess *session.Session
	exec *executor.Executor

	width   int
	height  int
	errLine string

	profile   profilePage
	chat      chatPage
	challenge challengePage
}

// NewApp builds the interactive application for an authenticated session.
func NewApp(cfg *config.Config, st *store.Store, sess *session.Session, log *zap.Logger) *App {
	styles := DefaultStyles(ThemeByName(cfg.UI.Theme))
	app := &App{
		styles: styles,
		log:    log,
		cfg:    cfg,
		st:     st,
		sess:   sess,
		exec:   executor.New(cfg.ExecutorTimeout()),
	}
	app.profile = newProfilePage(styles)
	app.chat = newChatPage(styles, cfg.UI.MessageHistory)
	app.challenge = newChallengePage(styles, cfg.Executor.CountdownTicks)
	return app
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.profile.load(a.st, a.sess)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.chat.resize(msg.Width, msg.Height)
		a.challenge.resize(msg.Width, msg.Height)
		return a, nil

	case tickMsg:
		return a.updateCountdown()

	case execDoneMsg:
		return a.finishExecution(msg.result)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
	}

	if a.challenge.active() {
		return a.updateChallenge(msg)
	}

	switch a.sess.View() {
	case session.ViewChat:
		return a.updateChat(msg)
	case session.ViewEdit:
		return a.updateEdit(msg)
	default:
		return a.updateBrowse(msg)
	}
}

// View implements tea.Model.
func (a *App) View() string {
	var body string
	switch {
	case a.challenge.active():
		body = a.challenge.view()
	case a.sess.View() == session.ViewChat:
		body = a.chat.view()
	case a.sess.View() == session.ViewEdit:
		body = a.profile.editView()
	default:
		body = a.profile.view(a.sess.ViewingID() == a.sess.UserID())
	}
	if a.errLine != "" {
		body += "\n" + a.styles.ErrorLine.Render(a.errLine)
	}
	return body
}

// fail records a non-fatal operation failure. The loop keeps running.
func (a *App) fail(err error) {
	if err == nil {
		a.errLine = ""
		return
	}
	a.errLine = err.Error()
	a.log.Warn("operation failed", zap.Error(err))
}

// apply routes a directional input through the session and reloads the page
// state for whatever view it lands on.
func (a *App) apply(input session.Input) (tea.Model, tea.Cmd) {
	a.errLine = ""
	if err := a.sess.Apply(input); err != nil {
		if errors.Is(err, store.ErrExhausted) {
			a.profile.exhausted = true
			return a, nil
		}
		a.fail(err)
		return a, nil
	}
	if a.sess.View() == session.ViewQuit {
		return a, tea.Quit
	}

	switch a.sess.View() {
	case session.ViewChat:
		return a, a.chat.load(a.st, a.sess)
	case session.ViewEdit:
		return a, a.profile.loadEdit(a.st, a.sess)
	default:
		return a, a.profile.load(a.st, a.sess)
	}
}

// updateBrowse handles keys on the profile views. Arrow keys map to the four
// directional slots; q quits.
func (a *App) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch key.String() {
	case "left", "h":
		return a.apply(session.InputLeft)
	case "up", "k":
		return a.apply(session.InputUp)
	case "right", "l":
		return a.apply(session.InputRight)
	case "down", "j":
		return a.apply(session.InputDown)
	case "q", "esc":
		return a.apply(session.InputQuit)
	}
	return a, nil
}

// startChallenge picks a random challenge for the open conversation and shows
// this user's half of the prompt.
func (a *App) startChallenge() (tea.Model, tea.Cmd) {
	ch, err := a.st.PickRandomChallenge()
	if err != nil {
		a.fail(err)
		return a, nil
	}

	conv, err := a.st.GetConversation(a.sess.ConversationID())
	if err != nil {
		a.fail(err)
		return a, nil
	}

	// The lower-id participant takes role A. Deterministic, so both sides
	// agree without coordination.
	role := store.RoleB
	if a.sess.UserID() == conv.User1ID {
		role = store.RoleA
	}

	a.challenge.begin(ch, role)
	return a, nil
}

// submitChallenge stores this side's code and, when the pair is complete,
// starts the countdown.
func (a *App) submitChallenge() (tea.Model, tea.Cmd) {
	code := a.challenge.code()
	if err := a.sess.SubmitAnswer(a.challenge.challengeID(), a.challenge.role(), code); err != nil {
		a.fail(err)
		return a, nil
	}

	ansA, ansB, err := a.st.GetAnswerPair(a.challenge.challengeID(), a.sess.ConversationID())
	if errors.Is(err, store.ErrIncomplete) {
		a.challenge.waitForPartner()
		return a, nil
	}
	if err != nil {
		a.fail(err)
		return a, nil
	}

	if err := a.challenge.machine.StartCountdown(a.challenge.countdownTicks); err != nil {
		a.fail(err)
		return a, nil
	}
	a.challenge.pendingA = ansA.Code
	a.challenge.pendingB = ansB.Code
	a.challenge.phase = phaseCountdown
	return a, tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{} })
}

// updateCountdown advances the countdown machine one tick; at zero it launches
// the sandboxed execution off the UI loop.
func (a *App) updateCountdown() (tea.Model, tea.Cmd) {
	if a.challenge.machine.State() != executor.StateCountdown {
		return a, nil
	}
	done, err := a.challenge.machine.Tick()
	if err != nil {
		a.fail(err)
		return a, nil
	}
	if !done {
		return a, tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{} })
	}

	codeA, codeB := a.challenge.pendingA, a.challenge.pendingB
	exec := a.exec
	return a, func() tea.Msg {
		return execDoneMsg{result: exec.Run(context.Background(), codeA, codeB)}
	}
}

// finishExecution records the terminal outcome and shows it.
func (a *App) finishExecution(res executor.Result) (tea.Model, tea.Cmd) {
	if err := a.challenge.machine.Complete(res); err != nil {
		a.fail(err)
		return a, nil
	}
	reported, err := a.challenge.machine.Report()
	if err != nil {
		a.fail(err)
		return a, nil
	}
	a.log.Info("challenge executed",
		zap.String("run_id", reported.RunID),
		zap.String("outcome", string(reported.Outcome)),
		zap.Duration("duration", reported.Duration))
	a.challenge.showResult(reported)
	return a, nil
}
