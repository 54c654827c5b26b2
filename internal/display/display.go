// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a persistent status bar (language, mode, buffer
// size, listening indicator) and an input prompt at the bottom of the
// terminal. All application output is printed above the rendered area via
// Program.Println / Printf, so concurrent writes never garble the display.
package display

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/ottocode/internal/domain"
)

// Compile-time interface check.
var _ domain.Display = (*UI)(nil)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	listeningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// BannerStyle is the muted slate used for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	codeHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	codeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8")).
			Background(lipgloss.Color("#18181b"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

const promptText = "code> "

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI], [UI.Attach] then [UI.Run] (blocking). Other goroutines
// may safely call the print helpers and read from [UI.InputChan] at any
// time after [UI.WaitReady] returns.
type UI struct {
	program   *tea.Program
	inputCh   chan string
	readyCh   chan struct{}
	quitCh    chan struct{}
	store     domain.SessionStore
	sessionID string
	done      atomic.Bool
}

// NewUI creates the display. Call Run() to start.
func NewUI(store domain.SessionStore) *UI {
	return &UI{
		store:   store,
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Attach selects the session shown in the status bar. Call before Run.
func (u *UI) Attach(sessionID string) { u.sessionID = sessionID }

// Println prints a line above the prompt. Thread-safe. Before the program
// starts (or after it exits) it falls back to fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt on its own line.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── domain.Display ───────────────────────────────────────────────

// ShowCode prints a code block under a language header.
func (u *UI) ShowCode(language, code string) {
	u.Println(renderCode(language, code))
}

// Info prints an assistant message.
func (u *UI) Info(message string) {
	for _, l := range strings.Split(message, "\n") {
		u.Println(chatStyle.Render("  " + l))
	}
}

// Warn prints a warning.
func (u *UI) Warn(message string) {
	u.Println(warnStyle.Render("  " + message))
}

// Error prints an error.
func (u *UI) Error(message string) {
	u.Println(urgentOutputStyle.Render("  " + message))
}

// ── Styled print helpers ─────────────────────────────────────────

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("code") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

func renderCode(language, code string) string {
	var b strings.Builder
	b.WriteString(codeHeaderStyle.Render("  ── " + language + " ──"))
	for _, l := range strings.Split(code, "\n") {
		b.WriteByte('\n')
		b.WriteString("  " + codeStyle.Render(" "+l+" "))
	}
	return b.String()
}

// WaitReady blocks until the Bubble Tea event loop is running. It returns
// false if Run returned first.
func (u *UI) WaitReady() bool {
	select {
	case <-u.readyCh:
		return true
	case <-u.quitCh:
		return false
	}
}

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	ti := textinput.New()
	// Plain-text prompt: lipgloss-styled prompts add ANSI bytes that break
	// textinput's width math.
	ti.Prompt = promptText
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 60 // updated on first WindowSizeMsg

	m := model{
		store:     u.store,
		sessionID: u.sessionID,
		input:     ti,
		inputCh:   u.inputCh,
		readyCh:   u.readyCh,
		echoFn:    u.PrintUserInput,
	}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	store     domain.SessionStore
	sessionID string
	input     textinput.Model
	inputCh   chan<- string
	readyCh   chan struct{}
	echoFn    func(string)
	status    status
	width     int
}

// status is the snapshot shown in the bar.
type status struct {
	language  string
	mode      domain.Mode
	lines     int
	listening bool
}

type tickMsg time.Time

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			// Empty lines are forwarded too: they are blank code lines in
			// annotate/explain mode.
			m.inputCh <- v
			if strings.TrimSpace(v) == "" {
				return m, nil
			}
			echoFn := m.echoFn
			return m, func() tea.Msg {
				echoFn(v)
				return nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(promptText) {
			m.input.Width = msg.Width - len(promptText)
		}
		return m, nil

	case tickMsg:
		m.refreshStatus()
		return m, tea.Batch(tickCmd(), tea.SetWindowTitle(m.titleStr()))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) refreshStatus() {
	s, err := m.store.Load(context.Background(), m.sessionID)
	if err != nil {
		return
	}
	m.status = status{
		language:  s.Language,
		mode:      s.Mode,
		lines:     len(s.Input),
		listening: s.Listening,
	}
}

func (m model) titleStr() string {
	if m.status.listening {
		return "OttoCode — listening…"
	}
	if m.status.language == "" {
		return "OttoCode"
	}
	return "OttoCode — " + m.status.language + " / " + m.status.mode.String()
}

func (m model) View() string {
	var b strings.Builder
	if m.status.language != "" {
		b.WriteString(m.renderBar())
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

func (m model) renderBar() string {
	parts := []string{
		labelStyle.Render("lang: ") + valueStyle.Render(m.status.language),
		labelStyle.Render("mode: ") + valueStyle.Render(m.status.mode.String()),
	}
	if m.status.lines > 0 {
		parts = append(parts, labelStyle.Render("buffer: ")+valueStyle.Render(fmt.Sprintf("%d lines", m.status.lines)))
	}
	if m.status.listening {
		parts = append(parts, listeningStyle.Render("● listening…"))
	}

	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "

	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(content)
}
