// Package views provides the individual views for the TUI.
package views

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/emoreflect/internal/classifier"
	"github.com/f3rmion/emoreflect/internal/clipboard"
	"github.com/f3rmion/emoreflect/internal/emotion"
	"github.com/f3rmion/emoreflect/internal/tui/components"
	"go.uber.org/zap"
)

// Styles (kept local to avoid an import cycle with the tui package)
var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4f46e5"))

	taglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280"))

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f1faee"))

	descriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#9ca3af")).
				Italic(true)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#4f46e5")).
			Padding(0, 2)

	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#9ca3af")).
				Background(lipgloss.Color("#374151")).
				Padding(0, 2)

	buttonOutlineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e5e7eb")).
				Border(lipgloss.NormalBorder(), false, true).
				BorderForeground(lipgloss.Color("#6b7280")).
				Padding(0, 1)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d")).
			Bold(true).
			Italic(true)

	copiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8e6cf")).
			Bold(true)
)

const (
	reflectionPlaceholder = "e.g., I feel nervous about my first job interview..."
	minFormWidth          = 40
	maxFormWidth          = 72
)

// Phase is the form's state. Exactly one is active at a time.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseError
	PhaseResult
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseResult:
		return "result"
	default:
		return "unknown"
	}
}

// A submission ends in exactly one of these two messages.
type analysisSucceededMsg struct {
	result emotion.Result
}

type analysisFailedMsg struct {
	err error
}

type clearCopiedMsg struct{}

func clearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

// AnalyzerKeyMap holds the form's key bindings.
type AnalyzerKeyMap struct {
	Submit key.Binding
	Reset  key.Binding
	Copy   key.Binding
}

// DefaultAnalyzerKeys are the bindings used by NewAnalyzerModel.
var DefaultAnalyzerKeys = AnalyzerKeyMap{
	Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "analyze")),
	Reset:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
	Copy:   key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy result")),
}

// AnalyzerModel is the reflection form. It owns the reflection text, the
// single outstanding request and whichever of result or error came back.
type AnalyzerModel struct {
	input   textarea.Model
	spinner spinner.Model
	help    help.Model
	keys    AnalyzerKeyMap

	analyzer classifier.Analyzer
	logger   *zap.Logger
	copyFn   func(string) error

	phase  Phase
	result *emotion.Result
	errMsg string // banner text; in PhaseIdle it is the inline validation error

	copied bool

	width  int
	height int
}

// NewAnalyzerModel creates the form backed by analyzer.
func NewAnalyzerModel(analyzer classifier.Analyzer, logger *zap.Logger) AnalyzerModel {
	if logger == nil {
		logger = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = reflectionPlaceholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(minFormWidth)
	ta.SetHeight(5)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	return AnalyzerModel{
		input:    ta,
		spinner:  sp,
		help:     help.New(),
		keys:     DefaultAnalyzerKeys,
		analyzer: analyzer,
		logger:   logger,
		copyFn:   clipboard.Write,
		phase:    PhaseIdle,
	}
}

// SetSize updates the view dimensions.
func (m *AnalyzerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(m.formWidth() - 2)
}

func (m AnalyzerModel) formWidth() int {
	w := m.width - 4
	if w < minFormWidth {
		w = minFormWidth
	}
	if w > maxFormWidth {
		w = maxFormWidth
	}
	return w
}

// Phase returns the active state.
func (m AnalyzerModel) Phase() Phase {
	return m.phase
}

// Result returns the last result, if the form is showing one.
func (m AnalyzerModel) Result() (emotion.Result, bool) {
	if m.result == nil {
		return emotion.Result{}, false
	}
	return *m.result, true
}

// Err returns the error banner text, or "" when none is shown.
func (m AnalyzerModel) Err() string {
	return m.errMsg
}

// Reflection returns the text currently typed.
func (m AnalyzerModel) Reflection() string {
	return m.input.Value()
}

// CanSubmit reports whether the analyze control is enabled.
func (m AnalyzerModel) CanSubmit() bool {
	return m.phase != PhaseLoading && strings.TrimSpace(m.input.Value()) != ""
}

// CanReset reports whether the reset control is shown and enabled.
func (m AnalyzerModel) CanReset() bool {
	return m.phase != PhaseLoading && (m.result != nil || m.errMsg != "")
}

// Init starts the cursor blinking.
func (m AnalyzerModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages.
func (m AnalyzerModel) Update(msg tea.Msg) (AnalyzerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Input and controls are disabled while a request is in flight.
		if m.phase == PhaseLoading {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m, m.Submit()
		case key.Matches(msg, m.keys.Reset):
			if m.CanReset() {
				m.Reset()
			}
			return m, nil
		case key.Matches(msg, m.keys.Copy):
			return m, m.copyResult()
		}

	case analysisSucceededMsg:
		if m.phase != PhaseLoading {
			return m, nil
		}
		r := msg.result
		m.result = &r
		m.errMsg = ""
		m.phase = PhaseResult
		return m, m.input.Focus()

	case analysisFailedMsg:
		if m.phase != PhaseLoading {
			return m, nil
		}
		m.result = nil
		m.errMsg = classifier.Message(msg.err)
		m.phase = PhaseError
		return m, m.input.Focus()

	case spinner.TickMsg:
		if m.phase != PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clearCopiedMsg:
		m.copied = false
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Submit validates the reflection and, if it is not blank, enters
// PhaseLoading and returns the command that performs the request.
// Blank input sets the validation error and returns nil.
func (m *AnalyzerModel) Submit() tea.Cmd {
	if m.phase == PhaseLoading {
		return nil
	}

	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		m.result = nil
		m.errMsg = classifier.Message(classifier.ErrEmptyReflection)
		m.phase = PhaseIdle
		return nil
	}

	m.result = nil
	m.errMsg = ""
	m.copied = false
	m.phase = PhaseLoading
	m.input.Blur()

	return tea.Batch(m.spinner.Tick, analyzeCmd(m.analyzer, text))
}

// Reset clears the text, result and error and returns to PhaseIdle.
// It does nothing while loading.
func (m *AnalyzerModel) Reset() {
	if m.phase == PhaseLoading {
		return
	}
	m.input.Reset()
	m.result = nil
	m.errMsg = ""
	m.copied = false
	m.phase = PhaseIdle
	m.input.Focus()
}

func (m *AnalyzerModel) copyResult() tea.Cmd {
	if m.result == nil {
		return nil
	}
	if err := m.copyFn(m.result.String()); err != nil {
		m.logger.Warn("copy to clipboard failed", zap.Error(err))
		return nil
	}
	m.copied = true
	return clearCopiedAfter(2 * time.Second)
}

func analyzeCmd(a classifier.Analyzer, text string) tea.Cmd {
	return func() tea.Msg {
		result, err := a.Analyze(context.Background(), text)
		if err != nil {
			return analysisFailedMsg{err: err}
		}
		return analysisSucceededMsg{result: result}
	}
}

// View renders the form.
func (m AnalyzerModel) View() string {
	var b strings.Builder
	width := m.formWidth()

	b.WriteString(headingStyle.Render("Emotion Analyzer"))
	b.WriteString("\n")
	b.WriteString(taglineStyle.Render("Share your thoughts and discover the emotions behind them"))
	b.WriteString("\n\n")

	b.WriteString(cardTitleStyle.Render("How are you feeling?"))
	b.WriteString("\n")
	b.WriteString(descriptionStyle.Render("Write a short reflection about your current thoughts or situation"))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	b.WriteString(m.renderControls())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(components.ErrorBanner(m.errMsg, width))
		b.WriteString("\n")
	}

	if m.result != nil {
		b.WriteString("\n")
		b.WriteString(components.ResultCard(*m.result, width))
		b.WriteString("\n")
		if m.copied {
			b.WriteString(copiedStyle.Render("Copied!"))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.activeBindings()))

	return b.String()
}

func (m AnalyzerModel) renderControls() string {
	var submit string
	switch {
	case m.phase == PhaseLoading:
		submit = buttonDisabledStyle.Render(m.spinner.View() + " Analyzing...")
	case m.CanSubmit():
		submit = buttonStyle.Render("Analyze Emotion")
	default:
		submit = buttonDisabledStyle.Render("Analyze Emotion")
	}

	if !m.CanReset() {
		return submit
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, submit, "  ", buttonOutlineStyle.Render("Reset"))
}

func (m AnalyzerModel) activeBindings() []key.Binding {
	if m.phase == PhaseLoading {
		return nil
	}
	bindings := []key.Binding{m.keys.Submit}
	if m.CanReset() {
		bindings = append(bindings, m.keys.Reset)
	}
	if m.result != nil {
		bindings = append(bindings, m.keys.Copy)
	}
	return bindings
}
