package tui

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/emoreflect/internal/config"
	"github.com/f3rmion/emoreflect/internal/emotion"
	"github.com/f3rmion/emoreflect/internal/tui/views"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyzer struct {
	result emotion.Result
	calls  int
}

func (s *stubAnalyzer) Analyze(context.Context, string) (emotion.Result, error) {
	s.calls++
	return s.result, nil
}

func newTestApp(t *testing.T, a *stubAnalyzer) AppModel {
	t.Helper()
	app := NewApp(a, config.Default(t.TempDir()), t.TempDir(), nil)
	return send(app, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func send(m AppModel, msg tea.Msg) AppModel {
	next, _ := m.Update(msg)
	return next.(AppModel)
}

func sendCmd(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// deliver runs cmd and feeds the messages it yields back into m. Follow-up
// commands (spinner ticks, blinks) are dropped.
func deliver(m AppModel, cmd tea.Cmd) AppModel {
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = deliver(m, c)
		}
		return m
	}
	return send(m, msg)
}

func TestNewAppStartsOnForm(t *testing.T) {
	app := newTestApp(t, &stubAnalyzer{})
	assert.Equal(t, ViewAnalyze, app.CurrentView())
	assert.False(t, app.SidebarActive())
	assert.Contains(t, app.View(), "How are you feeling?")
}

func TestViewBeforeWindowSize(t *testing.T) {
	app := NewApp(&stubAnalyzer{}, nil, "", nil)
	assert.Equal(t, "Loading...", app.View())
}

func TestLetterKeysReachTheForm(t *testing.T) {
	app := newTestApp(t, &stubAnalyzer{})

	app = send(app, keyRunes("q?12"))

	assert.Equal(t, "q?12", app.Form().Reflection())
	assert.Equal(t, ViewAnalyze, app.CurrentView())
	assert.False(t, app.SidebarActive())
}

func TestSidebarNavigation(t *testing.T) {
	app := newTestApp(t, &stubAnalyzer{})

	app = send(app, tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, app.SidebarActive())

	app = send(app, keyRunes("j"))
	app = send(app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewSettings, app.CurrentView())
	assert.False(t, app.SidebarActive())
	assert.Contains(t, app.View(), "Configuration")

	app = send(app, tea.KeyMsg{Type: tea.KeyEsc})
	app = send(app, keyRunes("1"))
	assert.Equal(t, ViewAnalyze, app.CurrentView())
}

func TestEscFromSidebarQuits(t *testing.T) {
	app := newTestApp(t, &stubAnalyzer{})

	app, cmd := sendCmd(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	require.True(t, app.SidebarActive())

	_, cmd = sendCmd(app, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHelpOverlay(t *testing.T) {
	app := newTestApp(t, &stubAnalyzer{})

	app = send(app, tea.KeyMsg{Type: tea.KeyTab})
	app = send(app, keyRunes("?"))
	assert.Contains(t, app.View(), "Press any key to close")

	app = send(app, keyRunes("x"))
	assert.NotContains(t, app.View(), "Press any key to close")
}

func TestViewSwitchMsg(t *testing.T) {
	app := newTestApp(t, &stubAnalyzer{})
	app = send(app, ViewSwitchMsg{View: ViewSettings})
	assert.Equal(t, ViewSettings, app.CurrentView())
}

func TestAnalysisCompletesWhileOnOtherView(t *testing.T) {
	stub := &stubAnalyzer{result: emotion.Result{Emotion: emotion.Happy, Confidence: 0.87}}
	app := newTestApp(t, stub)

	app = send(app, keyRunes("I got the job"))
	app, cmd := sendCmd(app, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Equal(t, views.PhaseLoading, app.Form().Phase())

	app = send(app, ViewSwitchMsg{View: ViewSettings})
	app = deliver(app, cmd)

	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, views.PhaseResult, app.Form().Phase())

	app = send(app, ViewSwitchMsg{View: ViewAnalyze})
	assert.Contains(t, app.View(), "87%")
}

func TestSidebarShowsEndpointAndPhase(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Endpoint = "http://localhost:8000/analyze"
	app := send(NewApp(&stubAnalyzer{}, cfg, "", nil), tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Contains(t, app.View(), "localhost:8000")
	assert.NotContains(t, app.View(), "Analyze …")

	app = send(app, keyRunes("hello"))
	app = send(app, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Contains(t, app.View(), "Analyze …")
}

func TestEndpointHostTruncates(t *testing.T) {
	app := NewApp(&stubAnalyzer{}, config.Default(t.TempDir()), "", nil)
	host := app.endpointHost()
	assert.True(t, strings.HasSuffix(host, "…"), host)
	assert.True(t, strings.HasPrefix(host, "emo-reflect"), host)
	assert.LessOrEqual(t, runewidth.StringWidth(host), 14)
}

func TestEndpointHostTruncatesOnRuneBoundary(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Endpoint = "https://häagen-dazs-émotions.example/analyze"
	app := NewApp(&stubAnalyzer{}, cfg, "", nil)

	host := app.endpointHost()

	assert.True(t, utf8.ValidString(host), "%q", host)
	assert.True(t, strings.HasSuffix(host, "…"), host)
	assert.LessOrEqual(t, runewidth.StringWidth(host), 14)
}

func TestEndpointHostShortHostUnchanged(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Endpoint = "http://localhost:8000/analyze"
	app := NewApp(&stubAnalyzer{}, cfg, "", nil)
	assert.Equal(t, "localhost:8000", app.endpointHost())
}
