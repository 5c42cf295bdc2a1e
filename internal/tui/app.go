package tui

import (
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/emoreflect/internal/classifier"
	"github.com/f3rmion/emoreflect/internal/config"
	"github.com/f3rmion/emoreflect/internal/tui/views"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewAnalyze ViewType = iota
	ViewSettings
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	View     ViewType
	Shortcut string
}

// ViewSwitchMsg requests a view change
type ViewSwitchMsg struct {
	View ViewType
}

// AppModel is the main TUI model
type AppModel struct {
	config *config.Config
	logger *zap.Logger

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	// Sub-models (views)
	analyzeView  views.AnalyzerModel
	settingsView views.SettingsModel

	// Help overlay
	showHelp bool
}

// NewApp creates the TUI application. The form starts focused.
func NewApp(analyzer classifier.Analyzer, cfg *config.Config, configDir string, logger *zap.Logger) AppModel {
	if logger == nil {
		logger = zap.NewNop()
	}

	menuItems := []MenuItem{
		{Label: "Analyze", View: ViewAnalyze, Shortcut: "1"},
		{Label: "Settings", View: ViewSettings, Shortcut: "2"},
	}

	return AppModel{
		config:       cfg,
		logger:       logger,
		sidebarWidth: 18,
		currentView:  ViewAnalyze,
		menuItems:    menuItems,

		analyzeView:  views.NewAnalyzerModel(analyzer, logger.Named("form")),
		settingsView: views.NewSettingsModel(cfg, configDir),
	}
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return m.analyzeView.Init()
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Help overlay - any key closes it
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.sidebarActive = !m.sidebarActive
			return m, nil
		case "esc":
			if m.sidebarActive {
				return m, tea.Quit
			}
			m.sidebarActive = true
			return m, nil
		}

		// Letter and digit shortcuts only apply in the sidebar so they
		// never steal keystrokes from the reflection text.
		if m.sidebarActive {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
				return m, nil
			case "j", "down":
				if m.selectedMenu < len(m.menuItems)-1 {
					m.selectedMenu++
				}
				return m, nil
			case "k", "up":
				if m.selectedMenu > 0 {
					m.selectedMenu--
				}
				return m, nil
			case "enter", "l", "right":
				m.switchTo(m.menuItems[m.selectedMenu].View)
				return m, nil
			}
			for _, item := range m.menuItems {
				if msg.String() == item.Shortcut {
					m.switchTo(item.View)
					return m, nil
				}
			}
			return m, nil
		}

		var cmd tea.Cmd
		switch m.currentView {
		case ViewAnalyze:
			m.analyzeView, cmd = m.analyzeView.Update(msg)
		case ViewSettings:
			m.settingsView, cmd = m.settingsView.Update(msg)
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 2

		m.analyzeView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		return m, nil

	case ViewSwitchMsg:
		m.switchTo(msg.View)
		return m, nil
	}

	// Analysis outcomes and spinner ticks must reach the form even while
	// another view is showing.
	var cmd tea.Cmd
	m.analyzeView, cmd = m.analyzeView.Update(msg)
	return m, cmd
}

func (m *AppModel) switchTo(v ViewType) {
	m.currentView = v
	for i, item := range m.menuItems {
		if item.View == v {
			m.selectedMenu = i
			break
		}
	}
	m.sidebarActive = false
}

// CurrentView returns the view shown in the content area.
func (m AppModel) CurrentView() ViewType {
	return m.currentView
}

// SidebarActive reports whether the sidebar has focus.
func (m AppModel) SidebarActive() bool {
	return m.sidebarActive
}

// Form returns the reflection form.
func (m AppModel) Form() views.AnalyzerModel {
	return m.analyzeView
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	sidebar := m.renderSidebar()

	var content string
	switch m.currentView {
	case ViewAnalyze:
		content = m.analyzeView.View()
	case ViewSettings:
		content = m.settingsView.View()
	}

	contentWidth := m.width - m.sidebarWidth - 4
	mainContent := ContentStyle.
		Width(contentWidth).
		Height(m.height - 2).
		Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, mainContent)
}

func (m AppModel) renderSidebar() string {
	lines := []string{SidebarTitleStyle.Render(" emoreflect "), ""}

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Label
		if item.View == ViewAnalyze {
			label += phaseMarker(m.analyzeView.Phase())
		}

		style := SidebarItemStyle
		switch {
		case i == m.selectedMenu && m.sidebarActive:
			style = SidebarItemActiveStyle
		case i == m.selectedMenu:
			style = SidebarItemStyle.Bold(true).Foreground(ColorSecondary)
		}
		lines = append(lines, style.Render(label))
	}

	footer := []string{SidebarMutedStyle.Render(m.endpointHost())}
	if m.sidebarActive {
		footer = append(footer, SidebarHelpStyle.Render("? Help  q Quit"))
	} else {
		footer = append(footer, SidebarHelpStyle.Render("tab Menu"))
	}

	// Pin the footer to the bottom of the column.
	if gap := m.height - 4 - len(lines) - len(footer) - 1; gap > 0 {
		lines = append(lines, make([]string, gap)...)
	}
	lines = append(lines, footer...)

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// phaseMarker flags the Analyze entry while a request is out or when its
// last outcome was an error.
func phaseMarker(p views.Phase) string {
	switch p {
	case views.PhaseLoading:
		return " …"
	case views.PhaseError:
		return " !"
	default:
		return ""
	}
}

// endpointHost is the classifier host shown under the menu.
func (m AppModel) endpointHost() string {
	if m.config == nil {
		return ""
	}
	u, err := url.Parse(m.config.Endpoint)
	if err != nil || u.Host == "" {
		return m.config.Endpoint
	}
	return runewidth.Truncate(u.Host, m.sidebarWidth-4, "…")
}

func (m AppModel) renderHelp() string {
	row := func(k, desc string) string {
		return HelpKeyStyle.Render(k) + HelpDescStyle.Render(desc) + "\n"
	}

	helpText := HelpTitleStyle.Render("emoreflect - Emotion Analyzer") + "\n\n"

	helpText += HelpSectionStyle.Render("Global Keys") + "\n"
	helpText += row("tab", "Toggle sidebar focus")
	helpText += row("esc", "Focus sidebar / quit")
	helpText += row("ctrl+c", "Quit")

	helpText += HelpSectionStyle.Render("Sidebar") + "\n"
	helpText += row("j/k ↑/↓", "Move selection")
	helpText += row("enter", "Open view")
	helpText += row("1-2", "Switch views")
	helpText += row("?", "Show this help")
	helpText += row("q", "Quit")

	helpText += HelpSectionStyle.Render("Analyze View") + "\n"
	helpText += row("ctrl+s", "Analyze emotion")
	helpText += row("ctrl+r", "Reset form")
	helpText += row("ctrl+y", "Copy result")

	helpText += HelpSectionStyle.Render("Settings View") + "\n"
	helpText += row("←/→", "Switch tabs")

	helpText += "\n" + lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true).
		Render("Press any key to close")

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, HelpBoxStyle.Render(helpText))
}
