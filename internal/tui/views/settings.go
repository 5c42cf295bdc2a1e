package views

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/emoreflect/internal/config"
)

// Settings view styles
var (
	settingsTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#4f46e5")).
				MarginBottom(1)

	settingsPathStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Italic(true).
				MarginBottom(1)

	settingsTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888")).
				Padding(0, 2)

	settingsTabActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d")).
				Background(lipgloss.Color("#2d3436")).
				Padding(0, 2)

	settingsKeyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8dadc")).
				Width(12)

	settingsValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f1faee"))

	settingsMutedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666"))

	settingsHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				MarginTop(1)
)

var settingsTabs = []string{"Classifier", "Logging", "Server"}

// SettingsModel shows the effective configuration. It is read-only; edit
// the config file or use EMOREFLECT_* variables to change it.
type SettingsModel struct {
	config    *config.Config
	configDir string

	tab int

	width  int
	height int
}

// NewSettingsModel creates a new settings model.
func NewSettingsModel(cfg *config.Config, configDir string) SettingsModel {
	return SettingsModel{
		config:    cfg,
		configDir: configDir,
	}
}

// SetSize updates the view dimensions.
func (m *SettingsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "right", "l":
			m.tab = (m.tab + 1) % len(settingsTabs)
		case "left", "h":
			m.tab--
			if m.tab < 0 {
				m.tab = len(settingsTabs) - 1
			}
		}
	}
	return m, nil
}

// View renders the settings view.
func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(settingsTitleStyle.Render("Configuration"))
	b.WriteString("\n")

	path := "(none)"
	if m.configDir != "" {
		path = filepath.Join(m.configDir, config.FileName)
	}
	b.WriteString(settingsPathStyle.Render("Config: " + path))
	b.WriteString("\n\n")

	var tabViews []string
	for i, t := range settingsTabs {
		style := settingsTabStyle
		if i == m.tab {
			style = settingsTabActiveStyle
		}
		tabViews = append(tabViews, style.Render(t))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabViews...))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#3d5a80")).Render(strings.Repeat("─", max(min(m.width-4, 60), 10))))
	b.WriteString("\n\n")

	if m.config == nil {
		b.WriteString(settingsMutedStyle.Render("No configuration loaded"))
		b.WriteString("\n")
		b.WriteString(settingsMutedStyle.Render("Run 'emoreflect init' to create a config file"))
	} else {
		for _, row := range m.rows() {
			b.WriteString(settingsKeyStyle.Render(row[0]))
			b.WriteString(settingsValueStyle.Render(row[1]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(settingsHelpStyle.Render("←/→: switch tabs"))

	return b.String()
}

func (m SettingsModel) rows() [][2]string {
	cfg := m.config
	switch m.tab {
	case 1:
		file := cfg.Log.File
		if file == "" {
			file = "(disabled)"
		}
		return [][2]string{
			{"File", file},
			{"Level", cfg.Log.Level},
		}
	case 2:
		return [][2]string{
			{"Host", cfg.Serve.Host},
			{"Port", fmt.Sprint(cfg.Serve.Port)},
			{"Endpoint", fmt.Sprintf("http://localhost:%d/analyze", cfg.Serve.Port)},
		}
	default:
		timeout := "none"
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout.String()
		}
		return [][2]string{
			{"Endpoint", cfg.Endpoint},
			{"Timeout", timeout},
		}
	}
}
