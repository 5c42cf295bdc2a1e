package views

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/emoreflect/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestSettingsTabs(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default(dir)
	cfg.Timeout = 5 * time.Second
	m := NewSettingsModel(cfg, dir)
	m.SetSize(80, 30)

	view := m.View()
	assert.Contains(t, view, filepath.Join(dir, config.FileName))
	assert.Contains(t, view, cfg.Endpoint)
	assert.Contains(t, view, "5s")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	view = m.View()
	assert.Contains(t, view, "emoreflect.log")
	assert.Contains(t, view, "info")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Contains(t, m.View(), "http://localhost:8000/analyze")

	// Wraps around in both directions.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Contains(t, m.View(), cfg.Endpoint)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Contains(t, m.View(), "8000")
}

func TestSettingsWithoutConfig(t *testing.T) {
	m := NewSettingsModel(nil, "")
	view := m.View()
	assert.Contains(t, view, "No configuration loaded")
	assert.Contains(t, view, "(none)")
}

func TestSettingsNoTimeout(t *testing.T) {
	m := NewSettingsModel(config.Default(t.TempDir()), "")
	assert.Contains(t, m.View(), "none")
}
