// Package components provides shared UI components for the TUI.
package components

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/emoreflect/internal/emotion"
	"github.com/f3rmion/emoreflect/internal/tui/banner"
	"github.com/mattn/go-runewidth"
)

const (
	barFull  = "█"
	barEmpty = "░"

	// Below this card width the banner is skipped.
	bannerMinWidth = 36
	bannerRows     = 4
)

var trackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5e7eb"))

// ConfidenceBar renders a bar of width cells filled in proportion to
// confidence. A confidence above 1 overflows the track; nothing is clamped
// except that a negative fill draws as empty.
func ConfidenceBar(confidence float64, width int, fill lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if !math.IsNaN(confidence) {
		filled = max(int(math.Round(confidence*float64(width))), 0)
	}
	empty := max(width-filled, 0)

	return lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat(barFull, filled)) +
		trackStyle.Render(strings.Repeat(barEmpty, empty))
}

// ResultCard renders the detected emotion, a confidence bar and the
// percentage, drawn in the label's palette.
func ResultCard(r emotion.Result, width int) string {
	p := emotion.ColorFor(r.Emotion)
	text := lipgloss.Color(p.Text)

	inner := max(width-6, 10)
	center := lipgloss.NewStyle().Width(inner).Align(lipgloss.Center)

	var lines []string
	if width >= bannerMinWidth {
		if art := banner.GetCached(string(r.Emotion), inner, bannerRows); art != "" {
			lines = append(lines, center.Foreground(text).Render(art), "")
		}
	}

	heading := lipgloss.NewStyle().Bold(true).Padding(0, 1).
		Foreground(text).
		Background(lipgloss.Color(p.Background)).
		Render("Detected Emotion: " + string(r.Emotion))
	caption := lipgloss.NewStyle().Foreground(lipgloss.Color("#4b5563")).Render("Confidence Level")
	percent := lipgloss.NewStyle().Bold(true).Foreground(text).
		Render(strconv.Itoa(r.Percent()) + "%")

	lines = append(lines,
		center.Render(heading),
		"",
		center.Render(caption),
		ConfidenceBar(r.Confidence, inner, text),
		center.Render(percent),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.Border)).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

// ErrorBanner renders an alert box holding msg.
func ErrorBanner(msg string, width int) string {
	inner := max(width-6, 10)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#dc2626")).
		Foreground(lipgloss.Color("#dc2626")).
		Padding(0, 1).
		Render("⚠ " + Wrap(msg, inner-2))
}

// Wrap breaks s into lines no wider than width terminal cells.
func Wrap(s string, width int) string {
	if width <= 0 {
		width = 60
	}
	var lines []string
	var current strings.Builder
	currentWidth := 0

	for _, word := range strings.Fields(s) {
		wordWidth := runewidth.StringWidth(word)
		if currentWidth+wordWidth+1 > width && currentWidth > 0 {
			lines = append(lines, current.String())
			current.Reset()
			currentWidth = 0
		}
		if currentWidth > 0 {
			current.WriteString(" ")
			currentWidth++
		}
		current.WriteString(word)
		currentWidth += wordWidth
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return strings.Join(lines, "\n")
}
