package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

type rendererKey struct {
	theme string
	width int
}

// Glamour renderers are expensive to build; keep one per theme and width.
var rendererCache sync.Map // map[rendererKey]*glamour.TermRenderer

func noteRenderer(theme string, width int) (*glamour.TermRenderer, error) {
	k := rendererKey{theme: theme, width: width}
	if cached, ok := rendererCache.Load(k); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	rendererCache.Store(k, renderer)
	return renderer, nil
}

// renderNote renders a task note as Markdown, falling back to the raw text
// when rendering fails.
func renderNote(note *string, width int) string {
	if note == nil || strings.TrimSpace(*note) == "" {
		return mutedStyle.Italic(true).Render("No note")
	}
	if width < 10 {
		width = 10
	}

	renderer, err := noteRenderer(currentTheme, width)
	if err == nil {
		out, err := renderer.Render(*note)
		if err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return *note
}

// normalizeNote maps a blank note to nil so it is stored as NULL.
func normalizeNote(note string) *string {
	if strings.TrimSpace(note) == "" {
		return nil
	}
	return &note
}
