package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timetracker/internal/config"
)

type settingsModel struct {
	cfg    *config.Config
	dbPath string
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	theme         *string
	adjustMinutes *string
}

func newSettingsModel(cfg *config.Config, dbPath string) settingsModel {
	theme, adjust := "", ""
	return settingsModel{
		cfg:           cfg,
		dbPath:        dbPath,
		theme:         &theme,
		adjustMinutes: &adjust,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func validateAdjustMinutes(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 || n > config.MaxTimeAdjustMinutes {
		return fmt.Errorf("enter minutes between 1 and %d", config.MaxTimeAdjustMinutes)
	}
	return nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.theme = s.cfg.Theme
	*s.adjustMinutes = strconv.Itoa(s.cfg.TimeAdjustMinutes)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Dark", config.ThemeDark),
					huh.NewOption("Light", config.ThemeLight),
				).Value(s.theme),
			huh.NewInput().Title("Time adjust interval (min)").
				Validate(validateAdjustMinutes).
				Value(s.adjustMinutes),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)
	if currentTheme == config.ThemeLight {
		s.form = s.form.WithTheme(huh.ThemeBase())
	}

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	switch s.form.State {
	case huh.StateAborted:
		s.formActive = false
		s.form = nil
		return s, nil
	case huh.StateCompleted:
		s.formActive = false
		s.form = nil
		if err := s.saveSettings(); err != nil {
			return s, errStatus("Error saving settings: %v", err)
		}
		return s, func() tea.Msg { return settingsSavedMsg{} }
	}

	return s, cmd
}

// saveSettings copies the form values into the config, writes it and
// switches the palette.
func (s settingsModel) saveSettings() error {
	if err := validateAdjustMinutes(*s.adjustMinutes); err != nil {
		return err
	}
	minutes, _ := strconv.Atoi(strings.TrimSpace(*s.adjustMinutes))

	s.cfg.Theme = *s.theme
	s.cfg.TimeAdjustMinutes = minutes
	if err := s.cfg.Save(); err != nil {
		return err
	}
	applyTheme(s.cfg.Theme)
	return nil
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	row := func(label, value string) string {
		return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(24).Render(label), highlightStyle.Render(value))
	}

	rows := []string{
		title,
		"",
		row("Theme", s.cfg.Theme),
		row("Time adjust interval", fmt.Sprintf("%d min", s.cfg.TimeAdjustMinutes)),
		row("Config file", s.cfg.Path()),
	}
	if s.dbPath != "" {
		rows = append(rows, row("Database", s.dbPath))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
