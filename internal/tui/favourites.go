package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timetracker/internal/config"
	"github.com/sadopc/timetracker/internal/store"
	"github.com/sadopc/timetracker/internal/timefmt"
)

// maxFavouriteMinutes bounds a preset to one day.
const maxFavouriteMinutes = 24 * 60

type favouritesModel struct {
	store  *store.Store
	width  int
	height int

	favourites []store.Favourite
	cursor     int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formName    *string
	formMinutes *string
}

func newFavouritesModel(s *store.Store) favouritesModel {
	name, minutes := "", ""
	return favouritesModel{
		store:       s,
		formName:    &name,
		formMinutes: &minutes,
	}
}

func (f *favouritesModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

type favouritesDataMsg struct {
	favourites []store.Favourite
	err        error
}

func (f favouritesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		favs, err := f.store.ListFavourites()
		return favouritesDataMsg{favourites: favs, err: err}
	}
}

func (f favouritesModel) update(msg tea.Msg) (favouritesModel, tea.Cmd) {
	if f.formActive && f.form != nil {
		return f.updateForm(msg)
	}

	switch msg := msg.(type) {
	case favouritesDataMsg:
		if msg.err != nil {
			return f, errStatus("Error: %v", msg.err)
		}
		f.favourites = msg.favourites
		if f.cursor >= len(f.favourites) {
			f.cursor = max(0, len(f.favourites)-1)
		}
		return f, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if f.cursor > 0 {
				f.cursor--
			}
		case key.Matches(msg, keys.Down):
			if f.cursor < len(f.favourites)-1 {
				f.cursor++
			}
		case key.Matches(msg, keys.New):
			return f.showForm()
		case key.Matches(msg, keys.Delete):
			if len(f.favourites) > 0 {
				fav := f.favourites[f.cursor]
				if err := f.store.DeleteFavourite(fav.ID); err != nil {
					return f, errStatus("Error: %v", err)
				}
				return f, f.refresh()
			}
		case key.Matches(msg, keys.Enter):
			if len(f.favourites) > 0 {
				fav := f.favourites[f.cursor]
				return f, func() tea.Msg { return favouriteChosenMsg{favourite: fav} }
			}
		}
	}
	return f, nil
}

// parseMinutes reads a whole number of minutes in 1..maxFavouriteMinutes.
func parseMinutes(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.New("enter a whole number of minutes")
	}
	if n < 1 || n > maxFavouriteMinutes {
		return 0, fmt.Errorf("minutes must be between 1 and %d", maxFavouriteMinutes)
	}
	return n, nil
}

func (f favouritesModel) showForm() (favouritesModel, tea.Cmd) {
	*f.formName = ""
	*f.formMinutes = "30"

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Validate(validateTaskName).Value(f.formName),
			huh.NewInput().Title("Duration (minutes)").
				Validate(func(s string) error {
					_, err := parseMinutes(s)
					return err
				}).
				Value(f.formMinutes),
		),
	).WithShowHelp(true).WithShowErrors(true)
	if currentTheme == config.ThemeLight {
		f.form = f.form.WithTheme(huh.ThemeBase())
	}

	f.formActive = true
	return f, f.form.Init()
}

func (f favouritesModel) updateForm(msg tea.Msg) (favouritesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			f.formActive = false
			f.form = nil
			return f, nil
		}
	}

	form, cmd := f.form.Update(msg)
	if fm, ok := form.(*huh.Form); ok {
		f.form = fm
	}

	switch f.form.State {
	case huh.StateAborted:
		f.formActive = false
		f.form = nil
		return f, nil
	case huh.StateCompleted:
		f.formActive = false
		f.form = nil
		minutes, err := parseMinutes(*f.formMinutes)
		if err != nil {
			return f, errStatus("Error: %v", err)
		}
		if _, err := f.store.CreateFavourite(strings.TrimSpace(*f.formName), minutes*60); err != nil {
			return f, errStatus("Error: %v", err)
		}
		return f, f.refresh()
	}

	return f, cmd
}

func (f favouritesModel) view() string {
	w := f.width - 4

	if f.formActive && f.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("New Favourite"), "", f.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Favourites")

	if len(f.favourites) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No favourites yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-30s %10s", "Name", "Duration")))

	for i, fav := range f.favourites {
		cursor := "  "
		style := normalItemStyle
		if i == f.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-30s %10s", cursor, truncate(fav.Name, 30), timefmt.Human(fav.DurationSeconds))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  d: delete  enter: add as task on the Today view's date"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
