package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/timetracker/internal/store"
	"github.com/sadopc/timetracker/internal/timefmt"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewHistory
	viewFavourites
	viewSettings
)

var viewNames = []string{"Today", "History", "Favourites", "Settings"}

const dateLayout = "2006-01-02"

// --- Messages ---

type trackingStartedMsg struct {
	task store.Task
}

type trackingStoppedMsg struct {
	name  string
	saved int64
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// favouriteChosenMsg asks the Today view to create a task from a preset.
type favouriteChosenMsg struct {
	favourite store.Favourite
}

type settingsSavedMsg struct{}

func errStatus(format string, args ...any) tea.Cmd {
	text := fmt.Sprintf(format, args...)
	return func() tea.Msg { return statusMsg{text: text, isError: true} }
}

func infoStatus(format string, args ...any) tea.Cmd {
	text := fmt.Sprintf(format, args...)
	return func() tea.Msg { return statusMsg{text: text} }
}

// --- Helpers ---

// formatDuration renders d as HH:MM:SS, dropping fractions of a second.
func formatDuration(d time.Duration) string {
	return timefmt.Clock(int64(d / time.Second))
}

// shiftDate moves a YYYY-MM-DD date by days. An unparsable date is returned
// unchanged.
func shiftDate(date string, days int) string {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return d.AddDate(0, 0, days).Format(dateLayout)
}

// friendlyDate renders a YYYY-MM-DD date as "Mon, Jan 02 2006".
func friendlyDate(date string) string {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return d.Format("Mon, Jan 02 2006")
}
