package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timetracker/internal/config"
	"github.com/sadopc/timetracker/internal/store"
	"github.com/sadopc/timetracker/internal/timefmt"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	cfg    *config.Config
	width  int
	height int

	activeView viewState
	showHelp   bool

	today      todayModel
	history    historyModel
	favourites favouritesModel
	settings   settingsModel

	help        help.Model
	status      string
	statusError bool
}

// NewApp builds the UI over s. cfg is shared with the settings view, which
// saves changes back to it. dbPath is shown in settings and may be empty.
func NewApp(s *store.Store, cfg *config.Config, dbPath string) App {
	if cfg == nil {
		cfg = config.Default()
	}
	applyTheme(cfg.Theme)

	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		cfg:        cfg,
		activeView: viewToday,
		today:      newTodayModel(s, cfg),
		history:    newHistoryModel(s),
		favourites: newFavouritesModel(s),
		settings:   newSettingsModel(cfg, dbPath),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.today.Init(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.favourites.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a.quit()
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewToday)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewHistory)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewFavourites)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		// The tracked time is computed on render; the tick only redraws.
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		return a, nil

	case trackingStartedMsg:
		a.setStatus("Tracking " + msg.task.Name)
		return a, nil

	case trackingStoppedMsg:
		a.setStatus("Saved " + timefmt.Human(msg.saved) + " to " + msg.name)
		return a, nil

	case settingsSavedMsg:
		a.setStatus("Settings saved")
		return a, nil

	case favouriteChosenMsg:
		a.activeView = viewToday
		var cmd tea.Cmd
		a.today, cmd = a.today.createTask(msg.favourite.Name, msg.favourite.DurationSeconds)
		return a, cmd

	// Data messages go to their owner even after the user switched views.
	case todayDataMsg:
		var cmd tea.Cmd
		a.today, cmd = a.today.update(msg)
		return a, cmd
	case historyDataMsg:
		var cmd tea.Cmd
		a.history, cmd = a.history.update(msg)
		return a, cmd
	case favouritesDataMsg:
		var cmd tea.Cmd
		a.favourites, cmd = a.favourites.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a *App) setStatus(text string) {
	a.status = text
	a.statusError = false
}

// quit stops tracking, saving the elapsed time, before exiting.
func (a App) quit() (tea.Model, tea.Cmd) {
	if saved, err := a.today.timer.stop(); err != nil {
		slog.Error("save tracked time on quit", "error", err)
	} else if saved > 0 {
		slog.Info("saved tracked time on quit", "seconds", saved)
	}
	return a, tea.Quit
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewFavourites:
		a.favourites, cmd = a.favourites.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewToday:
		return a.today.formActive
	case viewFavourites:
		return a.favourites.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewToday:
		return a.today.loadData()
	case viewHistory:
		return a.history.refresh()
	case viewFavourites:
		return a.favourites.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewHistory:
		content = a.history.view()
	case viewFavourites:
		content = a.favourites.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("timetracker")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Tracking indicator
	timerInfo := ""
	if a.today.timer.running() {
		timerInfo = successStyle.Render(" ● " + a.today.timer.taskName + " " + formatDuration(a.today.timer.currentElapsed()))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

// Run starts the UI and blocks until the user quits.
func Run(s *store.Store, cfg *config.Config, dbPath string) error {
	p := tea.NewProgram(NewApp(s, cfg, dbPath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
