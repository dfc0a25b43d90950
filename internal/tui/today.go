package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timetracker/internal/config"
	"github.com/sadopc/timetracker/internal/store"
	"github.com/sadopc/timetracker/internal/timefmt"
)

type taskFormKind int

const (
	formNewTask taskFormKind = iota
	formRenameTask
	formTaskNote
	formTaskTime
)

type todayModel struct {
	store  *store.Store
	cfg    *config.Config
	timer  timerModel
	width  int
	height int

	date   string
	tasks  []store.Task
	cursor int

	// Recent names offered as suggestions in the task form.
	suggestions []string

	formActive bool
	form       *huh.Form
	formKind   taskFormKind
	editingID  int64

	// Form field pointers (survive value copies)
	formName *string
	formNote *string
	formTime *string
}

func newTodayModel(s *store.Store, cfg *config.Config) todayModel {
	name, note, clock := "", "", ""
	return todayModel{
		store:    s,
		cfg:      cfg,
		timer:    newTimerModel(s),
		date:     s.Today(),
		formName: &name,
		formNote: &note,
		formTime: &clock,
	}
}

func (d todayModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *todayModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type todayDataMsg struct {
	date  string
	tasks []store.Task
	names []string
	err   error
}

func (d todayModel) loadData() tea.Cmd {
	date := d.date
	return func() tea.Msg {
		tasks, err := d.store.ListTasksForDate(date)
		if err != nil {
			return todayDataMsg{date: date, err: err}
		}
		names, err := d.store.RecentTaskNames(store.MaxRecentNames)
		if err != nil {
			slog.Warn("load task name suggestions", "error", err)
		}
		return todayDataMsg{date: date, tasks: tasks, names: names}
	}
}

func (d todayModel) selected() (store.Task, bool) {
	if d.cursor < 0 || d.cursor >= len(d.tasks) {
		return store.Task{}, false
	}
	return d.tasks[d.cursor], true
}

func (d todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case todayDataMsg:
		if msg.date != d.date {
			return d, nil
		}
		if msg.err != nil {
			return d, errStatus("Error: %v", msg.err)
		}
		d.tasks = msg.tasks
		if msg.names != nil {
			d.suggestions = msg.names
		}
		if d.cursor >= len(d.tasks) {
			d.cursor = max(0, len(d.tasks)-1)
		}
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			return d.setDate(shiftDate(d.date, -1))
		case key.Matches(msg, keys.Right):
			return d.setDate(shiftDate(d.date, 1))
		case key.Matches(msg, keys.Today):
			return d.setDate(d.store.Today())
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.tasks)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.New):
			return d.showTaskForm(formNewTask)
		case key.Matches(msg, keys.Rename):
			return d.showTaskForm(formRenameTask)
		case key.Matches(msg, keys.Note):
			return d.showTaskForm(formTaskNote)
		case key.Matches(msg, keys.EditTime):
			return d.showTaskForm(formTaskTime)
		case key.Matches(msg, keys.Delete):
			return d.deleteSelected()
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Start):
			if task, ok := d.selected(); ok {
				return d.startTracking(task)
			}
		case key.Matches(msg, keys.Stop):
			return d.stopTracking()
		case key.Matches(msg, keys.Add):
			return d.adjustSelected(1)
		case key.Matches(msg, keys.Subtract):
			return d.adjustSelected(-1)
		}
	}
	return d, nil
}

func (d todayModel) setDate(date string) (todayModel, tea.Cmd) {
	if date == d.date {
		return d, nil
	}
	d.date = date
	d.cursor = 0
	d.tasks = nil
	return d, d.loadData()
}

func (d todayModel) startTracking(task store.Task) (todayModel, tea.Cmd) {
	if d.timer.tracking(task.ID) {
		return d, nil
	}
	saved, err := d.timer.start(task)
	if err != nil {
		slog.Error("start tracking", "task_id", task.ID, "error", err)
		return d, errStatus("Error: %v", err)
	}
	started := func() tea.Msg { return trackingStartedMsg{task: task} }
	if saved > 0 {
		return d, tea.Batch(d.loadData(), started)
	}
	return d, started
}

func (d todayModel) stopTracking() (todayModel, tea.Cmd) {
	if !d.timer.running() {
		return d, nil
	}
	name := d.timer.taskName
	saved, err := d.timer.stop()
	if err != nil {
		slog.Error("stop tracking", "error", err)
		return d, errStatus("Error: %v", err)
	}
	return d, tea.Batch(
		d.loadData(),
		func() tea.Msg { return trackingStoppedMsg{name: name, saved: saved} },
	)
}

// adjustSelected adds or subtracts the configured interval. A subtraction
// never takes the total below zero.
func (d todayModel) adjustSelected(sign int) (todayModel, tea.Cmd) {
	task, ok := d.selected()
	if !ok {
		return d, nil
	}
	delta := adjustDelta(task.TotalSeconds, d.cfg.TimeAdjustSeconds(), sign)
	if delta == 0 {
		return d, nil
	}
	if err := d.store.AdjustTaskSeconds(task.ID, delta); err != nil {
		return d, errStatus("Error: %v", err)
	}
	return d, d.loadData()
}

func adjustDelta(total, step int64, sign int) int64 {
	if sign >= 0 {
		return step
	}
	return -min(step, max(total, 0))
}

func (d todayModel) deleteSelected() (todayModel, tea.Cmd) {
	task, ok := d.selected()
	if !ok {
		return d, nil
	}
	d.timer.forget(task.ID)
	if err := d.store.DeleteTask(task.ID); err != nil {
		return d, errStatus("Error: %v", err)
	}
	return d, tea.Batch(d.loadData(), infoStatus("Deleted %s", task.Name))
}

// createTask adds a task on the viewed date, used for new tasks and for
// tasks created from a favourite.
func (d todayModel) createTask(name string, initialSeconds int64) (todayModel, tea.Cmd) {
	task, err := d.store.CreateTask(name, d.date, initialSeconds)
	if err != nil {
		return d, errStatus("Error: %v", err)
	}
	d.cursor = 0
	return d, tea.Batch(d.loadData(), infoStatus("Created %s", task.Name))
}

func validateTaskName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name is required")
	}
	return nil
}

func (d todayModel) showTaskForm(kind taskFormKind) (todayModel, tea.Cmd) {
	task, hasTask := d.selected()
	if kind != formNewTask && !hasTask {
		return d, nil
	}

	d.formKind = kind
	var field huh.Field
	switch kind {
	case formNewTask:
		*d.formName = ""
		field = huh.NewInput().
			Title("Task name").
			Suggestions(d.suggestions).
			Validate(validateTaskName).
			Value(d.formName)
	case formRenameTask:
		*d.formName = task.Name
		d.editingID = task.ID
		field = huh.NewInput().
			Title("Task name").
			Suggestions(d.suggestions).
			Validate(validateTaskName).
			Value(d.formName)
	case formTaskNote:
		*d.formNote = ""
		if task.Note != nil {
			*d.formNote = *task.Note
		}
		d.editingID = task.ID
		field = huh.NewText().
			Title("Note").
			Placeholder("Markdown is supported").
			CharLimit(4000).
			Value(d.formNote)
	case formTaskTime:
		*d.formTime = timefmt.Clock(d.liveSeconds(task))
		d.editingID = task.ID
		field = huh.NewInput().
			Title("Total time").
			Placeholder("HH:MM:SS or MM:SS").
			Validate(validateClock).
			Value(d.formTime)
	}

	d.form = huh.NewForm(huh.NewGroup(field)).
		WithShowHelp(true).
		WithShowErrors(true)
	if currentTheme == config.ThemeLight {
		d.form = d.form.WithTheme(huh.ThemeBase())
	}

	d.formActive = true
	return d, d.form.Init()
}

func (d todayModel) updateForm(msg tea.Msg) (todayModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	switch d.form.State {
	case huh.StateAborted:
		d.formActive = false
		d.form = nil
		return d, nil
	case huh.StateCompleted:
		d.formActive = false
		d.form = nil
		return d.submitForm()
	}
	return d, cmd
}

func (d todayModel) submitForm() (todayModel, tea.Cmd) {
	switch d.formKind {
	case formNewTask:
		return d.createTask(strings.TrimSpace(*d.formName), 0)
	case formRenameTask:
		name := strings.TrimSpace(*d.formName)
		if err := d.store.RenameTask(d.editingID, name); err != nil {
			return d, errStatus("Error: %v", err)
		}
		d.timer.rename(d.editingID, name)
		return d, d.loadData()
	case formTaskNote:
		if err := d.store.SetTaskNote(d.editingID, normalizeNote(*d.formNote)); err != nil {
			return d, errStatus("Error: %v", err)
		}
		return d, d.loadData()
	case formTaskTime:
		return d.setSelectedTime(*d.formTime)
	}
	return d, nil
}

func validateClock(s string) error {
	_, err := timefmt.ParseClock(s)
	return err
}

// setSelectedTime overwrites the edited task's total. Time the timer has not
// saved yet is discarded so the entered value is what the task shows.
func (d todayModel) setSelectedTime(value string) (todayModel, tea.Cmd) {
	secs, err := timefmt.ParseClock(value)
	if err != nil {
		return d, errStatus("Error: %v", err)
	}
	if err := d.store.SetTaskSeconds(d.editingID, secs); err != nil {
		return d, errStatus("Error: %v", err)
	}
	d.timer.restart(d.editingID)
	return d, d.loadData()
}

// dayTotal sums the listed tasks, including time not yet saved by the timer.
func (d todayModel) dayTotal() int64 {
	var total int64
	for _, t := range d.tasks {
		total += d.liveSeconds(t)
	}
	return total
}

func (d todayModel) liveSeconds(t store.Task) int64 {
	secs := t.TotalSeconds
	if d.timer.tracking(t.ID) {
		secs += int64(d.timer.currentElapsed() / time.Second)
	}
	return secs
}

func (d todayModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	if d.formActive && d.form != nil {
		title := "New Task"
		switch d.formKind {
		case formRenameTask:
			title = "Rename Task"
		case formTaskNote:
			title = "Edit Note"
		case formTaskTime:
			title = "Edit Time"
		}
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", d.form.View())
		return panelStyle.Width(contentWidth).Render(content)
	}

	panels := []string{d.renderTimerPanel(contentWidth), d.renderTaskPanel(contentWidth)}
	if task, ok := d.selected(); ok {
		panels = append(panels, d.renderNotePanel(task, contentWidth))
	}
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (d todayModel) renderTimerPanel(w int) string {
	if d.timer.running() {
		timeDisplay := timerRunningStyle.Width(w - 6).Render(formatDuration(d.timer.currentElapsed()))
		content := lipgloss.JoinVertical(lipgloss.Center,
			timeDisplay,
			successStyle.Render("●  TRACKING"),
			highlightStyle.Render(d.timer.taskName),
		)
		return activePanelStyle.Width(w).Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Width(w-6).Align(lipgloss.Center).Render("00:00:00"),
		mutedStyle.Render("■  STOPPED"),
		mutedStyle.Render("Select a task and press enter to track it"),
	)
	return panelStyle.Width(w).Render(content)
}

func (d todayModel) renderTaskPanel(w int) string {
	title := titleStyle.Render(friendlyDate(d.date))
	if d.date == d.store.Today() {
		title += mutedStyle.Render("  (today)")
	}
	header := fmt.Sprintf("%s  %s", title, highlightStyle.Render(timefmt.Human(d.dayTotal())))

	rows := []string{header, ""}
	if len(d.tasks) == 0 {
		rows = append(rows, mutedStyle.Render("No tasks on this day. Press n to add one."))
	}
	for i, t := range d.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		marker := " "
		if d.timer.tracking(t.ID) {
			marker = "●"
			style = trackedItemStyle
		}
		noteMark := ""
		if t.Note != nil {
			noteMark = mutedStyle.Render(" ✎")
		}
		row := style.Render(fmt.Sprintf("%s%s %-28s %s", cursor, marker, truncate(t.Name, 28), timefmt.Clock(d.liveSeconds(t))))
		rows = append(rows, row+noteMark)
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf(
		"  ←/→: day  t: today  n: new  r: rename  o: note  e: time  d: delete  +/-: %dm",
		d.cfg.TimeAdjustMinutes,
	)))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d todayModel) renderNotePanel(task store.Task, w int) string {
	title := titleStyle.Render("Note")
	body := renderNote(task.Note, w-6)
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
