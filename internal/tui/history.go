package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timetracker/internal/store"
	"github.com/sadopc/timetracker/internal/timefmt"
)

type historyMode int

const (
	historyDaily historyMode = iota
	historyWeekly
)

type historyModel struct {
	store  *store.Store
	width  int
	height int

	mode   historyMode
	offset int // 7-day blocks back from today (0 = current)

	tasks  []store.Task
	totals []store.DailyTotal

	chart barchart.Model
}

func newHistoryModel(s *store.Store) historyModel {
	return historyModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
	h.buildChart()
}

type historyDataMsg struct {
	start  string
	tasks  []store.Task
	totals []store.DailyTotal
	err    error
}

func (h historyModel) refresh() tea.Cmd {
	from, to := h.dateRange()
	start := from.Format(dateLayout)
	end := to.AddDate(0, 0, -1).Format(dateLayout)
	return func() tea.Msg {
		tasks, err := h.store.ListTasksInRange(start, end)
		if err != nil {
			return historyDataMsg{start: start, err: err}
		}
		totals, err := h.store.DailyTotals(start, end)
		if err != nil {
			return historyDataMsg{start: start, err: err}
		}
		return historyDataMsg{start: start, tasks: tasks, totals: totals}
	}
}

// dateRange returns the half-open range [from, to) of whole days shown.
func (h historyModel) dateRange() (time.Time, time.Time) {
	today, err := time.Parse(dateLayout, h.store.Today())
	if err != nil {
		now := time.Now()
		today = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	switch h.mode {
	case historyWeekly:
		// Weeks start on Monday.
		weekday := today.Weekday()
		if weekday == time.Sunday {
			weekday = 7
		}
		startOfWeek := today.AddDate(0, 0, -int(weekday-time.Monday))
		startOfWeek = startOfWeek.AddDate(0, 0, -7*h.offset)
		return startOfWeek, startOfWeek.AddDate(0, 0, 7)
	default:
		// Last 7 days, ending today.
		end := today.AddDate(0, 0, 1-7*h.offset)
		return end.AddDate(0, 0, -7), end
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		from, _ := h.dateRange()
		if msg.start != from.Format(dateLayout) {
			return h, nil
		}
		if msg.err != nil {
			return h, errStatus("Error: %v", msg.err)
		}
		h.tasks = msg.tasks
		h.totals = msg.totals
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			h.offset++
			return h, h.refresh()
		case key.Matches(msg, keys.Right):
			if h.offset > 0 {
				h.offset--
			}
			return h, h.refresh()
		case key.Matches(msg, keys.Today):
			h.offset = 0
			return h, h.refresh()
		case key.Matches(msg, keys.Mode):
			if h.mode == historyDaily {
				h.mode = historyWeekly
			} else {
				h.mode = historyDaily
			}
			h.offset = 0
			return h, h.refresh()
		}
	}
	return h, nil
}

func (h historyModel) chartHeight() int {
	if h.height > 30 {
		return 14
	}
	return 10
}

func (h *historyModel) buildChart() {
	chartWidth := max(h.width-8, 20)
	h.chart = barchart.New(chartWidth, h.chartHeight())

	byDate := make(map[string]int64, len(h.totals))
	for _, t := range h.totals {
		byDate[t.Date] = t.TotalSeconds
	}

	barStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	from, to := h.dateRange()

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		secs := byDate[d.Format(dateLayout)]
		bars = append(bars, barchart.BarData{
			Label: d.Format("Mon 02"),
			Values: []barchart.BarValue{{
				Name:  d.Format(dateLayout),
				Value: float64(secs) / 3600.0,
				Style: barStyle,
			}},
		})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) periodTotal() int64 {
	var total int64
	for _, t := range h.totals {
		total += t.TotalSeconds
	}
	return total
}

func (h historyModel) view() string {
	w := h.width - 4

	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if h.mode == historyDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	from, to := h.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))
	total := highlightStyle.Render(timefmt.Human(h.periodTotal()))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ", modeTabs, "  ", dateLabel, "  ", total,
	)

	nav := mutedStyle.Render("  ←/→: page  t: current  w: daily/weekly")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", h.chart.View(), "", h.renderTaskTable(w), "", nav,
		),
	)
}

func (h historyModel) renderTaskTable(w int) string {
	if len(h.tasks) == 0 {
		return mutedStyle.Render("  No tasks in this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %-30s %10s", "Date", "Task", "Time")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 54))))

	limit := len(h.tasks)
	if avail := h.height - h.chartHeight() - 14; avail > 0 && avail < limit {
		limit = avail
	}
	for _, t := range h.tasks[:limit] {
		rows = append(rows, fmt.Sprintf("  %-12s %-30s %10s", t.Date(), truncate(t.Name, 30), timefmt.Human(t.TotalSeconds)))
	}
	if rest := len(h.tasks) - limit; rest > 0 {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … and %d more", rest)))
	}

	return strings.Join(rows, "\n")
}
