package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sadopc/timetracker/internal/store"
	"github.com/sadopc/timetracker/internal/timefmt"
	"github.com/spf13/cobra"
)

var todayDate string

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's tasks and their tracked time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		date := todayDate
		if date == "" {
			date = s.Today()
		}
		tasks, err := s.ListTasksForDate(date)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(tasks) == 0 {
			fmt.Fprintf(out, "No tasks on %s.\n", date)
			return nil
		}
		fmt.Fprintln(out, renderTaskTable(tasks))
		fmt.Fprintf(out, "Total %s: %s\n", date, timefmt.Clock(sumSeconds(tasks)))
		return nil
	},
}

func init() {
	todayCmd.Flags().StringVar(&todayDate, "date", "", "show this date (YYYY-MM-DD) instead of today")
	rootCmd.AddCommand(todayCmd)
}

func renderTaskTable(tasks []store.Task) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		note := ""
		if t.Note != nil {
			note = "✎"
		}
		rows = append(rows, []string{strconv.FormatInt(t.ID, 10), t.Name, timefmt.Clock(t.TotalSeconds), note})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TASK", "TIME", "NOTE").
		Rows(rows...).
		String()
}

func sumSeconds(tasks []store.Task) int64 {
	var total int64
	for _, t := range tasks {
		total += t.TotalSeconds
	}
	return total
}
