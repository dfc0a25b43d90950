package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxRecentNames caps RecentTaskNames.
const MaxRecentNames = 50

const taskColumns = `id, name, total_seconds, created_at, note`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (Task, error) {
	var t Task
	var total sql.NullInt64
	var createdAt, note sql.NullString
	if err := r.Scan(&t.ID, &t.Name, &total, &createdAt, &note); err != nil {
		return Task{}, err
	}
	t.TotalSeconds = total.Int64
	t.CreatedAt = createdAt.String
	if note.Valid {
		n := note.String
		t.Note = &n
	}
	return t, nil
}

func (s *Store) queryTasks(query string, args ...any) ([]Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// NormalizeDate validates a YYYY-MM-DD date. Anything after the first ten
// characters (a time of day) is ignored.
func NormalizeDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if len(date) < len(dateLayout) {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
	}
	d := date[:len(dateLayout)]
	if _, err := time.Parse(dateLayout, d); err != nil {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
	}
	return d, nil
}

// Today returns the current local date as YYYY-MM-DD.
func (s *Store) Today() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Local().Format(dateLayout)
}

// ListTasksForDate returns tasks whose created_at falls on date, newest first.
func (s *Store) ListTasksForDate(date string) ([]Task, error) {
	d, err := NormalizeDate(date)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.queryTasks(
		`SELECT `+taskColumns+` FROM tasks WHERE date(created_at) = ? ORDER BY created_at DESC, id DESC`, d,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks for %s: %w", d, err)
	}
	return tasks, nil
}

// ListTodaysTasks is ListTasksForDate for the current local date.
func (s *Store) ListTodaysTasks() ([]Task, error) {
	return s.ListTasksForDate(s.Today())
}

// CreateTask inserts a task dated at midnight of date and returns the stored row.
func (s *Store) CreateTask(name, date string, initialSeconds int64) (*Task, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("create task: name is required")
	}
	d, err := NormalizeDate(date)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	createdAt := d + " 00:00:00"

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := scanTask(s.db.QueryRow(
		`INSERT INTO tasks (name, total_seconds, created_at) VALUES (?, ?, ?) RETURNING `+taskColumns,
		name, initialSeconds, createdAt,
	))
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &t, nil
}

// GetTask returns the task with id, or nil when there is none.
func (s *Store) GetTask(id int64) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := scanTask(s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return &t, nil
}

// The update and delete methods below succeed without error when id matches
// no row.

// SetTaskSeconds overwrites the accumulated total.
func (s *Store) SetTaskSeconds(id, totalSeconds int64) error {
	return s.exec("update task time", `UPDATE tasks SET total_seconds = ? WHERE id = ?`, totalSeconds, id)
}

// AdjustTaskSeconds adds delta (which may be negative) to the total.
func (s *Store) AdjustTaskSeconds(id, delta int64) error {
	return s.exec("adjust task time", `UPDATE tasks SET total_seconds = total_seconds + ? WHERE id = ?`, delta, id)
}

func (s *Store) RenameTask(id int64, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("rename task: name is required")
	}
	return s.exec("rename task", `UPDATE tasks SET name = ? WHERE id = ?`, name, id)
}

// SetTaskNote stores note, or NULL when note is nil.
func (s *Store) SetTaskNote(id int64, note *string) error {
	return s.exec("update task note", `UPDATE tasks SET note = ? WHERE id = ?`, note, id)
}

func (s *Store) DeleteTask(id int64) error {
	return s.exec("delete task", `DELETE FROM tasks WHERE id = ?`, id)
}

func (s *Store) exec(what, query string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

// ListTasksInRange returns tasks dated within [start, end], newest first.
func (s *Store) ListTasksInRange(start, end string) ([]Task, error) {
	from, err := NormalizeDate(start)
	if err != nil {
		return nil, err
	}
	to, err := NormalizeDate(end)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.queryTasks(
		`SELECT `+taskColumns+` FROM tasks
		 WHERE date(created_at) >= ? AND date(created_at) <= ?
		 ORDER BY created_at DESC, id DESC`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks in range: %w", err)
	}
	return tasks, nil
}

// RecentTaskNames returns distinct task names ordered by the most recent
// task carrying each name. limit is clamped to 1..MaxRecentNames.
func (s *Store) RecentTaskNames(limit int) ([]string, error) {
	if limit <= 0 || limit > MaxRecentNames {
		limit = MaxRecentNames
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT name FROM tasks
		GROUP BY name
		ORDER BY MAX(created_at) DESC, MAX(id) DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent task names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// DailyTotals sums total_seconds per date within [start, end], oldest first.
// Dates without tasks are omitted.
func (s *Store) DailyTotals(start, end string) ([]DailyTotal, error) {
	from, err := NormalizeDate(start)
	if err != nil {
		return nil, err
	}
	to, err := NormalizeDate(end)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT date(created_at) AS day, COALESCE(SUM(total_seconds), 0), COUNT(*)
		FROM tasks
		WHERE date(created_at) >= ? AND date(created_at) <= ?
		GROUP BY day
		ORDER BY day`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	defer rows.Close()

	var totals []DailyTotal
	for rows.Next() {
		var dt DailyTotal
		if err := rows.Scan(&dt.Date, &dt.TotalSeconds, &dt.TaskCount); err != nil {
			return nil, err
		}
		totals = append(totals, dt)
	}
	return totals, rows.Err()
}
