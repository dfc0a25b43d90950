package store

// Task is a named, date-bucketed accumulator of tracked seconds.
type Task struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	TotalSeconds int64   `json:"total_seconds"`
	CreatedAt    string  `json:"created_at"` // "YYYY-MM-DD HH:MM:SS", local time
	Note         *string `json:"note"`
}

// Date returns the calendar date part of CreatedAt.
func (t Task) Date() string {
	if len(t.CreatedAt) < len(dateLayout) {
		return t.CreatedAt
	}
	return t.CreatedAt[:len(dateLayout)]
}

// Favourite is a named duration preset. It is a template, not a reference:
// tasks created from it keep no link back.
type Favourite struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationSeconds int64  `json:"duration_seconds"`
}

// DailyTotal is the sum of tracked seconds for one calendar date.
type DailyTotal struct {
	Date         string
	TotalSeconds int64
	TaskCount    int
}
