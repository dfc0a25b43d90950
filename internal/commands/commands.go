// Package commands routes named UI requests to the task and favourite
// repositories. Arguments arrive as a JSON object and failures leave as
// plain strings, which is what the front ends display.
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/sadopc/timetracker/internal/store"
)

// Repository is the storage surface the commands need. *store.Store
// implements it.
type Repository interface {
	ListTasksForDate(date string) ([]store.Task, error)
	ListTodaysTasks() ([]store.Task, error)
	CreateTask(name, date string, initialSeconds int64) (*store.Task, error)
	SetTaskSeconds(id, totalSeconds int64) error
	AdjustTaskSeconds(id, delta int64) error
	ListTasksInRange(start, end string) ([]store.Task, error)
	RenameTask(id int64, name string) error
	DeleteTask(id int64) error
	RecentTaskNames(limit int) ([]string, error)
	GetTask(id int64) (*store.Task, error)
	SetTaskNote(id int64, note *string) error
	ListFavourites() ([]store.Favourite, error)
	CreateFavourite(name string, durationSeconds int64) (int64, error)
	DeleteFavourite(id int64) error
}

// Response is the outcome of one request. Exactly one of Result and Error is
// meaningful; Result is nil for acknowledgement-only commands.
type Response struct {
	Result any    `json:"result"`
	Error  string `json:"error,omitempty"`
}

// OK reports whether the request succeeded.
func (r Response) OK() bool { return r.Error == "" }

type handler func(repo Repository, args json.RawMessage) (any, error)

// Dispatcher maps command names to handlers.
type Dispatcher struct {
	repo     Repository
	handlers map[string]handler
}

func New(repo Repository) *Dispatcher {
	return &Dispatcher{repo: repo, handlers: registry()}
}

// Names returns the registered command names, sorted.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.handlers))
	for n := range d.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named command. args may be empty for commands without
// parameters.
func (d *Dispatcher) Invoke(name string, args json.RawMessage) Response {
	h, ok := d.handlers[name]
	if !ok {
		slog.Warn("unknown command", "command", name)
		return Response{Error: fmt.Sprintf("unknown command %q", name)}
	}

	slog.Debug("invoke", "command", name)
	result, err := h(d.repo, args)
	if err != nil {
		slog.Warn("command failed", "command", name, "error", err)
		return Response{Error: err.Error()}
	}
	return Response{Result: result}
}

// decode unmarshals args into v, treating empty input as an empty object.
// Unknown fields are rejected so a misspelled parameter is not silently
// defaulted.
func decode(name string, args json.RawMessage, v any) error {
	args = bytes.TrimSpace(args)
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid arguments for %s: %v", name, err)
	}
	return nil
}

func missing(name, param string) error {
	return fmt.Errorf("invalid arguments for %s: missing %s", name, param)
}
