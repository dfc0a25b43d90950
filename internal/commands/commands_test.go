package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/timetracker/internal/store"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *store.Store) {
	t.Helper()
	s, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s), s
}

// invoke calls name with args marshalled to JSON and requires success.
func invoke(t *testing.T, d *Dispatcher, name string, args any) any {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	resp := d.Invoke(name, raw)
	require.True(t, resp.OK(), "%s failed: %s", name, resp.Error)
	return resp.Result
}

func mustCreateTask(t *testing.T, d *Dispatcher, name, date string) *store.Task {
	t.Helper()
	res := invoke(t, d, "create_task", map[string]any{"name": name, "date": date})
	task, ok := res.(*store.Task)
	require.True(t, ok, "create_task returned %T", res)
	return task
}

func mustGetTask(t *testing.T, d *Dispatcher, id int64) *store.Task {
	t.Helper()
	res := invoke(t, d, "get_task_by_id", map[string]any{"task_id": id})
	if res == nil {
		return nil
	}
	return res.(*store.Task)
}

func TestNames(t *testing.T) {
	d, _ := newTestDispatcher(t)
	want := []string{
		"add_time_to_task", "adjust_task_time", "create_favourite", "create_task",
		"delete_favourite", "delete_task", "get_favourites", "get_task_by_id",
		"get_tasks_for_date", "get_tasks_in_range", "get_todays_tasks",
		"get_unique_task_names", "update_task_name", "update_task_note", "update_task_time",
	}
	assert.Equal(t, want, d.Names())
}

func TestUnknownCommand(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := d.Invoke("drop_tables", nil)
	assert.False(t, resp.OK())
	assert.Equal(t, `unknown command "drop_tables"`, resp.Error)
}

func TestCreateTaskDefaults(t *testing.T) {
	d, _ := newTestDispatcher(t)
	task := mustCreateTask(t, d, "Writing", "2024-03-01")
	assert.Equal(t, int64(1), task.ID)
	assert.Equal(t, int64(0), task.TotalSeconds)
	assert.Equal(t, "2024-03-01 00:00:00", task.CreatedAt)
	assert.Nil(t, task.Note)

	got := mustGetTask(t, d, task.ID)
	require.NotNil(t, got)
	assert.Equal(t, task.CreatedAt, got.CreatedAt)
}

func TestCreateTaskInitialSeconds(t *testing.T) {
	d, _ := newTestDispatcher(t)
	res := invoke(t, d, "create_task", map[string]any{"name": "Preset", "date": "2024-03-01", "initial_seconds": 900})
	assert.Equal(t, int64(900), res.(*store.Task).TotalSeconds)
}

func TestExampleScenario(t *testing.T) {
	d, _ := newTestDispatcher(t)
	task := mustCreateTask(t, d, "Writing", "2024-03-01")
	require.Equal(t, int64(1), task.ID)

	invoke(t, d, "add_time_to_task", map[string]any{"task_id": 1, "seconds_to_add": 1500})
	assert.Equal(t, int64(1500), mustGetTask(t, d, 1).TotalSeconds)

	invoke(t, d, "adjust_task_time", map[string]any{"task_id": 1, "seconds_to_adjust": -300})

	res := invoke(t, d, "get_tasks_for_date", map[string]any{"date": "2024-03-01"})
	tasks := res.([]store.Task)
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(1), tasks[0].ID)
	assert.Equal(t, int64(1200), tasks[0].TotalSeconds)
}

func TestAddAndAdjustAreEquivalent(t *testing.T) {
	for _, delta := range []int64{0, 1, 60, -45, 3600} {
		t.Run(fmt.Sprint(delta), func(t *testing.T) {
			d, _ := newTestDispatcher(t)
			a := mustCreateTask(t, d, "A", "2024-03-01")
			b := mustCreateTask(t, d, "B", "2024-03-01")
			invoke(t, d, "update_task_time", map[string]any{"task_id": a.ID, "total_seconds": 100})
			invoke(t, d, "update_task_time", map[string]any{"task_id": b.ID, "total_seconds": 100})

			invoke(t, d, "add_time_to_task", map[string]any{"task_id": a.ID, "seconds_to_add": delta})
			invoke(t, d, "adjust_task_time", map[string]any{"task_id": b.ID, "seconds_to_adjust": delta})

			assert.Equal(t, 100+delta, mustGetTask(t, d, a.ID).TotalSeconds)
			assert.Equal(t, mustGetTask(t, d, a.ID).TotalSeconds, mustGetTask(t, d, b.ID).TotalSeconds)
		})
	}
}

func TestUpdateTaskTimeIsAbsolute(t *testing.T) {
	d, _ := newTestDispatcher(t)
	task := mustCreateTask(t, d, "A", "2024-03-01")
	invoke(t, d, "add_time_to_task", map[string]any{"task_id": task.ID, "seconds_to_add": 5000})
	invoke(t, d, "update_task_time", map[string]any{"task_id": task.ID, "total_seconds": 42})
	assert.Equal(t, int64(42), mustGetTask(t, d, task.ID).TotalSeconds)
}

func TestGetTasksInRange(t *testing.T) {
	d, _ := newTestDispatcher(t)
	mustCreateTask(t, d, "Before", "2024-02-29")
	mustCreateTask(t, d, "First", "2024-03-01")
	mustCreateTask(t, d, "Last", "2024-03-03")
	mustCreateTask(t, d, "After", "2024-03-04")

	res := invoke(t, d, "get_tasks_in_range", map[string]any{"start_date": "2024-03-01", "end_date": "2024-03-03"})
	tasks := res.([]store.Task)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Last", tasks[0].Name)
	assert.Equal(t, "First", tasks[1].Name)
}

func TestUpdateNameAndNote(t *testing.T) {
	d, _ := newTestDispatcher(t)
	task := mustCreateTask(t, d, "Old", "2024-03-01")

	invoke(t, d, "update_task_name", map[string]any{"task_id": task.ID, "new_name": "New"})
	invoke(t, d, "update_task_note", map[string]any{"task_id": task.ID, "note": "remember"})
	got := mustGetTask(t, d, task.ID)
	assert.Equal(t, "New", got.Name)
	require.NotNil(t, got.Note)
	assert.Equal(t, "remember", *got.Note)

	// An absent note clears it.
	invoke(t, d, "update_task_note", map[string]any{"task_id": task.ID})
	assert.Nil(t, mustGetTask(t, d, task.ID).Note)

	invoke(t, d, "update_task_note", map[string]any{"task_id": task.ID, "note": nil})
	assert.Nil(t, mustGetTask(t, d, task.ID).Note)
}

func TestDeleteTaskAndMissingIDs(t *testing.T) {
	d, _ := newTestDispatcher(t)
	task := mustCreateTask(t, d, "A", "2024-03-01")

	invoke(t, d, "delete_task", map[string]any{"task_id": task.ID})
	assert.Nil(t, mustGetTask(t, d, task.ID))

	// Missing ids are acknowledged, not errors.
	invoke(t, d, "delete_task", map[string]any{"task_id": 999})
	invoke(t, d, "update_task_time", map[string]any{"task_id": 999, "total_seconds": 1})
	invoke(t, d, "delete_favourite", map[string]any{"id": 999})
}

func TestGetTaskByIDNotFound(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := d.Invoke("get_task_by_id", json.RawMessage(`{"task_id": 12}`))
	require.True(t, resp.OK())
	assert.Nil(t, resp.Result)

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"result": null}`, string(out))
}

func TestGetUniqueTaskNames(t *testing.T) {
	d, _ := newTestDispatcher(t)
	for i := 0; i < 55; i++ {
		mustCreateTask(t, d, fmt.Sprintf("N%d", i%52), "2024-03-01")
	}
	res := invoke(t, d, "get_unique_task_names", nil)
	names := res.([]string)
	assert.Len(t, names, 50)
}

func TestEmptyListsEncodeAsArrays(t *testing.T) {
	d, _ := newTestDispatcher(t)
	for _, name := range []string{"get_todays_tasks", "get_favourites", "get_unique_task_names"} {
		out, err := json.Marshal(d.Invoke(name, nil))
		require.NoError(t, err)
		assert.JSONEq(t, `{"result": []}`, string(out), name)
	}
}

func TestFavouriteRoundTrip(t *testing.T) {
	d, _ := newTestDispatcher(t)
	res := invoke(t, d, "create_favourite", map[string]any{"name": "Standup", "duration_seconds": 900})
	id, ok := res.(int64)
	require.True(t, ok, "create_favourite returned %T", res)

	favs := invoke(t, d, "get_favourites", nil).([]store.Favourite)
	require.Len(t, favs, 1)
	assert.Equal(t, store.Favourite{ID: id, Name: "Standup", DurationSeconds: 900}, favs[0])

	invoke(t, d, "delete_favourite", map[string]any{"id": id})
	assert.Empty(t, invoke(t, d, "get_favourites", nil))
}

func TestArgumentErrors(t *testing.T) {
	d, _ := newTestDispatcher(t)
	tests := []struct {
		command string
		args    string
		want    string
	}{
		{"create_task", `{"date": "2024-03-01"}`, "invalid arguments for create_task: missing name"},
		{"create_task", `{"name": "x"}`, "invalid arguments for create_task: missing date"},
		{"get_tasks_for_date", `{}`, "invalid arguments for get_tasks_for_date: missing date"},
		{"update_task_time", `{"task_id": 1}`, "invalid arguments for update_task_time: missing total_seconds"},
		{"add_time_to_task", `{"seconds_to_add": 1}`, "invalid arguments for add_time_to_task: missing task_id"},
		{"adjust_task_time", `{"task_id": 1}`, "invalid arguments for adjust_task_time: missing seconds_to_adjust"},
		{"get_tasks_in_range", `{"start_date": "2024-03-01"}`, "invalid arguments for get_tasks_in_range: missing end_date"},
		{"update_task_name", `{"task_id": 1}`, "invalid arguments for update_task_name: missing new_name"},
		{"delete_favourite", `{}`, "invalid arguments for delete_favourite: missing id"},
		{"create_favourite", `{"name": "x"}`, "invalid arguments for create_favourite: missing duration_seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.command+" "+tt.args, func(t *testing.T) {
			resp := d.Invoke(tt.command, json.RawMessage(tt.args))
			assert.Equal(t, tt.want, resp.Error)
		})
	}
}

func TestMalformedArguments(t *testing.T) {
	d, _ := newTestDispatcher(t)

	resp := d.Invoke("delete_task", json.RawMessage(`{"task_id": "one"}`))
	assert.Contains(t, resp.Error, "invalid arguments for delete_task")

	resp = d.Invoke("delete_task", json.RawMessage(`{"taskId": 1}`))
	assert.Contains(t, resp.Error, "unknown field")

	resp = d.Invoke("get_todays_tasks", json.RawMessage(`[1, 2]`))
	assert.Contains(t, resp.Error, "invalid arguments for get_todays_tasks")
}

func TestStoreErrorsBecomeStrings(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := d.Invoke("create_task", json.RawMessage(`{"name": "x", "date": "not-a-date"}`))
	assert.False(t, resp.OK())
	assert.Contains(t, resp.Error, "invalid date")
	assert.Nil(t, resp.Result)
}

type failingRepo struct{ Repository }

func (failingRepo) ListFavourites() ([]store.Favourite, error) {
	return nil, errors.New("list favourites: disk I/O error")
}

func TestRepositoryFailure(t *testing.T) {
	d := New(failingRepo{})
	resp := d.Invoke("get_favourites", nil)
	assert.Equal(t, "list favourites: disk I/O error", resp.Error)
	assert.Nil(t, resp.Result)
}
