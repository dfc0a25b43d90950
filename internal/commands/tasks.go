package commands

import (
	"encoding/json"

	"github.com/sadopc/timetracker/internal/store"
)

func registry() map[string]handler {
	return map[string]handler{
		"get_tasks_for_date":    getTasksForDate,
		"get_todays_tasks":      getTodaysTasks,
		"create_task":           createTask,
		"update_task_time":      updateTaskTime,
		"add_time_to_task":      addTimeToTask,
		"adjust_task_time":      adjustTaskTime,
		"get_tasks_in_range":    getTasksInRange,
		"update_task_name":      updateTaskName,
		"delete_task":           deleteTask,
		"get_unique_task_names": getUniqueTaskNames,
		"get_task_by_id":        getTaskByID,
		"update_task_note":      updateTaskNote,
		"get_favourites":        getFavourites,
		"create_favourite":      createFavourite,
		"delete_favourite":      deleteFavourite,
	}
}

func getTasksForDate(repo Repository, raw json.RawMessage) (any, error) {
	var args struct {
		Date *string `json:"date"`
	}
	if err := decode("get_tasks_for_date", raw, &args); err != nil {
		return nil, err
	}
	if args.Date == nil {
		return nil, missing("get_tasks_for_date", "date")
	}
	return repo.ListTasksForDate(*args.Date)
}

func getTodaysTasks(repo Repository, raw json.RawMessage) (any, error) {
	if err := decode("get_todays_tasks", raw, &struct{}{}); err != nil {
		return nil, err
	}
	return repo.ListTodaysTasks()
}

func createTask(repo Repository, raw json.RawMessage) (any, error) {
	var args struct {
		Name           *string `json:"name"`
		Date           *string `json:"date"`
		InitialSeconds *int64  `json:"initial_seconds"`
	}
	if err := decode("create_task", raw, &args); err != nil {
		return nil, err
	}
	if args.Name == nil {
		return nil, missing("create_task", "name")
	}
	if args.Date == nil {
		return nil, missing("create_task", "date")
	}
	var initial int64
	if args.InitialSeconds != nil {
		initial = *args.InitialSeconds
	}
	return repo.CreateTask(*args.Name, *args.Date, initial)
}

func updateTaskTime(repo Repository, raw json.RawMessage) (any, error) {
	var args struct {
		TaskID       *int64 `json:"task_id"`
		TotalSeconds *int64 `json:"total_seconds"`
	}
	if err := decode("update_task_time", raw, &args); err != nil {
		return nil, err
	}
	if args.TaskID == nil {
		return nil, missing("update_task_time", "task_id")
	}
	if args.TotalSeconds == nil {
		return nil, missing("update_task_time", "total_seconds")
	}
	return nil, repo.SetTaskSeconds(*args.TaskID, *args.TotalSeconds)
}

// add_time_to_task and adjust_task_time are the same signed-delta update
// under two parameter names.

func addTimeToTask(repo Repository, raw json.RawMessage) (any, error) {
	var args struct {
		TaskID       *int64 `json:"task_id"`
		SecondsToAdd *int64 `json:"seconds_to_add"`
	}
	if err := decode("add_time_to_task", raw, &args); err != nil {
		return nil, err
	}
	if args.TaskID == nil {
		return nil, missing("add_time_to_task", "task_id")
	}
	if args.SecondsToAdd == nil {
		return nil, missing("add_time_to_task", "seconds_to_add")
	}
	return nil, repo.AdjustTaskSeconds(*args.TaskID, *args.SecondsToAdd)
}

func adjustTaskTime(repo Repository, raw json.RawMessage) (any, error) {
	var args struct {
		TaskID          *int64 `json:"task_id"`
		SecondsToAdjust *int64 `json:"seconds_to_adjust"`
	}
	if err := decode("adjust_task_time", raw, &args); err != nil {
		return nil, err
	}
	if args.TaskID == nil {
		return nil, missing("adjust_task_time", "task_id")
	}
	if args.SecondsToAdjust == nil {
		return nil, missing("adjust_task_time", "seconds_to_adjust")
	}
	return nil, repo.AdjustTaskSeconds(*args.TaskID, *args.SecondsToAdjust)
}

func getTasksInRange(repo Repository, raw json.RawMessage) (any, error) {
	var args struct {
		StartDate *string `json:"start_date"`
		EndDate   *string `json:"end_date"`
	}
	if err := decode("get_tasks_in_range", raw, &args); err != nil {
		return nil, err
	}
	if args.StartDate == nil {
		return nil, missing("get_tasks_in_range", "start_date")
	}
	if args.EndDate == nil {
		return nil, missing("get_tasks_in_range", "end_date")
	}
	return repo.ListTasksInRange(*args.StartDate, *args.EndDate)
}

func updateTaskName(repo Repository, raw json.RawMessage) (any, error) {
	var args struct {
		TaskID  *int64  `json:"task_id"`
		NewName *string `json:"new_name"`
	}
	if err := decode("update_task_name", raw, &args); err != nil {
		return nil, err
	}
	if args.TaskID == nil {
		return nil, missing("update_task_name", "task_id")
	}
	if args.NewName == nil {
		return nil, missing("update_task_name", "new_name")
	}
	return nil, repo.RenameTask(*args.TaskID, *args.NewName)
}

func deleteTask(repo Repository, raw json.RawMessage) (any, error) {
	var args struct {
		TaskID *int64 `json:"task_id"`
	}
	if err := decode("delete_task", raw, &args); err != nil {
		return nil, err
	}
	if args.TaskID == nil {
		return nil, missing("delete_task", "task_id")
	}
	return nil, repo.DeleteTask(*args.TaskID)
}

func getUniqueTaskNames(repo Repository, raw json.RawMessage) (any, error) {
	if err := decode("get_unique_task_names", raw, &struct{}{}); err != nil {
		return nil, err
	}
	return repo.RecentTaskNames(store.MaxRecentNames)
}

func getTaskByID(repo Repository, raw json.RawMessage) (any, error) {
	var args struct {
		TaskID *int64 `json:"task_id"`
	}
	if err := decode("get_task_by_id", raw, &args); err != nil {
		return nil, err
	}
	if args.TaskID == nil {
		return nil, missing("get_task_by_id", "task_id")
	}
	task, err := repo.GetTask(*args.TaskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		// untyped nil, so Response.Result == nil holds
		return nil, nil
	}
	return task, nil
}

func updateTaskNote(repo Repository, raw json.RawMessage) (any, error) {
	var args struct {
		TaskID *int64  `json:"task_id"`
		Note   *string `json:"note"`
	}
	if err := decode("update_task_note", raw, &args); err != nil {
		return nil, err
	}
	if args.TaskID == nil {
		return nil, missing("update_task_note", "task_id")
	}
	return nil, repo.SetTaskNote(*args.TaskID, args.Note)
}
