package tui

import (
	"time"

	"github.com/sadopc/timetracker/internal/store"
)

// timerModel tracks at most one task at a time. Elapsed time is written to
// the task only when tracking stops.
type timerModel struct {
	store *store.Store
	now   func() time.Time

	active    bool
	startTime time.Time
	taskID    int64
	taskName  string
}

func newTimerModel(s *store.Store) timerModel {
	return timerModel{
		store: s,
		now:   time.Now,
	}
}

// start begins tracking task. Tracking the task already being tracked is a
// no-op; tracking a different one stops and saves the current task first.
func (t *timerModel) start(task store.Task) (saved int64, err error) {
	if t.active && t.taskID == task.ID {
		return 0, nil
	}
	if saved, err = t.stop(); err != nil {
		return 0, err
	}
	t.active = true
	t.startTime = t.now()
	t.taskID = task.ID
	t.taskName = task.Name
	return saved, nil
}

// stop ends tracking and adds the whole elapsed seconds to the task. On a
// store error the timer keeps running so the time is not lost.
func (t *timerModel) stop() (int64, error) {
	if !t.active {
		return 0, nil
	}
	secs := int64(t.currentElapsed() / time.Second)
	if secs > 0 {
		if err := t.store.AdjustTaskSeconds(t.taskID, secs); err != nil {
			return 0, err
		}
	}
	t.active = false
	t.taskID = 0
	t.taskName = ""
	return secs, nil
}

// forget drops tracking without saving, used when the task is deleted.
func (t *timerModel) forget(taskID int64) {
	if t.active && t.taskID == taskID {
		t.active = false
		t.taskID = 0
		t.taskName = ""
	}
}

func (t *timerModel) rename(taskID int64, name string) {
	if t.active && t.taskID == taskID {
		t.taskName = name
	}
}

// restart discards unsaved elapsed time, used when the task's total is
// overwritten.
func (t *timerModel) restart(taskID int64) {
	if t.active && t.taskID == taskID {
		t.startTime = t.now()
	}
}

func (t timerModel) running() bool {
	return t.active
}

func (t timerModel) tracking(taskID int64) bool {
	return t.active && t.taskID == taskID
}

func (t timerModel) currentElapsed() time.Duration {
	if !t.active {
		return 0
	}
	d := t.now().Sub(t.startTime)
	if d < 0 {
		return 0
	}
	return d
}
