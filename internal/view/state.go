// Package view holds the Kanban/Table view state: the drag-and-drop state
// machine and the table's sort and filter rules. Everything here is pure
// and independent of the UI toolkit that renders it.
package view

import (
	"github.com/gofrs/uuid"

	"github.com/HannanShehzad/TaskManager/internal/models"
)

// Mode selects which of the two mutually exclusive renderings is active.
type Mode int

const (
	ModeKanban Mode = iota
	ModeTable
)

// MoveIntent is the mutation a completed drop asks the task cache to issue.
type MoveIntent struct {
	TaskID uuid.UUID
	Status string
}

// DragMachine is the Kanban drag-and-drop state machine. It has two states,
// idle and dragging; at most one task can be dragged at a time.
type DragMachine struct {
	taskID     uuid.UUID
	fromStatus string
}

// Dragging returns the task currently held, if any.
func (d *DragMachine) Dragging() (uuid.UUID, bool) {
	return d.taskID, d.taskID != uuid.Nil
}

// Start moves idle -> dragging(taskID). It is a no-op returning false while
// another task is already held.
func (d *DragMachine) Start(taskID uuid.UUID, currentStatus string) bool {
	if d.taskID != uuid.Nil || taskID == uuid.Nil {
		return false
	}
	d.taskID = taskID
	d.fromStatus = currentStatus
	return true
}

// Drop completes the drag onto a lane. If the lane differs from the task's
// current status it returns the update intent to emit; dropping onto the
// task's own lane is a no-op, not an error. Either way the machine returns
// to idle.
func (d *DragMachine) Drop(laneStatus string) (MoveIntent, bool) {
	if d.taskID == uuid.Nil {
		return MoveIntent{}, false
	}
	intent := MoveIntent{TaskID: d.taskID, Status: laneStatus}
	emit := laneStatus != d.fromStatus && models.ValidStatus(laneStatus)

	d.taskID = uuid.Nil
	d.fromStatus = ""

	if !emit {
		return MoveIntent{}, false
	}
	return intent, true
}

// Cancel abandons the drag (drop outside any lane, or escape). No mutation
// is emitted.
func (d *DragMachine) Cancel() {
	d.taskID = uuid.Nil
	d.fromStatus = ""
}

// Lanes groups a snapshot into the three status lanes, preserving the
// snapshot's order within each lane.
func Lanes(tasks []models.Task) map[string][]models.Task {
	lanes := make(map[string][]models.Task, len(models.Statuses))
	for _, status := range models.Statuses {
		lanes[status] = nil
	}
	for _, t := range tasks {
		lanes[t.Status] = append(lanes[t.Status], t)
	}
	return lanes
}
