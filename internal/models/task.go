package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Task statuses. The literal values are part of the API contract and match
// what clients render as lane titles, so they keep their display spelling.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Statuses lists every valid task status in lifecycle order.
var Statuses = []string{StatusPending, StatusInProgress, StatusCompleted}

// ValidStatus reports whether s is one of the three task statuses.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Task is a single task record. Every task belongs to exactly one owner and
// is only ever visible to that owner. Deletes are hard deletes.
type Task struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index:idx_tasks_owner_status"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	DueDate     time.Time `json:"due_date" gorm:"type:timestamp;not null"`
	Status      string    `json:"status" gorm:"not null;default:'Pending';index:idx_tasks_owner_status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
