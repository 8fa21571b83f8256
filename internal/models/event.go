package models

import "time"

type TaskAction string

const (
	ActionCreated TaskAction = "created"
	ActionUpdated TaskAction = "updated"
)

// TaskEvent is one entry of the store's task change feed, a snapshot of the
// task as written. Deletes produce no event.
type TaskEvent struct {
	Seq         int64
	TaskID      string
	Action      TaskAction
	OwnerID     string
	Title       string
	Description string
	Status      Status
	DueDate     *string
	OccurredAt  time.Time
}
