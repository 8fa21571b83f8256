package models

import (
	"strings"
	"time"

	"github.com/julianstephens/taskboard/internal/constants"
	apperrors "github.com/julianstephens/taskboard/internal/errors"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the three task statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	DueDate     *string   `json:"due_date"`  // YYYY-MM-DD, null when unset
	TimeSlot    string    `json:"time_slot"` // "" when unscheduled
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Normalize applies the read-side defaults: a blank due date becomes null.
// TimeSlot is already "" when absent.
func (t *Task) Normalize() {
	if t.DueDate != nil && strings.TrimSpace(*t.DueDate) == "" {
		t.DueDate = nil
	}
}

// TaskInput carries the caller-supplied fields for a new task. Owner and
// timestamps are never taken from the caller.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	TimeSlot    string `json:"time_slot,omitempty"`
}

// Validate checks the input and applies creation defaults in place.
func (in *TaskInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperrors.Invalid("title is required")
	}
	if in.Status == "" {
		in.Status = StatusPending
	}
	if !in.Status.Valid() {
		return apperrors.Invalid("unknown status %q", in.Status)
	}
	if err := validateDueDate(in.DueDate); err != nil {
		return err
	}
	return validateTimeSlot(in.TimeSlot)
}

// DueDatePtr returns the due date as stored: nil when unset.
func (in TaskInput) DueDatePtr() *string {
	return optionalDate(in.DueDate)
}

// TaskPatch enumerates exactly the fields an update may touch. A nil field
// is left unchanged. Owner and timestamps have no field here.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *Status `json:"status,omitempty"`
	// DueDate set to "" clears the date.
	DueDate *string `json:"due_date,omitempty"`
	// TimeSlot set to "" unschedules the task.
	TimeSlot *string `json:"time_slot,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.DueDate == nil && p.TimeSlot == nil
}

func (p *TaskPatch) Validate() error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return apperrors.Invalid("title cannot be empty")
		}
		p.Title = &title
	}
	if p.Status != nil && !p.Status.Valid() {
		return apperrors.Invalid("unknown status %q", *p.Status)
	}
	if p.DueDate != nil {
		if err := validateDueDate(*p.DueDate); err != nil {
			return err
		}
	}
	if p.TimeSlot != nil {
		return validateTimeSlot(*p.TimeSlot)
	}
	return nil
}

// Apply merges the patch over t. It never touches owner or timestamps.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		t.DueDate = optionalDate(*p.DueDate)
	}
	if p.TimeSlot != nil {
		t.TimeSlot = *p.TimeSlot
	}
}

func validateDueDate(date string) error {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil
	}
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return apperrors.Invalid("invalid due date %q (expected YYYY-MM-DD)", date)
	}
	return nil
}

func validateTimeSlot(slot string) error {
	if slot == "" {
		return nil
	}
	for _, s := range constants.TimeSlots {
		if s == slot {
			return nil
		}
	}
	return apperrors.Invalid("unknown time slot %q", slot)
}

func optionalDate(date string) *string {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil
	}
	return &date
}
