package models

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/julianstephens/taskboard/internal/errors"
)

func strPtr(s string) *string { return &s }

func TestTaskInputValidate(t *testing.T) {
	tests := []struct {
		name       string
		input      TaskInput
		wantErr    bool
		wantStatus Status
	}{
		{name: "minimal input defaults to pending", input: TaskInput{Title: "Write report"}, wantStatus: StatusPending},
		{name: "explicit status kept", input: TaskInput{Title: "a", Status: StatusCompleted}, wantStatus: StatusCompleted},
		{name: "blank title rejected", input: TaskInput{Title: "   "}, wantErr: true},
		{name: "unknown status rejected", input: TaskInput{Title: "a", Status: "blocked"}, wantErr: true},
		{name: "bad due date rejected", input: TaskInput{Title: "a", DueDate: "12/01/2026"}, wantErr: true},
		{name: "valid due date accepted", input: TaskInput{Title: "a", DueDate: "2026-12-01"}, wantStatus: StatusPending},
		{name: "unknown slot rejected", input: TaskInput{Title: "a", TimeSlot: "08:00-09:00"}, wantErr: true},
		{name: "known slot accepted", input: TaskInput{Title: "a", TimeSlot: "09:00-10:00"}, wantStatus: StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			err := in.Validate()
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrInvalidInput) {
					t.Fatalf("Validate() error = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if in.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", in.Status, tt.wantStatus)
			}
		})
	}
}

func TestTaskInputDueDatePtr(t *testing.T) {
	if (TaskInput{}).DueDatePtr() != nil {
		t.Error("empty due date should map to nil")
	}
	got := TaskInput{DueDate: "2026-03-04"}.DueDatePtr()
	if got == nil || *got != "2026-03-04" {
		t.Errorf("DueDatePtr() = %v", got)
	}
}

func TestTaskPatchApply(t *testing.T) {
	created := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "t1",
		OwnerID:   "owner",
		Title:     "Old",
		Status:    StatusPending,
		DueDate:   strPtr("2026-02-01"),
		TimeSlot:  "09:00-10:00",
		CreatedAt: created,
		UpdatedAt: created,
	}

	status := StatusInProgress
	patch := TaskPatch{
		Title:    strPtr("New"),
		Status:   &status,
		DueDate:  strPtr(""),
		TimeSlot: strPtr(""),
	}
	if err := patch.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	patch.Apply(&task)

	if task.Title != "New" || task.Status != StatusInProgress {
		t.Errorf("fields not applied: %+v", task)
	}
	if task.DueDate != nil {
		t.Errorf("empty due date patch should clear to nil, got %q", *task.DueDate)
	}
	if task.TimeSlot != "" {
		t.Errorf("empty slot patch should unschedule, got %q", task.TimeSlot)
	}
	if task.OwnerID != "owner" || !task.CreatedAt.Equal(created) {
		t.Errorf("owner and timestamps must be untouched: %+v", task)
	}
}

func TestTaskPatchValidate(t *testing.T) {
	bad := Status("done")
	tests := []struct {
		name  string
		patch TaskPatch
	}{
		{name: "blank title", patch: TaskPatch{Title: strPtr(" ")}},
		{name: "bad status", patch: TaskPatch{Status: &bad}},
		{name: "bad date", patch: TaskPatch{DueDate: strPtr("tomorrow")}},
		{name: "bad slot", patch: TaskPatch{TimeSlot: strPtr("18:00-19:00")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.patch.Validate(); !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("Validate() = %v, want ErrInvalidInput", err)
			}
		})
	}

	if !(TaskPatch{}).Empty() {
		t.Error("zero patch should be empty")
	}
}

func TestTaskNormalize(t *testing.T) {
	task := Task{DueDate: strPtr(" ")}
	task.Normalize()
	if task.DueDate != nil {
		t.Error("blank due date should normalize to nil")
	}
}

func TestSortOrder(t *testing.T) {
	tests := []struct {
		sort      Sort
		wantField SortField
		wantDesc  bool
	}{
		{SortDueDateAsc, SortFieldDueDate, false},
		{SortDueDateDesc, SortFieldDueDate, true},
		{SortDefault, SortFieldCreatedAt, true},
		{Sort("bogus"), SortFieldCreatedAt, true},
		{Sort("created_at_asc"), SortFieldCreatedAt, true},
	}
	for _, tt := range tests {
		field, desc := tt.sort.Order()
		if field != tt.wantField || desc != tt.wantDesc {
			t.Errorf("Sort(%q).Order() = (%s, %v), want (%s, %v)", tt.sort, field, desc, tt.wantField, tt.wantDesc)
		}
	}
}

func TestFilterStatus(t *testing.T) {
	if _, ok := FilterAll.Status(); ok {
		t.Error("FilterAll should not constrain status")
	}
	if _, ok := Filter("archived").Status(); ok {
		t.Error("unknown filter should not constrain status")
	}
	if s, ok := FilterInProgress.Status(); !ok || s != StatusInProgress {
		t.Errorf("FilterInProgress.Status() = %q, %v", s, ok)
	}
}

func TestRoleAndPrincipal(t *testing.T) {
	if !RoleAdmin.Valid() || !RoleUser.Valid() || Role("owner").Valid() {
		t.Error("Role.Valid() mismatch")
	}
	var nilPrincipal *Principal
	if nilPrincipal.IsAdmin() {
		t.Error("nil principal is not admin")
	}
	if !(&Principal{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin principal should report IsAdmin")
	}
}
