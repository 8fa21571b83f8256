package models

// Filter selects tasks by status. FilterAll disables the status constraint.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterPending    Filter = Filter(StatusPending)
	FilterInProgress Filter = Filter(StatusInProgress)
	FilterCompleted  Filter = Filter(StatusCompleted)
)

// Status returns the status the filter constrains to, and false for
// FilterAll or any unrecognized value.
func (f Filter) Status() (Status, bool) {
	s := Status(f)
	if s.Valid() {
		return s, true
	}
	return "", false
}

// Sort names a list ordering. Any value other than the two due-date sorts
// falls back to newest-created first.
type Sort string

const (
	SortDueDateAsc  Sort = "due_date_asc"
	SortDueDateDesc Sort = "due_date_desc"
	SortDefault     Sort = ""
)

// SortField is a sortable task column.
type SortField string

const (
	SortFieldDueDate   SortField = "due_date"
	SortFieldCreatedAt SortField = "created_at"
)

// Order resolves s to a column and direction.
func (s Sort) Order() (field SortField, descending bool) {
	switch s {
	case SortDueDateAsc:
		return SortFieldDueDate, false
	case SortDueDateDesc:
		return SortFieldDueDate, true
	default:
		return SortFieldCreatedAt, true
	}
}
