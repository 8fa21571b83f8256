package storage

import (
	"fmt"
	"strings"

	"github.com/julianstephens/taskboard/internal/models"
)

// TaskQuery is an equality-filter query over the tasks collection with a
// single sort key. Empty OwnerID or Status means unconstrained.
type TaskQuery struct {
	OwnerID    string
	Status     models.Status
	OrderBy    models.SortField
	Descending bool
}

// Placeholder renders the n-th (1-based) bind parameter for a SQL dialect.
type Placeholder func(n int) string

// QuestionPlaceholder is the SQLite style.
func QuestionPlaceholder(int) string { return "?" }

// DollarPlaceholder is the PostgreSQL style.
func DollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

// BuildTaskQuery renders the WHERE and ORDER BY clauses for q. Null due
// dates sort lowest: first when ascending, last when descending. Ties
// fall back to newest-created then id so results are stable.
func BuildTaskQuery(q TaskQuery, ph Placeholder) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if q.OwnerID != "" {
		args = append(args, q.OwnerID)
		conds = append(conds, "owner_id = "+ph(len(args)))
	}
	if q.Status != "" {
		args = append(args, string(q.Status))
		conds = append(conds, "status = "+ph(len(args)))
	}

	var b strings.Builder
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}

	b.WriteString(" ORDER BY ")
	switch q.OrderBy {
	case models.SortFieldDueDate:
		if q.Descending {
			b.WriteString("due_date DESC NULLS LAST, ")
		} else {
			b.WriteString("due_date ASC NULLS FIRST, ")
		}
		b.WriteString("created_at DESC, id ASC")
	default:
		if q.Descending {
			b.WriteString("created_at DESC, id ASC")
		} else {
			b.WriteString("created_at ASC, id ASC")
		}
	}

	return b.String(), args
}
