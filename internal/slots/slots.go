// Package slots works out which of the fixed daily time slots a task may
// take, given the tasks the acting principal can already see.
package slots

import (
	"github.com/julianstephens/taskboard/internal/constants"
	"github.com/julianstephens/taskboard/internal/models"
)

// All returns the fixed slot set in display order.
func All() []string {
	out := make([]string, len(constants.TimeSlots))
	copy(out, constants.TimeSlots)
	return out
}

// Valid reports whether slot is one of the fixed slots.
func Valid(slot string) bool {
	for _, s := range constants.TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Availability partitions the fixed slots for one candidate task.
// Free and Occupied keep the fixed display order.
type Availability struct {
	Free     []string
	Occupied []string
	// ReadOnly marks a view-only evaluation: every slot stays selectable.
	ReadOnly bool

	occupied map[string]bool
}

// Available computes slot availability for candidateID against the
// visible tasks. The candidate's own slot never counts as occupied, so a
// task being edited can keep its slot. candidateID is "" when creating.
func Available(candidateID string, visible []models.Task, readOnly bool) Availability {
	taken := make(map[string]bool)
	for _, t := range visible {
		if t.TimeSlot == "" || (candidateID != "" && t.ID == candidateID) {
			continue
		}
		taken[t.TimeSlot] = true
	}

	a := Availability{
		Free:     []string{},
		Occupied: []string{},
		ReadOnly: readOnly,
		occupied: taken,
	}
	for _, s := range constants.TimeSlots {
		if taken[s] {
			a.Occupied = append(a.Occupied, s)
		} else {
			a.Free = append(a.Free, s)
		}
	}
	return a
}

// Selectable reports whether slot may be chosen. The empty slot always can.
func (a Availability) Selectable(slot string) bool {
	if slot == "" {
		return true
	}
	if !Valid(slot) {
		return false
	}
	return a.ReadOnly || !a.occupied[slot]
}

// IsOccupied reports whether another visible task holds slot.
func (a Availability) IsOccupied(slot string) bool {
	return a.occupied[slot]
}

// AllOccupied reports whether no slot is free.
func (a Availability) AllOccupied() bool {
	return len(a.Free) == 0
}

// NeedsNotice reports whether to tell the user that every slot is taken.
// It is advisory and only applies to a writable create form with no slot
// chosen yet.
func (a Availability) NeedsNotice(creating bool, chosen string) bool {
	return !a.ReadOnly && creating && chosen == "" && a.AllOccupied()
}
