package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/taskboard/internal/constants"
	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/slots"
)

var (
	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	inProgressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().Bold(true)
)

// StatusBadge renders a task status for terminal listings.
func StatusBadge(status models.Status) string {
	label := fmt.Sprintf("[%s]", status)
	switch status {
	case models.StatusPending:
		return pendingStyle.Render(label)
	case models.StatusInProgress:
		return inProgressStyle.Render(label)
	case models.StatusCompleted:
		return completedStyle.Render(label)
	default:
		return mutedStyle.Render(label)
	}
}

func dueLabel(t models.Task) string {
	if t.DueDate == nil {
		return constants.NoDueDateLabel
	}
	return *t.DueDate
}

func slotLabel(t models.Task) string {
	if t.TimeSlot == "" {
		return "unscheduled"
	}
	return t.TimeSlot
}

// PrintTaskLine writes the one-line listing form of t.
func PrintTaskLine(w io.Writer, t models.Task, showOwner bool) {
	fmt.Fprintf(w, "  %s %s  %s  due %s  %s\n",
		StatusBadge(t.Status), titleStyle.Render(t.Title), mutedStyle.Render(t.ID), dueLabel(t), slotLabel(t))
	if showOwner {
		fmt.Fprintf(w, "      owner: %s\n", t.OwnerID)
	}
}

// PrintTaskDetail writes every field of t.
func PrintTaskDetail(w io.Writer, t models.Task) {
	description := t.Description
	if description == "" {
		description = constants.NoDescription
	}
	fmt.Fprintf(w, "%s %s\n", StatusBadge(t.Status), titleStyle.Render(t.Title))
	fmt.Fprintf(w, "  ID:          %s\n", t.ID)
	fmt.Fprintf(w, "  Owner:       %s\n", t.OwnerID)
	fmt.Fprintf(w, "  Due:         %s\n", dueLabel(t))
	fmt.Fprintf(w, "  Time slot:   %s\n", slotLabel(t))
	fmt.Fprintf(w, "  Description: %s\n", description)
	fmt.Fprintf(w, "  Created:     %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "  Updated:     %s\n", t.UpdatedAt.Local().Format("2006-01-02 15:04"))
}

// PrintSlots writes the slot grid, marking slots that cannot be chosen.
func PrintSlots(w io.Writer, a slots.Availability) {
	for _, s := range slots.All() {
		if !a.Selectable(s) {
			fmt.Fprintf(w, "  %s  %s\n", s, mutedStyle.Render("(Occupied)"))
			continue
		}
		fmt.Fprintf(w, "  %s\n", s)
	}
}

// PrintBoardSummary prints how many tasks sit in each status.
func PrintBoardSummary(w io.Writer, tasks []models.Task) {
	counts := map[models.Status]int{}
	for _, t := range tasks {
		counts[t.Status]++
	}
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Board: %d pending, %d in-progress, %d completed",
		counts[models.StatusPending], counts[models.StatusInProgress], counts[models.StatusCompleted])))
}
