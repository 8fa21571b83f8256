package notifier

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/julianstephens/taskboard/internal/constants"
	"github.com/julianstephens/taskboard/internal/models"
)

// Payload is one "task written" notification.
type Payload struct {
	Action      models.TaskAction `json:"action"`
	TaskID      string            `json:"task_id"`
	Title       string            `json:"title"`
	Status      models.Status     `json:"status"`
	DueDate     string            `json:"due_date"`
	Description string            `json:"description"`
	OwnerEmail  string            `json:"owner_email"`
}

// NewPayload renders an event for humans: an untitled task is called
// "Untitled Task" and absent fields get readable placeholders.
func NewPayload(e models.TaskEvent, ownerEmail string) Payload {
	p := Payload{
		Action:      e.Action,
		TaskID:      e.TaskID,
		Title:       e.Title,
		Status:      e.Status,
		DueDate:     constants.NoDueDateLabel,
		Description: e.Description,
		OwnerEmail:  ownerEmail,
	}
	if p.Title == "" {
		p.Title = constants.UntitledTaskTitle
	}
	if p.Status == "" {
		p.Status = models.StatusPending
	}
	if e.DueDate != nil && *e.DueDate != "" {
		p.DueDate = *e.DueDate
	}
	if p.Description == "" {
		p.Description = constants.NoDescription
	}
	return p
}

// Subject is the mail subject line, e.g. "Task created: Write report".
func (p Payload) Subject() string {
	return fmt.Sprintf("Task %s: %s", p.Action, p.Title)
}

var bodyTemplate = template.Must(template.New("body").Parse(`<h2>Your task was {{.Action}}!</h2>
<p><strong>Title:</strong> {{.Title}}</p>
<p><strong>Status:</strong> {{.Status}}</p>
<p><strong>Due Date:</strong> {{.DueDate}}</p>
<p><strong>Description:</strong> {{.Description}}</p>
<hr>
<p>This is an automated message from taskboard.</p>
`))

// HTMLBody renders the mail body. Task fields are escaped.
func (p Payload) HTMLBody() (string, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}
