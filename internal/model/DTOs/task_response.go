package dtos

import (
	"bean/internal/model"
)

// TaskResponse is how a task is rendered in API responses. Dates use the
// save layout and are omitted when the task type has none.
type TaskResponse struct {
	ID          string `json:"id"`
	Index       int    `json:"index"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
	By          string `json:"by,omitempty"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
	Display     string `json:"display"`
	SaveLine    string `json:"save_line"`
}

func FromModel(id string, index int, t *model.Task) TaskResponse {
	r := TaskResponse{
		ID:          id,
		Index:       index,
		Type:        t.Kind.String(),
		Description: t.Description,
		Done:        t.Done,
		Display:     t.String(),
		SaveLine:    t.SaveLine(),
	}
	switch t.Kind {
	case model.KindDeadline:
		r.By = t.DueAt.Format(model.DateLayout)
	case model.KindEvent:
		r.From = t.StartsAt.Format(model.DateLayout)
		r.To = t.EndsAt.Format(model.DateLayout)
	}
	return r
}
