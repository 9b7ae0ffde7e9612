package dtos

import (
	"bean/internal/model"
)

// CreateTaskDTO is the body of POST /tasks. Which date fields are needed
// depends on Type: By for deadlines, From and To for events.
type CreateTaskDTO struct {
	Type string  `json:"type" binding:"required"`
	Name string  `json:"name" binding:"required"`
	By   *string `json:"by,omitempty"`
	From *string `json:"from,omitempty"`
	To   *string `json:"to,omitempty"`
}

// ToModel converts the DTO into a domain Task via the model factory.
func (d *CreateTaskDTO) ToModel() (*model.Task, error) {
	kind, err := model.ParseKind(d.Type)
	if err != nil {
		return nil, err
	}
	var dates []string
	add := func(s *string) {
		if s != nil {
			dates = append(dates, *s)
		}
	}
	switch kind {
	case model.KindDeadline:
		add(d.By)
	case model.KindEvent:
		add(d.From)
		add(d.To)
	}
	return model.New(kind, d.Name, dates...)
}
