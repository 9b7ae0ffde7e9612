package dtos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bean/internal/model"
)

func strp(s string) *string { return &s }

func TestCreateTaskDTO_ToModel(t *testing.T) {
	ev, err := (&CreateTaskDTO{Type: "event", Name: "party", From: strp("2024-05-01 1900"), To: strp("2024-05-01 2300")}).ToModel()
	require.NoError(t, err)
	assert.Equal(t, "E | 0 | party | 2024-05-01 1900 | 2024-05-01 2300", ev.SaveLine())

	todo, err := (&CreateTaskDTO{Type: "T", Name: "read book", By: strp("ignored")}).ToModel()
	require.NoError(t, err)
	assert.Equal(t, model.KindTodo, todo.Kind)

	_, err = (&CreateTaskDTO{Type: "event", Name: "party", From: strp("2024-05-01 1900")}).ToModel()
	assert.Error(t, err)

	_, err = (&CreateTaskDTO{Type: "chore", Name: "x"}).ToModel()
	assert.Error(t, err)
}

func TestFromModel(t *testing.T) {
	task, err := model.NewDeadline("submit report", "2024-12-01 1800")
	require.NoError(t, err)

	r := FromModel("id-1", 3, task)
	assert.Equal(t, "deadline", r.Type)
	assert.Equal(t, "2024-12-01 1800", r.By)
	assert.Empty(t, r.From)
	assert.Equal(t, "[D][ ] submit report (by: Dec 1 2024, 6:00 PM)", r.Display)
	assert.Equal(t, 3, r.Index)
}
