package dtos

// UpdateTaskDTO is the body of PUT /tasks/:id. Details follows the update
// grammar of the task's type, e.g. "submit report /by 2024-12-02 0900".
type UpdateTaskDTO struct {
	Details string `json:"details" binding:"required"`
}

// MarkTaskDTO is the body of PUT /tasks/:id/done.
type MarkTaskDTO struct {
	Done *bool `json:"done" binding:"required"`
}
