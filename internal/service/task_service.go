package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"bean/internal/metric"
	"bean/internal/model"
	"bean/internal/tasklist"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("task not found")
)

// TaskService defines the task operations offered to front ends. Tasks are
// addressed by the handle string of their tasklist.Entry.
type TaskService interface {
	Create(ctx context.Context, task *model.Task) (tasklist.Entry, error)

	Get(ctx context.Context, id string) (tasklist.Entry, error)

	// List returns tasks in list order. An empty keyword matches everything;
	// a nil done matches both states.
	List(ctx context.Context, keyword string, done *bool) ([]tasklist.Entry, error)

	// Update re-parses the task from details using its type's update grammar.
	Update(ctx context.Context, id, details string) (tasklist.Entry, error)
	SetDone(ctx context.Context, id string, done bool) (tasklist.Entry, error)

	Delete(ctx context.Context, id string) (tasklist.Entry, error)
	Count(ctx context.Context) (int, error)
}

type taskService struct {
	// mu makes handle resolution and the following list call one step.
	mu   sync.Mutex
	list *tasklist.TaskList
}

func NewTaskService(list *tasklist.TaskList) TaskService {
	return &taskService{list: list}
}

func (s *taskService) resolve(id string) (int, error) {
	h, err := uuid.Parse(id)
	if err != nil {
		return -1, ErrNotFound
	}
	i, err := s.list.IndexOf(h)
	if err != nil {
		return -1, ErrNotFound
	}
	return i, nil
}

// afterWrite records the outcome of a mutation that reached the store.
func (s *taskService) afterWrite(op string, err error) {
	var ioErr *model.IOError
	switch {
	case err == nil:
		metric.ObserveStoreWrite(s.list.Backend(), nil)
		metric.SetTasksCount(s.list.Size())
	case errors.As(err, &ioErr):
		metric.ObserveStoreWrite(s.list.Backend(), err)
		log.Printf("%s: failed to persist tasks: %v", op, err)
	}
}

func (s *taskService) Create(ctx context.Context, task *model.Task) (tasklist.Entry, error) {
	if task == nil {
		return tasklist.Entry{}, ErrInvalidInput
	}
	task.Description = strings.TrimSpace(task.Description)
	if err := model.ValidateName(task.Description); err != nil {
		return tasklist.Entry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.list.Add(ctx, task)
	s.afterWrite("create", err)
	if err != nil {
		return tasklist.Entry{}, err
	}
	return e, nil
}

func (s *taskService) Get(ctx context.Context, id string) (tasklist.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.resolve(id)
	if err != nil {
		return tasklist.Entry{}, err
	}
	return s.list.EntryAt(i)
}

func (s *taskService) List(ctx context.Context, keyword string, done *bool) ([]tasklist.Entry, error) {
	var entries []tasklist.Entry
	if keyword != "" {
		entries = s.list.FindByKeyword(keyword)
	} else {
		entries = s.list.Entries()
	}
	if done == nil {
		return entries, nil
	}

	out := make([]tasklist.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Task.Done == *done {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *taskService) Update(ctx context.Context, id, details string) (tasklist.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.resolve(id)
	if err != nil {
		return tasklist.Entry{}, err
	}
	if _, err := s.list.Update(ctx, i, details); err != nil {
		s.afterWrite("update", err)
		return tasklist.Entry{}, err
	}
	s.afterWrite("update", nil)
	return s.list.EntryAt(i)
}

func (s *taskService) SetDone(ctx context.Context, id string, done bool) (tasklist.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.resolve(id)
	if err != nil {
		return tasklist.Entry{}, err
	}
	if _, err := s.list.MarkDone(ctx, i, done); err != nil {
		s.afterWrite("mark", err)
		return tasklist.Entry{}, err
	}
	s.afterWrite("mark", nil)
	return s.list.EntryAt(i)
}

func (s *taskService) Delete(ctx context.Context, id string) (tasklist.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.resolve(id)
	if err != nil {
		return tasklist.Entry{}, err
	}
	e, err := s.list.EntryAt(i)
	if err != nil {
		return tasklist.Entry{}, err
	}
	_, err = s.list.Remove(ctx, i)
	s.afterWrite("delete", err)
	if err != nil {
		return tasklist.Entry{}, err
	}
	return e, nil
}

func (s *taskService) Count(ctx context.Context) (int, error) {
	return s.list.Size(), nil
}
