package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bean/internal/model"
	dtos "bean/internal/model/DTOs"
	"bean/internal/service"
	"bean/internal/tasklist"
)

// fakeService implements service.TaskService for handler tests.
type fakeService struct {
	createFn  func(ctx context.Context, task *model.Task) (tasklist.Entry, error)
	getFn     func(ctx context.Context, id string) (tasklist.Entry, error)
	listFn    func(ctx context.Context, keyword string, done *bool) ([]tasklist.Entry, error)
	updateFn  func(ctx context.Context, id, details string) (tasklist.Entry, error)
	setDoneFn func(ctx context.Context, id string, done bool) (tasklist.Entry, error)
	deleteFn  func(ctx context.Context, id string) (tasklist.Entry, error)
}

func (f *fakeService) Create(ctx context.Context, task *model.Task) (tasklist.Entry, error) {
	return f.createFn(ctx, task)
}
func (f *fakeService) Get(ctx context.Context, id string) (tasklist.Entry, error) {
	return f.getFn(ctx, id)
}
func (f *fakeService) List(ctx context.Context, keyword string, done *bool) ([]tasklist.Entry, error) {
	return f.listFn(ctx, keyword, done)
}
func (f *fakeService) Update(ctx context.Context, id, details string) (tasklist.Entry, error) {
	return f.updateFn(ctx, id, details)
}
func (f *fakeService) SetDone(ctx context.Context, id string, done bool) (tasklist.Entry, error) {
	return f.setDoneFn(ctx, id, done)
}
func (f *fakeService) Delete(ctx context.Context, id string) (tasklist.Entry, error) {
	return f.deleteFn(ctx, id)
}
func (f *fakeService) Count(ctx context.Context) (int, error) { return 0, nil }

var testHandle = uuid.MustParse("01890a5d-ac96-774b-bcce-b302099a8057")

func entryOf(task *model.Task) tasklist.Entry {
	return tasklist.Entry{Handle: testHandle, Index: 0, Task: *task}
}

func TestTaskHandler_Group(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		createFn: func(ctx context.Context, task *model.Task) (tasklist.Entry, error) {
			return entryOf(task), nil
		},
		listFn: func(ctx context.Context, keyword string, done *bool) ([]tasklist.Entry, error) {
			return []tasklist.Entry{entryOf(model.NewTodo("read book"))}, nil
		},
		getFn: func(ctx context.Context, id string) (tasklist.Entry, error) {
			return entryOf(model.NewTodo("read book")), nil
		},
		updateFn: func(ctx context.Context, id, details string) (tasklist.Entry, error) {
			return tasklist.Entry{}, &model.ParseError{Input: details, Reason: `missing "/by"`}
		},
		setDoneFn: func(ctx context.Context, id string, done bool) (tasklist.Entry, error) {
			task := model.NewTodo("read book")
			task.MarkDone(done)
			return entryOf(task), nil
		},
		deleteFn: func(ctx context.Context, id string) (tasklist.Entry, error) {
			return entryOf(model.NewTodo("read book")), nil
		},
	}

	h := NewTaskHandler(svc)

	t.Run("Create_Deadline", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"type":"deadline","name":"submit report","by":"2024-12-01 1800"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		h.CreateTask(c)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
		}
		var got dtos.TaskResponse
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.SaveLine != "D | 0 | submit report | 2024-12-01 1800" {
			t.Fatalf("unexpected save line %q", got.SaveLine)
		}
		if got.Display != "[D][ ] submit report (by: Dec 1 2024, 6:00 PM)" {
			t.Fatalf("unexpected display %q", got.Display)
		}
		if got.ID != testHandle.String() {
			t.Fatalf("unexpected id %q", got.ID)
		}
	})

	t.Run("Create_BadDate", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"type":"deadline","name":"submit report","by":"tomorrow"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		h.CreateTask(c)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", w.Code)
		}
	})

	t.Run("Create_MissingName", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"type":"todo"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		h.CreateTask(c)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", w.Code)
		}
	})

	t.Run("List_Success", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/tasks?q=book&done=false", nil)
		h.ListTasks(c)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", w.Code)
		}
		if w.Header().Get("X-Total-Count") != "1" {
			t.Fatalf("expected X-Total-Count 1 got %q", w.Header().Get("X-Total-Count"))
		}
	})

	t.Run("List_BadDone", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/tasks?done=maybe", nil)
		h.ListTasks(c)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", w.Code)
		}
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		svc.getFn = func(ctx context.Context, id string) (tasklist.Entry, error) { return tasklist.Entry{}, service.ErrNotFound }
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: "missing"}}
		c.Request = httptest.NewRequest(http.MethodGet, "/tasks/missing", nil)
		h.GetTask(c)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404 got %d", w.Code)
		}
	})

	t.Run("Update_ParseError", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: testHandle.String()}}
		c.Request = httptest.NewRequest(http.MethodPut, "/tasks/x", strings.NewReader(`{"details":"no separator"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		h.UpdateTask(c)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", w.Code)
		}
	})

	t.Run("Update_BadID", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: ""}}
		c.Request = httptest.NewRequest(http.MethodPut, "/tasks/", nil)
		h.UpdateTask(c)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", w.Code)
		}
	})

	t.Run("Mark_Done", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: testHandle.String()}}
		c.Request = httptest.NewRequest(http.MethodPut, "/tasks/x/done", strings.NewReader(`{"done":true}`))
		c.Request.Header.Set("Content-Type", "application/json")
		h.MarkTask(c)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), `"display":"[T][X] read book"`) {
			t.Fatalf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("Mark_MissingDone", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: testHandle.String()}}
		c.Request = httptest.NewRequest(http.MethodPut, "/tasks/x/done", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		h.MarkTask(c)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", w.Code)
		}
	})

	t.Run("Delete_SaveFails", func(t *testing.T) {
		svc.deleteFn = func(ctx context.Context, id string) (tasklist.Entry, error) {
			return tasklist.Entry{}, &model.IOError{Op: "write", Err: errors.New("read-only file system")}
		}
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: testHandle.String()}}
		c.Request = httptest.NewRequest(http.MethodDelete, "/tasks/x", nil)
		h.DeleteTask(c)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500 got %d", w.Code)
		}
	})
}
