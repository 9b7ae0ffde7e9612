// Package tasklist holds the ordered, persisted collection of tasks.
//
// Tasks are identified by position. Each entry also carries an opaque handle
// that is assigned when the task enters the list (on Add or Load), is never
// persisted, and dies with the task on Remove, so a caller holding a handle
// can never act on a different task after the list shifts.
package tasklist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"bean/internal/model"
	"bean/internal/repositories"
)

// ErrUnknownHandle is returned for a handle that is not (or no longer) in the list.
var ErrUnknownHandle = errors.New("unknown task handle")

// Entry is a snapshot of one task together with its position and handle.
type Entry struct {
	Handle uuid.UUID
	Index  int
	Task   model.Task
}

// LoadDiagnostic describes a persisted line that was skipped during Load.
// Line is 1-based; 0 means the diagnostic is not tied to a line.
type LoadDiagnostic struct {
	Line int
	Text string
	Err  error
}

func (d LoadDiagnostic) String() string {
	if d.Line == 0 {
		return d.Err.Error()
	}
	return fmt.Sprintf("line %d skipped (%q): %v", d.Line, d.Text, d.Err)
}

// SkippedLines counts the diagnostics that stand for a dropped line.
func SkippedLines(diags []LoadDiagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Line > 0 {
			n++
		}
	}
	return n
}

type entry struct {
	handle uuid.UUID
	task   model.Task
}

// TaskList is safe for use from several goroutines; every call runs to
// completion under one lock. Each successful mutation rewrites the whole
// store, and a mutation whose write fails is undone in memory.
type TaskList struct {
	mu      sync.Mutex
	store   repositories.TaskStore
	entries []entry
}

func New(store repositories.TaskStore) *TaskList {
	return &TaskList{store: store}
}

func newHandle() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// Load replaces the in-memory list with the store's contents. Blank lines are
// ignored. A line that fails to parse is skipped and reported; when the store
// is a repositories.RejectSink the skipped lines are also recorded there.
// Only a failure to read the store is returned as an error.
func (l *TaskList) Load(ctx context.Context) ([]LoadDiagnostic, error) {
	lines, err := l.store.ReadLines(ctx)
	if err != nil {
		return nil, err
	}

	var (
		entries  = make([]entry, 0, len(lines))
		diags    []LoadDiagnostic
		rejected []string
	)
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		t, err := model.ParseSaveLine(line)
		if err != nil {
			diags = append(diags, LoadDiagnostic{Line: i + 1, Text: line, Err: err})
			rejected = append(rejected, line)
			continue
		}
		entries = append(entries, entry{handle: newHandle(), task: *t})
	}

	if sink, ok := l.store.(repositories.RejectSink); ok && len(rejected) > 0 {
		if err := sink.RecordRejected(ctx, rejected); err != nil {
			diags = append(diags, LoadDiagnostic{Err: fmt.Errorf("recording %d skipped lines: %w", len(rejected), err)})
		}
	}

	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()
	return diags, nil
}

// Save writes every task's save line, in order, through the store.
func (l *TaskList) Save(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.persist(ctx)
}

func (l *TaskList) persist(ctx context.Context) error {
	lines := make([]string, len(l.entries))
	for i := range l.entries {
		lines[i] = l.entries[i].task.SaveLine()
	}
	return l.store.WriteLines(ctx, lines)
}

func (l *TaskList) checkIndex(i int) error {
	if i < 0 || i >= len(l.entries) {
		return &model.IndexError{Index: i, Size: len(l.entries)}
	}
	return nil
}

func (l *TaskList) entryAt(i int) Entry {
	return Entry{Handle: l.entries[i].handle, Index: i, Task: l.entries[i].task}
}

// Add appends task and persists the list.
func (l *TaskList) Add(ctx context.Context, task *model.Task) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry{handle: newHandle(), task: *task})
	if err := l.persist(ctx); err != nil {
		l.entries = l.entries[:len(l.entries)-1]
		return Entry{}, err
	}
	return l.entryAt(len(l.entries) - 1), nil
}

// Remove deletes the task at i and persists the list.
func (l *TaskList) Remove(ctx context.Context, i int) (model.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkIndex(i); err != nil {
		return model.Task{}, err
	}
	prev := l.entries
	removed := prev[i].task

	next := make([]entry, 0, len(prev)-1)
	next = append(next, prev[:i]...)
	next = append(next, prev[i+1:]...)
	l.entries = next
	if err := l.persist(ctx); err != nil {
		l.entries = prev
		return model.Task{}, err
	}
	return removed, nil
}

// Get returns a copy of the task at i.
func (l *TaskList) Get(i int) (model.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkIndex(i); err != nil {
		return model.Task{}, err
	}
	return l.entries[i].task, nil
}

// EntryAt returns the entry at i.
func (l *TaskList) EntryAt(i int) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkIndex(i); err != nil {
		return Entry{}, err
	}
	return l.entryAt(i), nil
}

func (l *TaskList) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns every entry in list order.
func (l *TaskList) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	for i := range l.entries {
		out[i] = l.entryAt(i)
	}
	return out
}

// Tasks returns a copy of every task in list order.
func (l *TaskList) Tasks() []model.Task {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.Task, len(l.entries))
	for i := range l.entries {
		out[i] = l.entries[i].task
	}
	return out
}

// FindByKeyword returns, in list order, the entries whose description
// contains keyword (case-sensitive). No match yields an empty slice.
func (l *TaskList) FindByKeyword(keyword string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := []Entry{}
	for i := range l.entries {
		if strings.Contains(l.entries[i].task.Description, keyword) {
			out = append(out, l.entryAt(i))
		}
	}
	return out
}

// IndexOf resolves a handle to the task's current position.
func (l *TaskList) IndexOf(h uuid.UUID) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].handle == h {
			return i, nil
		}
	}
	return -1, ErrUnknownHandle
}

// MarkDone sets the done flag of the task at i and persists the list.
func (l *TaskList) MarkDone(ctx context.Context, i int, done bool) (model.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkIndex(i); err != nil {
		return model.Task{}, err
	}
	prev := l.entries[i].task
	l.entries[i].task.MarkDone(done)
	if err := l.persist(ctx); err != nil {
		l.entries[i].task = prev
		return model.Task{}, err
	}
	return l.entries[i].task, nil
}

// Update applies model.Task.Update(raw) to the task at i and persists the
// list. A parse failure leaves both the list and the store untouched.
func (l *TaskList) Update(ctx context.Context, i int, raw string) (model.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkIndex(i); err != nil {
		return model.Task{}, err
	}
	prev := l.entries[i].task
	next := prev
	if err := next.Update(raw); err != nil {
		return model.Task{}, err
	}
	l.entries[i].task = next
	if err := l.persist(ctx); err != nil {
		l.entries[i].task = prev
		return model.Task{}, err
	}
	return next, nil
}

// Backend names the underlying store.
func (l *TaskList) Backend() string {
	return l.store.Backend()
}
