package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the on-disk and user input layout (yyyy-MM-dd HHmm).
	DateLayout = "2006-01-02 1504"
	// DisplayLayout is presentation-only and never persisted (MMM d yyyy, h:mm a).
	DisplayLayout = "Jan 2 2006, 3:04 PM"
)

// Kind is the closed set of task variants. The zero value is not a valid kind.
type Kind byte

const (
	KindTodo     Kind = 'T'
	KindDeadline Kind = 'D'
	KindEvent    Kind = 'E'
)

// Letter returns the one-letter code used in save lines and display strings.
func (k Kind) Letter() string { return string(rune(k)) }

func (k Kind) String() string {
	switch k {
	case KindTodo:
		return "todo"
	case KindDeadline:
		return "deadline"
	case KindEvent:
		return "event"
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// ParseKind accepts either the letter code or the lower-case name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "todo":
		return KindTodo, nil
	case "d", "deadline":
		return KindDeadline, nil
	case "e", "event":
		return KindEvent, nil
	}
	return 0, parseErr(s, "unknown task type")
}

// Task is a single to-do entry. Which of the date fields are meaningful is
// decided by Kind: DueAt for deadlines, StartsAt/EndsAt for events. Dates are
// zone-less wall times kept in UTC.
type Task struct {
	Kind        Kind
	Description string
	Done        bool
	DueAt       time.Time
	StartsAt    time.Time
	EndsAt      time.Time
}

// ParseDate parses s with DateLayout.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, &ParseError{Input: s, Reason: "date must look like yyyy-MM-dd HHmm", Err: err}
	}
	return t, nil
}

// ValidateName rejects names that cannot be stored as one save line.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return parseErr(name, "task name is empty")
	}
	if strings.ContainsAny(name, "\r\n") {
		return parseErr(name, "task name spans several lines")
	}
	return nil
}

// NewTodo creates a plain task.
func NewTodo(name string) *Task {
	return &Task{Kind: KindTodo, Description: name}
}

// NewDeadline creates a task due at by.
func NewDeadline(name, by string) (*Task, error) {
	due, err := ParseDate(by)
	if err != nil {
		return nil, err
	}
	return &Task{Kind: KindDeadline, Description: name, DueAt: due}, nil
}

// NewEvent creates a task spanning from..to. The interval is not checked for order.
func NewEvent(name, from, to string) (*Task, error) {
	start, err := ParseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(to)
	if err != nil {
		return nil, err
	}
	return &Task{Kind: KindEvent, Description: name, StartsAt: start, EndsAt: end}, nil
}

// New is the factory used by front ends: dates carries zero, one or two date
// strings depending on kind.
func New(kind Kind, name string, dates ...string) (*Task, error) {
	want := 0
	switch kind {
	case KindTodo:
	case KindDeadline:
		want = 1
	case KindEvent:
		want = 2
	default:
		return nil, parseErr(kind.String(), "unknown task type")
	}
	if len(dates) != want {
		return nil, parseErr(strings.Join(dates, ", "),
			fmt.Sprintf("%s task takes %d date(s), got %d", kind, want, len(dates)))
	}

	switch kind {
	case KindDeadline:
		return NewDeadline(name, dates[0])
	case KindEvent:
		return NewEvent(name, dates[0], dates[1])
	default:
		return NewTodo(name), nil
	}
}

// MarkDone sets the completion flag. Both directions are always allowed.
func (t *Task) MarkDone(done bool) {
	t.Done = done
}

// Details returns the variant-specific suffix shown after the name.
func (t *Task) Details() string {
	switch t.Kind {
	case KindDeadline:
		return " (by: " + t.DueAt.Format(DisplayLayout) + ")"
	case KindEvent:
		return " (from: " + t.StartsAt.Format(DisplayLayout) + " to: " + t.EndsAt.Format(DisplayLayout) + ")"
	default:
		return ""
	}
}

func (t *Task) statusGlyph() string {
	if t.Done {
		return "X"
	}
	return " "
}

// String renders the task the way the assistant shows it, e.g.
// "[D][ ] submit report (by: Dec 1 2024, 6:00 PM)".
func (t *Task) String() string {
	return "[" + t.Kind.Letter() + "][" + t.statusGlyph() + "] " + t.Description + t.Details()
}

// Update re-parses name and dates from raw using the grammar of the task's
// kind:
//
//	todo:     <name>
//	deadline: <name> /by <yyyy-MM-dd HHmm>
//	event:    <name> /from <yyyy-MM-dd HHmm> /to <yyyy-MM-dd HHmm>
//
// The new name is trimmed of surrounding spaces. On error the task is left
// unchanged.
func (t *Task) Update(raw string) error {
	next := *t
	switch t.Kind {
	case KindTodo:
		next.Description = raw
	case KindDeadline:
		name, by, err := splitOnce(raw, sepBy)
		if err != nil {
			return err
		}
		if next.DueAt, err = ParseDate(by); err != nil {
			return err
		}
		next.Description = name
	case KindEvent:
		if to, from := strings.Index(raw, sepTo), strings.Index(raw, sepFrom); to >= 0 && from >= 0 && to < from {
			return parseErr(raw, fmt.Sprintf("%q must come before %q", strings.TrimSpace(sepFrom), strings.TrimSpace(sepTo)))
		}
		name, rest, err := splitOnce(raw, sepFrom)
		if err != nil {
			return err
		}
		from, to, err := splitOnce(rest, sepTo)
		if err != nil {
			return err
		}
		if next.StartsAt, err = ParseDate(from); err != nil {
			return err
		}
		if next.EndsAt, err = ParseDate(to); err != nil {
			return err
		}
		next.Description = name
	default:
		return parseErr(raw, "unknown task type "+t.Kind.String())
	}

	next.Description = strings.TrimSpace(next.Description)
	if err := ValidateName(next.Description); err != nil {
		return err
	}
	*t = next
	return nil
}

const (
	sepBy   = " /by "
	sepFrom = " /from "
	sepTo   = " /to "
)

// splitOnce splits s around exactly one occurrence of sep.
func splitOnce(s, sep string) (string, string, error) {
	before, after, ok := strings.Cut(s, sep)
	if !ok {
		return "", "", parseErr(s, fmt.Sprintf("missing %q", strings.TrimSpace(sep)))
	}
	if strings.Contains(after, sep) {
		return "", "", parseErr(s, fmt.Sprintf("%q given more than once", strings.TrimSpace(sep)))
	}
	return before, after, nil
}
