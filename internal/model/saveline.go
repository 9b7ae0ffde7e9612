package model

import (
	"strings"
	"time"
)

// FieldSep separates the fields of a save line.
const FieldSep = " | "

// SaveLine encodes the task as one pipe-delimited line:
//
//	T | <0|1> | <name>
//	D | <0|1> | <name> | <dueAt>
//	E | <0|1> | <name> | <startsAt> | <endsAt>
func (t *Task) SaveLine() string {
	done := "0"
	if t.Done {
		done = "1"
	}
	fields := []string{t.Kind.Letter(), done, t.Description}
	switch t.Kind {
	case KindDeadline:
		fields = append(fields, t.DueAt.Format(DateLayout))
	case KindEvent:
		fields = append(fields, t.StartsAt.Format(DateLayout), t.EndsAt.Format(DateLayout))
	}
	return strings.Join(fields, FieldSep)
}

// ParseSaveLine decodes a line produced by SaveLine. Date fields are read from
// the end of the line, so a name that itself contains FieldSep survives.
func ParseSaveLine(line string) (*Task, error) {
	fields := strings.Split(line, FieldSep)
	if len(fields) < 3 {
		return nil, parseErr(line, "save line has too few fields")
	}

	t := &Task{}
	switch fields[0] {
	case "T":
		t.Kind = KindTodo
	case "D":
		t.Kind = KindDeadline
	case "E":
		t.Kind = KindEvent
	default:
		return nil, parseErr(line, "unknown task type "+fields[0])
	}

	switch fields[1] {
	case "0":
	case "1":
		t.Done = true
	default:
		return nil, parseErr(line, "done flag must be 0 or 1")
	}

	dateCount := 0
	switch t.Kind {
	case KindDeadline:
		dateCount = 1
	case KindEvent:
		dateCount = 2
	}
	nameEnd := len(fields) - dateCount
	if nameEnd < 3 {
		return nil, parseErr(line, t.Kind.String()+" save line is missing dates")
	}

	dates := make([]time.Time, 0, dateCount)
	for _, f := range fields[nameEnd:] {
		d, err := ParseDate(f)
		if err != nil {
			return nil, &ParseError{Input: line, Reason: "bad date field", Err: err}
		}
		dates = append(dates, d)
	}

	t.Description = strings.Join(fields[2:nameEnd], FieldSep)
	if err := ValidateName(t.Description); err != nil {
		return nil, err
	}

	switch t.Kind {
	case KindDeadline:
		t.DueAt = dates[0]
	case KindEvent:
		t.StartsAt, t.EndsAt = dates[0], dates[1]
	}
	return t, nil
}
