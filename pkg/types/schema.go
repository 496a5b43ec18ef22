package types

import (
	"fmt"
	"strings"
)

// Column names of the default task store layout.
const (
	ColumnBacklog    = "backlog"
	ColumnTodo       = "todo"
	ColumnInProgress = "in_progress"
	ColumnStalled    = "stalled"
	ColumnDone       = "done"
)

// TaskExtension is the file extension of a task record.
const TaskExtension = ".yaml"

// Priority is a normalized task priority.
type Priority string

// Known priorities, highest first.
const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Column describes one status directory.
type Column struct {
	Name      string // directory name and status value
	Label     string // heading on the dashboard
	StatKey   string // key in Stats.Columns
	StatLabel string // caption of the stat card
}

// PriorityLevel describes how a priority sorts and renders.
type PriorityLevel struct {
	Name  Priority
	Rank  int
	Color string
	Label string
}

// Schema is the fixed description of a task store: which columns exist, in
// which order they render, and how priorities rank. Components receive it
// explicitly; nothing in this module reads a package-level schema.
type Schema struct {
	Columns         []Column
	Priorities      []PriorityLevel
	DefaultPriority Priority
	DoneColumn      string
	Extension       string
}

// DefaultSchema returns the five-column layout with four priorities.
func DefaultSchema() Schema {
	return Schema{
		Columns: []Column{
			{Name: ColumnBacklog, Label: "Backlog", StatKey: "backlog", StatLabel: "Backlog"},
			{Name: ColumnTodo, Label: "To Do", StatKey: "todo", StatLabel: "To Do"},
			{Name: ColumnInProgress, Label: "In Progress", StatKey: "active", StatLabel: "Active"},
			{Name: ColumnStalled, Label: "Stalled", StatKey: "stalled", StatLabel: "Stalled"},
			{Name: ColumnDone, Label: "Done", StatKey: "done", StatLabel: "Completed"},
		},
		Priorities: []PriorityLevel{
			{Name: PriorityUrgent, Rank: 4, Color: "#ff6b6b", Label: "Urgent"},
			{Name: PriorityHigh, Rank: 3, Color: "#f85149", Label: "High"},
			{Name: PriorityMedium, Rank: 2, Color: "#d29922", Label: "Medium"},
			{Name: PriorityLow, Rank: 1, Color: "#58a6ff", Label: "Low"},
		},
		DefaultPriority: PriorityMedium,
		DoneColumn:      ColumnDone,
		Extension:       TaskExtension,
	}
}

// Validate checks that the schema is internally consistent. It returns an
// error wrapping ErrInvalidSchema on failure.
func (s Schema) Validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidSchema)
	}
	seen := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		if c.Name == "" {
			return fmt.Errorf("%w: empty column name", ErrInvalidSchema)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate column %q", ErrInvalidSchema, c.Name)
		}
		seen[c.Name] = true
	}
	if !seen[s.DoneColumn] {
		return fmt.Errorf("%w: done column %q is not a column", ErrInvalidSchema, s.DoneColumn)
	}

	if len(s.Priorities) == 0 {
		return fmt.Errorf("%w: no priorities", ErrInvalidSchema)
	}
	prio := make(map[Priority]bool, len(s.Priorities))
	for _, p := range s.Priorities {
		if prio[p.Name] {
			return fmt.Errorf("%w: duplicate priority %q", ErrInvalidSchema, p.Name)
		}
		prio[p.Name] = true
	}
	if !prio[s.DefaultPriority] {
		return fmt.Errorf("%w: default priority %q is not a priority", ErrInvalidSchema, s.DefaultPriority)
	}
	if !strings.HasPrefix(s.Extension, ".") {
		return fmt.Errorf("%w: extension %q must start with a dot", ErrInvalidSchema, s.Extension)
	}
	return nil
}

// ColumnNames returns the column names in display order.
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// IsColumn reports whether name is one of the schema's columns.
func (s Schema) IsColumn(name string) bool {
	_, ok := s.Column(name)
	return ok
}

// Column looks up a column by name.
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Level looks up a priority level. Unknown priorities resolve to the default.
func (s Schema) Level(p Priority) PriorityLevel {
	for _, l := range s.Priorities {
		if l.Name == p {
			return l
		}
	}
	for _, l := range s.Priorities {
		if l.Name == s.DefaultPriority {
			return l
		}
	}
	return PriorityLevel{Name: p}
}

// Rank returns the sort rank of p; higher sorts first.
func (s Schema) Rank(p Priority) int {
	return s.Level(p).Rank
}

// NormalizePriority maps a raw decoded value onto a known priority.
// Matching is case-insensitive; anything that is not a string naming a known
// priority becomes the default.
func (s Schema) NormalizePriority(raw any) Priority {
	str, ok := raw.(string)
	if !ok {
		return s.DefaultPriority
	}
	p := Priority(strings.ToLower(strings.TrimSpace(str)))
	for _, l := range s.Priorities {
		if l.Name == p {
			return p
		}
	}
	return s.DefaultPriority
}
