// Package loader reads a task store into a Board. Every record is decoded
// independently, normalized, escaped, and tagged with where it was found.
// One bad file produces a diagnostic and never stops the load.
package loader

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskboard/internal/store"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Result is the outcome of a load: the board plus human-readable diagnostics
// in the order they occurred.
type Result struct {
	Board       types.Board
	Diagnostics []string
}

// Load reads every schema column from st. Missing column directories and
// unreadable files become diagnostics; the corresponding tasks are absent
// from the board. Each column is sorted by priority rank, highest first,
// keeping store order for equal ranks.
func Load(st store.Store, schema types.Schema, log *zap.Logger) Result {
	if log == nil {
		log = zap.NewNop()
	}
	res := Result{Board: types.NewBoard(schema)}

	for _, column := range schema.ColumnNames() {
		names, err := st.List(column)
		if err != nil {
			if errors.Is(err, types.ErrColumnNotFound) {
				path := st.Path(column, "")
				log.Warn("column directory missing", zap.String("column", column), zap.String("path", path))
				res.Diagnostics = append(res.Diagnostics, fmt.Sprintf("Warning: Directory %s does not exist", path))
				continue
			}
			log.Error("listing column failed", zap.String("column", column), zap.Error(err))
			res.Diagnostics = append(res.Diagnostics, fmt.Sprintf("Error loading %s: %v", st.Path(column, ""), err))
			continue
		}

		for _, name := range names {
			task, ok, err := loadOne(st, schema, column, name)
			if err != nil {
				path := st.Path(column, name)
				var perr *store.ParseError
				if errors.As(err, &perr) {
					res.Diagnostics = append(res.Diagnostics, fmt.Sprintf("Error parsing %s: %v", path, perr.Err))
				} else {
					res.Diagnostics = append(res.Diagnostics, fmt.Sprintf("Error loading %s: %v", path, err))
				}
				log.Error("task skipped", zap.String("path", path), zap.Error(err))
				continue
			}
			if !ok {
				log.Debug("empty task skipped", zap.String("path", st.Path(column, name)))
				continue
			}
			res.Board[column] = append(res.Board[column], task)
		}

		SortByPriority(res.Board[column], schema)
	}

	return res
}

// SortByPriority orders tasks by rank, highest first. The sort is stable.
func SortByPriority(tasks []types.Task, schema types.Schema) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return schema.Rank(tasks[i].Priority) > schema.Rank(tasks[j].Priority)
	})
}

// loadOne reads and normalizes one record. ok is false for empty documents.
func loadOne(st store.Store, schema types.Schema, column, filename string) (types.Task, bool, error) {
	doc, err := st.Read(column, filename)
	if err != nil {
		return types.Task{}, false, err
	}
	if doc.IsEmpty() {
		return types.Task{}, false, nil
	}
	fields, err := doc.Fields()
	if err != nil {
		return types.Task{}, false, err
	}

	task := Normalize(fields, schema)
	task.Filename = filename
	task.Column = column
	return task, true, nil
}

// Normalize builds a Task from decoded fields, applying defaults and escaping
// every user-supplied string exactly once.
func Normalize(fields map[string]any, schema types.Schema) types.Task {
	return types.Task{
		Title:       types.Escape(stringField(fields, "title", types.DefaultTitle)),
		Description: types.Escape(stringField(fields, "description", "")),
		Category:    types.Escape(stringField(fields, "category", types.DefaultCategory)),
		Priority:    schema.NormalizePriority(fields["priority"]),
		Tags:        tagsField(fields["tags"]),
		Status:      strings.ToLower(strings.TrimSpace(stringField(fields, "status", ""))),
		Private:     privateField(fields["private"]),
		Updated:     stringField(fields, "updated", ""),
	}
}

// stringField returns fields[key] as text. An absent key yields def; an
// explicit null yields "".
func stringField(fields map[string]any, key, def string) string {
	v, ok := fields[key]
	if !ok {
		return def
	}
	return text(v)
}

// privateField decides whether a private value hides the task from public
// views. It fails closed: only an absent or null value, a zero number, an
// empty collection, or a false word (false, no, off, n, 0, any case) keeps
// the task public. yaml.v3 decodes the YAML 1.1 words yes/on/no/off as plain
// strings, so they are matched here.
func privateField(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case int64:
		return x != 0
	case uint64:
		return x != 0
	case float64:
		return x != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "", "false", "no", "off", "n", "0":
			return false
		}
		return true
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}

// tagsField coerces a tags value. Only sequences count; anything else is an
// empty list.
func tagsField(v any) []types.SafeString {
	list, ok := v.([]any)
	if !ok {
		return []types.SafeString{}
	}
	raw := make([]string, 0, len(list))
	for _, item := range list {
		raw = append(raw, text(item))
	}
	return types.EscapeAll(raw)
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}
