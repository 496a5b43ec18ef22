// Package stats aggregates a board into the counts shown on the dashboard.
package stats

import (
	"math"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Stats holds the aggregate counts for one view of a board.
type Stats struct {
	Total int `json:"total"`
	// Columns is keyed by Column.StatKey; every schema column is present.
	Columns map[string]int `json:"columns"`
	// ByPriority always carries every schema priority, possibly zero.
	ByPriority map[types.Priority]int `json:"by_priority"`
	// ByCategory only carries categories that occur.
	ByCategory map[types.SafeString]int `json:"by_category"`
	// CompletionRate is done/total*100 rounded to one decimal; 0 when empty.
	CompletionRate float64 `json:"completion_rate"`
}

// Column returns the count for a stat key.
func (s Stats) Column(statKey string) int {
	return s.Columns[statKey]
}

// Compute aggregates board. When includePrivate is false, private tasks are
// dropped before anything is counted.
func Compute(board types.Board, schema types.Schema, includePrivate bool) Stats {
	s := Stats{
		Columns:    make(map[string]int, len(schema.Columns)),
		ByPriority: make(map[types.Priority]int, len(schema.Priorities)),
		ByCategory: make(map[types.SafeString]int),
	}
	for _, c := range schema.Columns {
		s.Columns[c.StatKey] = 0
	}
	for _, p := range schema.Priorities {
		s.ByPriority[p.Name] = 0
	}

	done := 0
	for _, c := range schema.Columns {
		for _, task := range board.Tasks(c.Name) {
			if !task.Visible(!includePrivate) {
				continue
			}
			s.Total++
			s.Columns[c.StatKey]++
			s.ByPriority[schema.Level(task.Priority).Name]++
			s.ByCategory[task.Category]++
			if c.Name == schema.DoneColumn {
				done++
			}
		}
	}

	s.CompletionRate = CompletionRate(done, s.Total)
	return s
}

// CompletionRate returns done as a percentage of total, rounded to one
// decimal place. A zero total yields 0.
func CompletionRate(done, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(done)/float64(total)*1000) / 10
}
