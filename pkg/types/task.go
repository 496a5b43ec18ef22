package types

// Default field values applied when a record omits them.
const (
	DefaultTitle    = "Untitled"
	DefaultCategory = "general"
)

// Task is one record as the dashboard sees it. User-supplied text has been
// escaped; Filename and Column describe where the record was found.
type Task struct {
	Title       SafeString   `json:"title"`
	Description SafeString   `json:"description"`
	Category    SafeString   `json:"category"`
	Priority    Priority     `json:"priority"`
	Tags        []SafeString `json:"tags"`
	Status      string       `json:"status"`
	Private     bool         `json:"private"`
	Updated     string       `json:"updated,omitempty"`

	Filename string `json:"filename"`
	Column   string `json:"column"`
}

// Visible reports whether the task belongs in a view. Public views omit
// private tasks; private views show everything.
func (t Task) Visible(public bool) bool {
	return !public || !t.Private
}

// Board groups tasks by the column they were loaded from.
type Board map[string][]Task

// NewBoard returns a board with an empty slice for every schema column.
func NewBoard(schema Schema) Board {
	b := make(Board, len(schema.Columns))
	for _, c := range schema.Columns {
		b[c.Name] = []Task{}
	}
	return b
}

// Tasks returns the tasks of a column, in board order.
func (b Board) Tasks(column string) []Task {
	return b[column]
}

// Len returns the number of tasks across all columns.
func (b Board) Len() int {
	n := 0
	for _, tasks := range b {
		n += len(tasks)
	}
	return n
}
