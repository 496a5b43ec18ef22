// Package store is the task-store repository. A store holds one YAML document
// per task, grouped into column directories, and exposes the four operations
// the loader and the reconciler need: list, read, create, delete.
package store

// Store is the repository abstraction over a task store. Filenames are the
// stable key of a task: moving a task is Create in the destination column
// followed by Delete in the source column, in that order.
type Store interface {
	// List returns the task filenames in a column, sorted by name.
	// Returns types.ErrColumnNotFound if the column has no directory.
	List(column string) ([]string, error)

	// Read decodes the task stored under column/filename.
	Read(column, filename string) (*Document, error)

	// Create writes doc as column/filename. The column directory is created
	// if needed. Returns types.ErrTaskExists if the file already exists; an
	// existing file is never overwritten.
	Create(column, filename string, doc *Document) error

	// Delete removes column/filename.
	Delete(column, filename string) error

	// Path describes column/filename for diagnostics.
	Path(column, filename string) string
}
