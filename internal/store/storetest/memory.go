// Package storetest provides an in-memory store.Store for tests, with hooks
// that fail individual writes.
package storetest

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/mesh-intelligence/taskboard/internal/store"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Compile-time interface check.
var _ store.Store = (*Memory)(nil)

// Memory is an in-memory store holding encoded YAML per column.
type Memory struct {
	schema  types.Schema
	columns map[string]map[string][]byte

	// FailCreate, when set, is consulted before every Create; a non-nil
	// return aborts the write.
	FailCreate func(column, filename string) error
	// FailDelete is the Delete counterpart of FailCreate.
	FailDelete func(column, filename string) error
}

// NewMemory returns an empty store with no column directories.
func NewMemory(schema types.Schema) *Memory {
	return &Memory{schema: schema, columns: make(map[string]map[string][]byte)}
}

// AddColumn creates an empty column, like mkdir.
func (m *Memory) AddColumn(column string) {
	if _, ok := m.columns[column]; !ok {
		m.columns[column] = make(map[string][]byte)
	}
}

// Put stores raw YAML under column/filename, creating the column.
func (m *Memory) Put(column, filename, data string) {
	m.AddColumn(column)
	m.columns[column][filename] = []byte(data)
}

// Get returns the raw YAML stored under column/filename.
func (m *Memory) Get(column, filename string) (string, bool) {
	data, ok := m.columns[column][filename]
	return string(data), ok
}

// Path joins column and filename with a slash.
func (m *Memory) Path(column, filename string) string {
	return path.Join(column, filename)
}

// List returns the filenames of a column sorted by name.
func (m *Memory) List(column string) ([]string, error) {
	if !m.schema.IsColumn(column) {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownColumn, column)
	}
	files, ok := m.columns[column]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrColumnNotFound, column)
	}
	names := make([]string, 0, len(files))
	for name := range files {
		if strings.HasSuffix(name, m.schema.Extension) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Read decodes column/filename.
func (m *Memory) Read(column, filename string) (*store.Document, error) {
	data, ok := m.columns[column][filename]
	if !ok {
		return nil, fmt.Errorf("reading %s: not found", m.Path(column, filename))
	}
	doc, err := store.ParseDocument(data)
	if err != nil {
		return nil, &store.ParseError{Path: m.Path(column, filename), Err: err}
	}
	return doc, nil
}

// Create stores doc under column/filename unless it already exists.
func (m *Memory) Create(column, filename string, doc *store.Document) error {
	if !m.schema.IsColumn(column) {
		return fmt.Errorf("%w: %q", types.ErrUnknownColumn, column)
	}
	if m.FailCreate != nil {
		if err := m.FailCreate(column, filename); err != nil {
			return err
		}
	}
	if _, ok := m.columns[column][filename]; ok {
		return fmt.Errorf("%w: %s", types.ErrTaskExists, m.Path(column, filename))
	}
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	m.Put(column, filename, string(data))
	return nil
}

// Delete removes column/filename.
func (m *Memory) Delete(column, filename string) error {
	if m.FailDelete != nil {
		if err := m.FailDelete(column, filename); err != nil {
			return err
		}
	}
	if _, ok := m.columns[column][filename]; !ok {
		return fmt.Errorf("removing %s: not found", m.Path(column, filename))
	}
	delete(m.columns[column], filename)
	return nil
}
