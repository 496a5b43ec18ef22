package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Permissions for directories and task files created by the store.
const (
	dirPerms  = 0o755
	filePerms = 0o644
)

// Compile-time interface check.
var _ Store = (*FS)(nil)

// FS is a Store backed by a directory tree: <root>/<column>/<filename>.
// Each call opens, reads or writes, and closes its file before returning.
// FS assumes no other process mutates the tree while a pass is running; it
// takes no locks.
type FS struct {
	root   string
	schema types.Schema
}

// NewFS returns a store rooted at root. Only the schema's columns are
// addressable, and only files with the schema's extension are listed.
func NewFS(root string, schema types.Schema) *FS {
	return &FS{root: root, schema: schema}
}

// Root returns the task-store root directory.
func (s *FS) Root() string {
	return s.root
}

// Path returns the on-disk path of column/filename.
func (s *FS) Path(column, filename string) string {
	return filepath.Join(s.root, column, filename)
}

// List returns the task files of a column sorted by name. Subdirectories and
// files with other extensions are ignored.
func (s *FS) List(column string) ([]string, error) {
	if !s.schema.IsColumn(column) {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownColumn, column)
	}
	dir := filepath.Join(s.root, column)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", types.ErrColumnNotFound, dir)
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), s.schema.Extension) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Read decodes column/filename.
func (s *FS) Read(column, filename string) (*Document, error) {
	path, err := s.resolve(column, filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return doc, nil
}

// Create writes doc to column/filename through a temp file and rename, so the
// destination is either absent or complete. It refuses to replace an existing
// file.
func (s *FS) Create(column, filename string, doc *Document) error {
	path, err := s.resolve(column, filename)
	if err != nil {
		return err
	}

	data, err := doc.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerms); err != nil {
		return fmt.Errorf("creating column directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", types.ErrTaskExists, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	// atomic.WriteFile leaves new files with temp-file permissions.
	if err := os.Chmod(path, filePerms); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	return nil
}

// Delete removes column/filename.
func (s *FS) Delete(column, filename string) error {
	path, err := s.resolve(column, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// resolve validates column and filename and returns the joined path.
func (s *FS) resolve(column, filename string) (string, error) {
	if !s.schema.IsColumn(column) {
		return "", fmt.Errorf("%w: %q", types.ErrUnknownColumn, column)
	}
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return "", fmt.Errorf("invalid task filename %q", filename)
	}
	return s.Path(column, filename), nil
}

// ParseError reports a task file that is not valid YAML.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
