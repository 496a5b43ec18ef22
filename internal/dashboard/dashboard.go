// Package dashboard generates the private and public HTML dashboards from a
// task store. Both files are rebuilt in full on every run.
package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskboard/internal/loader"
	"github.com/mesh-intelligence/taskboard/internal/render"
	"github.com/mesh-intelligence/taskboard/internal/stats"
	"github.com/mesh-intelligence/taskboard/internal/store"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Output file names inside the output directory.
const (
	PrivateFile = "index.html"
	PublicFile  = "public.html"
)

// Options configures Generate.
type Options struct {
	Store     store.Store
	Schema    types.Schema
	OutputDir string
	Logger    *zap.Logger
	// Now stamps the footer; defaults to time.Now.
	Now func() time.Time
}

// Output describes one written dashboard.
type Output struct {
	Name   string      `json:"name"`
	Path   string      `json:"path"`
	Public bool        `json:"public"`
	Stats  stats.Stats `json:"stats"`
}

// Report is the result of a successful generation. Diagnostics come from
// loading; a non-empty list means some tasks were skipped but both files were
// still written.
type Report struct {
	Diagnostics []string `json:"diagnostics"`
	Outputs     []Output `json:"outputs"`
}

// view pairs an output file with the privacy mode it renders.
type view struct {
	name   string
	file   string
	public bool
}

var views = []view{
	{name: "private", file: PrivateFile, public: false},
	{name: "public", file: PublicFile, public: true},
}

// Generate loads the store once and writes both dashboards. An error means
// generation was aborted; files written before the failure are left in place
// but the run must not be reported as complete.
func Generate(ctx context.Context, opts Options) (Report, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("create output directory: %w", err)
	}

	log.Info("loading tasks")
	loaded := loader.Load(opts.Store, opts.Schema, log)
	report := Report{Diagnostics: loaded.Diagnostics}
	generatedAt := now().UTC()

	for _, v := range views {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		st := stats.Compute(loaded.Board, opts.Schema, !v.public)
		var buf bytes.Buffer
		if err := render.Render(&buf, render.Page{
			Schema:      opts.Schema,
			Board:       loaded.Board,
			Stats:       st,
			Public:      v.public,
			GeneratedAt: generatedAt,
		}); err != nil {
			return report, fmt.Errorf("%s dashboard: %w", v.name, err)
		}

		path := filepath.Join(opts.OutputDir, v.file)
		if err := writeFile(path, buf.Bytes()); err != nil {
			return report, fmt.Errorf("%s dashboard: %w", v.name, err)
		}
		log.Info("dashboard written", zap.String("view", v.name), zap.String("path", path), zap.Int("tasks", st.Total))
		report.Outputs = append(report.Outputs, Output{Name: v.name, Path: path, Public: v.public, Stats: st})
	}

	return report, nil
}

// writeFile replaces path in one rename so readers never see half a page.
func writeFile(path string, data []byte) error {
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(path, 0o644); err != nil {
		return fmt.Errorf("set permissions on %s: %w", path, err)
	}
	return nil
}
