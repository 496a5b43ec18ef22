// Package reconcile moves task files into the column directory that matches
// their declared status.
//
// A move is two store operations in a fixed order: Create in the destination
// column, then Delete in the source column. If the create fails, the source
// is left untouched, so a failed move never loses a record. Each file is
// handled on its own; a failure is counted and the pass continues.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskboard/internal/store"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// TimestampFormat is the layout written to a moved task's updated field.
const TimestampFormat = "2006-01-02 15:04:05 UTC"

// Move describes one relocated (or, in a dry run, relocatable) task.
type Move struct {
	Filename string    `json:"filename"`
	Title    string    `json:"title"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	FromPath string    `json:"from_path"`
	ToPath   string    `json:"to_path"`
	At       time.Time `json:"at"`
}

// Result summarizes a pass. Errors counts records that could not be
// validated or moved; the pass still visited every other record.
type Result struct {
	RunID       string   `json:"run_id"`
	DryRun      bool     `json:"dry_run"`
	Moved       int      `json:"moved"`
	Errors      int      `json:"errors"`
	Moves       []Move   `json:"moves"`
	Diagnostics []string `json:"diagnostics"`
}

// Recorder receives the history of a pass. Recorder failures are logged and
// do not affect the pass.
type Recorder interface {
	BeginRun(runID string, startedAt time.Time, dryRun bool) error
	RecordMove(runID string, m Move) error
	FinishRun(runID string, finishedAt time.Time, moved, errors int) error
}

// Reconciler runs sync passes over a store.
type Reconciler struct {
	store    store.Store
	schema   types.Schema
	log      *zap.Logger
	now      func() time.Time
	recorder Recorder
	dryRun   bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.log = l
		}
	}
}

// WithClock sets the time source used for updated stamps.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithRecorder attaches a history recorder.
func WithRecorder(rec Recorder) Option {
	return func(r *Reconciler) { r.recorder = rec }
}

// WithDryRun makes Run report moves without touching the store.
func WithDryRun(dry bool) Option {
	return func(r *Reconciler) { r.dryRun = dry }
}

// New returns a Reconciler for st.
func New(st store.Store, schema types.Schema, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:  st,
		schema: schema,
		log:    zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs one pass over every schema column. Missing column
// directories are skipped. The returned error is non-nil only when ctx is
// cancelled; per-record problems are reported through Result.Errors and
// Result.Diagnostics.
func (r *Reconciler) Run(ctx context.Context) (Result, error) {
	res := Result{RunID: newRunID(), DryRun: r.dryRun}
	log := r.log.With(zap.String("run", res.RunID))

	if r.recorder != nil {
		if err := r.recorder.BeginRun(res.RunID, r.now().UTC(), r.dryRun); err != nil {
			log.Warn("recording run start failed", zap.Error(err))
		}
	}

	var ctxErr error
columns:
	for _, column := range r.schema.ColumnNames() {
		names, err := r.store.List(column)
		if err != nil {
			if errors.Is(err, types.ErrColumnNotFound) {
				log.Debug("column directory missing", zap.String("column", column))
				continue
			}
			r.fail(&res, log, fmt.Sprintf("Error listing %s: %v", r.store.Path(column, ""), err), err)
			continue
		}

		for _, name := range names {
			if err := ctx.Err(); err != nil {
				ctxErr = err
				break columns
			}
			r.syncOne(&res, log, column, name)
		}
	}

	if r.recorder != nil {
		if err := r.recorder.FinishRun(res.RunID, r.now().UTC(), res.Moved, res.Errors); err != nil {
			log.Warn("recording run finish failed", zap.Error(err))
		}
	}
	return res, ctxErr
}

// syncOne validates one record and moves it if its status names another
// column.
func (r *Reconciler) syncOne(res *Result, log *zap.Logger, column, filename string) {
	from := r.store.Path(column, filename)

	doc, err := r.store.Read(column, filename)
	if err != nil {
		var perr *store.ParseError
		if errors.As(err, &perr) {
			r.fail(res, log, fmt.Sprintf("YAML error in %s: %v", from, perr.Err), err)
		} else {
			r.fail(res, log, fmt.Sprintf("Error processing %s: %v", from, err), err)
		}
		return
	}
	if doc.IsEmpty() {
		return
	}

	fields, err := doc.Fields()
	if err != nil {
		r.fail(res, log, fmt.Sprintf("Error processing %s: %v", from, err), err)
		return
	}

	status, _ := fields["status"].(string)
	status = strings.ToLower(strings.TrimSpace(status))
	if !r.schema.IsColumn(status) {
		msg := fmt.Sprintf("Invalid status '%s' in %s, skipping", status, filename)
		res.Errors++
		res.Diagnostics = append(res.Diagnostics, msg)
		log.Warn("invalid status", zap.String("status", status), zap.String("path", from), zap.Error(types.ErrInvalidStatus))
		return
	}
	if status == column {
		return
	}

	at := r.now().UTC()
	move := Move{
		Filename: filename,
		Title:    title(fields),
		From:     column,
		To:       status,
		FromPath: from,
		ToPath:   r.store.Path(status, filename),
		At:       at,
	}

	if r.dryRun {
		res.Moved++
		res.Moves = append(res.Moves, move)
		log.Info("would move task", moveFields(move)...)
		return
	}

	if err := doc.Set("updated", at.Format(TimestampFormat)); err != nil {
		r.fail(res, log, fmt.Sprintf("Error processing %s: %v", from, err), err)
		return
	}

	// Write first. The source is deleted only once the destination exists.
	if err := r.store.Create(status, filename, doc); err != nil {
		r.fail(res, log, fmt.Sprintf("Error moving %s to %s: %v", from, move.ToPath, err), err)
		return
	}
	if err := r.store.Delete(column, filename); err != nil {
		// The record is safe in its new column; the stale copy needs attention.
		r.fail(res, log, fmt.Sprintf("Error removing %s after moving it to %s: %v", from, move.ToPath, err), err)
	}

	res.Moved++
	res.Moves = append(res.Moves, move)
	log.Info("moved task", moveFields(move)...)

	if r.recorder != nil {
		if err := r.recorder.RecordMove(res.RunID, move); err != nil {
			log.Warn("recording move failed", zap.String("file", filename), zap.Error(err))
		}
	}
}

// fail counts an error and records its diagnostic.
func (r *Reconciler) fail(res *Result, log *zap.Logger, msg string, err error) {
	res.Errors++
	res.Diagnostics = append(res.Diagnostics, msg)
	log.Error(msg, zap.Error(err))
}

func moveFields(m Move) []zap.Field {
	return []zap.Field{
		zap.String("title", m.Title),
		zap.String("from", m.FromPath),
		zap.String("to", m.ToPath),
	}
}

// title returns the raw title for messages.
func title(fields map[string]any) string {
	v, ok := fields["title"]
	if !ok {
		return types.DefaultTitle
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// newRunID returns a UUID v7, falling back to v4.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
