package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskboard/internal/config"
	"github.com/mesh-intelligence/taskboard/internal/console"
	"github.com/mesh-intelligence/taskboard/internal/journal"
	"github.com/mesh-intelligence/taskboard/internal/logging"
	"github.com/mesh-intelligence/taskboard/internal/paths"
	"github.com/mesh-intelligence/taskboard/internal/store"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// session is the resolved environment shared by the commands that touch the
// task store.
type session struct {
	configDir string
	cfg       *config.Config
	schema    types.Schema
	store     *store.FS
	log       *zap.Logger
	out       *console.Printer
}

// openSession resolves directories, loads config.yaml, and builds the store
// and logger. Failures are system errors.
func openSession(cmd *cobra.Command) (*session, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, sysError(fmt.Errorf("load config: %w", err))
	}
	tasksDir, err := paths.ResolveTasksDir(flags.tasksDir, cfg.TasksDir)
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve tasks dir: %w", err))
	}

	schema := types.DefaultSchema()
	if err := schema.Validate(); err != nil {
		return nil, sysError(err)
	}

	log := logging.New(flags.verbose, cmd.ErrOrStderr())
	log.Debug("session opened",
		zap.String("config_dir", configDir),
		zap.String("tasks_dir", tasksDir),
	)

	return &session{
		configDir: configDir,
		cfg:       cfg,
		schema:    schema,
		store:     store.NewFS(tasksDir, schema),
		log:       log,
		out:       newPrinter(cmd),
	}, nil
}

// close flushes the logger.
func (s *session) close() {
	_ = s.log.Sync()
}

// journalPath returns the configured journal location or the platform
// default.
func (s *session) journalPath() (string, error) {
	if s.cfg.JournalPath != "" {
		return filepath.Abs(s.cfg.JournalPath)
	}
	return paths.DefaultJournalPath()
}

// openJournal opens the sync journal. It returns nil when the journal is
// disabled in config.yaml.
func (s *session) openJournal() (*journal.Journal, error) {
	if !s.cfg.Journal {
		return nil, nil
	}
	path, err := s.journalPath()
	if err != nil {
		return nil, fmt.Errorf("resolve journal path: %w", err)
	}
	s.log.Debug("opening journal", zap.String("path", path))
	return journal.Open(path)
}

func newPrinter(cmd *cobra.Command) *console.Printer {
	return console.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal output: %w", err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return nil
}
