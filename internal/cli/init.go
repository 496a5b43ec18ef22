package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/config"
	"github.com/mesh-intelligence/taskboard/internal/paths"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the task store",
		Long:  "Create the configuration directory, a default config.yaml, and one directory per column.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}

	// Persist an explicit --tasks-dir so later commands find the same store.
	if flags.tasksDir != "" {
		abs, err := filepath.Abs(flags.tasksDir)
		if err != nil {
			return sysError(fmt.Errorf("resolve tasks dir: %w", err))
		}
		if _, err := config.WriteIfMissing(configDir, config.Config{TasksDir: abs, Journal: true}); err != nil {
			return sysError(fmt.Errorf("write config: %w", err))
		}
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	for _, column := range s.schema.ColumnNames() {
		if err := os.MkdirAll(s.store.Path(column, ""), 0o755); err != nil {
			return sysError(fmt.Errorf("create column directory: %w", err))
		}
	}

	if flags.jsonMode {
		return printJSON(cmd, map[string]any{
			"config_dir": s.configDir,
			"tasks_dir":  s.store.Root(),
			"columns":    s.schema.ColumnNames(),
		})
	}
	s.out.Success("Task board initialized at %s", s.store.Root())
	s.out.Println("Config: %s", filepath.Join(s.configDir, config.FileName))
	return nil
}
