// Package cli implements the taskboard command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	tasksDir  string
	verbose   bool
	jsonMode  bool
}

var flags rootFlags

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// userError marks err as a reportable failure (exit 1).
func userError(err error) error {
	return &exitError{code: exitUserError, err: err}
}

// sysError marks err as a system failure (exit 2).
func sysError(err error) error {
	return &exitError{code: exitSysError, err: err}
}

// NewRootCmd creates the top-level "taskboard" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	flags = rootFlags{}

	root := &cobra.Command{
		Use:   "taskboard",
		Short: "A file-backed kanban task tracker",
		Long: "Taskboard keeps one YAML file per task in column directories,\n" +
			"moves files to match their declared status, and renders\n" +
			"private and public HTML dashboards.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
		// Run prints errors itself so it can colour them.
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: .taskboard)")
	root.PersistentFlags().StringVar(&flags.tasksDir, "tasks-dir", "", "task store root (default: tasks)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newDashboardCmd())
	root.AddCommand(newSyncCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newHistoryCmd())

	return root
}

// Run executes the CLI with args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}

	newPrinter(root).Error("Error: %v", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Flag and argument errors from cobra.
	return exitUserError
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
