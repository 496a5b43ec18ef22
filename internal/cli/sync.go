package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskboard/internal/reconcile"
)

func newSyncCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Move task files into the column named by their status",
		Long: "Read every task file and move any whose status field names a\n" +
			"different column. Moved tasks get a fresh updated timestamp.\n" +
			"Exits 1 when any task could not be validated or moved.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report moves without changing any file")
	return cmd
}

func runSync(cmd *cobra.Command, dryRun bool) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	opts := []reconcile.Option{
		reconcile.WithLogger(s.log),
		reconcile.WithDryRun(dryRun),
	}
	j, err := s.openJournal()
	if err != nil {
		// History is secondary to the move itself.
		s.log.Warn("journal unavailable, continuing without history", zap.Error(err))
	} else if j != nil {
		defer j.Close()
		opts = append(opts, reconcile.WithRecorder(j))
	}

	if !flags.jsonMode {
		s.out.Println("Syncing tasks to correct directories...")
		s.out.Println("")
	}

	res, runErr := reconcile.New(s.store, s.schema, opts...).Run(cmd.Context())

	if flags.jsonMode {
		if err := printJSON(cmd, res); err != nil {
			return err
		}
	} else {
		printSyncResult(s, res)
	}

	if runErr != nil {
		return sysError(fmt.Errorf("sync interrupted: %w", runErr))
	}
	if res.Errors > 0 {
		return userError(fmt.Errorf("sync finished with %d error(s)", res.Errors))
	}
	return nil
}

func printSyncResult(s *session, res reconcile.Result) {
	verb := "Moved"
	if res.DryRun {
		verb = "Would move"
	}
	for _, m := range res.Moves {
		s.out.Println("  %s: %s", verb, m.Title)
		s.out.Println("    From: %s", m.FromPath)
		s.out.Println("    To:   %s", m.ToPath)
	}
	for _, d := range res.Diagnostics {
		s.out.Diagnostic("", d)
	}

	s.out.Println("")
	switch {
	case res.Moved > 0 && res.DryRun:
		s.out.Success("Would sync %d task(s) to correct directories", res.Moved)
	case res.Moved > 0:
		s.out.Success("Synced %d task(s) to correct directories", res.Moved)
	default:
		s.out.Success("All tasks are already in correct directories")
	}
	if res.Errors > 0 {
		s.out.Warn("Encountered %d error(s)", res.Errors)
	}
}
