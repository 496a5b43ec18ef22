package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/journal"
	"github.com/mesh-intelligence/taskboard/internal/reconcile"
)

// historyEntry is one run with its moves, as printed in JSON mode.
type historyEntry struct {
	journal.Run
	Moves []reconcile.Move `json:"moves"`
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent sync runs and the moves they made",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show (0 for all)")
	return cmd
}

func runHistory(cmd *cobra.Command, limit int) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	j, err := s.openJournal()
	if err != nil {
		return sysError(fmt.Errorf("open journal: %w", err))
	}
	if j == nil {
		return userError(errors.New("journal is disabled in config.yaml"))
	}
	defer j.Close()

	runs, err := j.Runs(limit)
	if err != nil {
		return sysError(err)
	}

	entries := make([]historyEntry, 0, len(runs))
	for _, r := range runs {
		moves, err := j.Moves(r.RunID)
		if err != nil {
			return sysError(err)
		}
		entries = append(entries, historyEntry{Run: r, Moves: moves})
	}

	if flags.jsonMode {
		return printJSON(cmd, entries)
	}

	if len(entries) == 0 {
		s.out.Println("No sync runs recorded")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %s  moved=%d errors=%d",
			e.StartedAt.Format(reconcile.TimestampFormat), e.RunID, e.Moved, e.Errors)
		if e.DryRun {
			line += "  (dry run)"
		}
		if e.Errors > 0 {
			s.out.Warn("%s", line)
		} else {
			s.out.Heading("%s", line)
		}
		for _, m := range e.Moves {
			s.out.Println("    %s: %s -> %s", m.Filename, m.From, m.To)
		}
	}
	return nil
}
