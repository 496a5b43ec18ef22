package cli

import (
	"html"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/loader"
	"github.com/mesh-intelligence/taskboard/internal/stats"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func newStatsCmd() *cobra.Command {
	var public bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print task counts by column, priority, and category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, public)
		},
	}
	cmd.Flags().BoolVar(&public, "public", false, "exclude private tasks")
	return cmd
}

func runStats(cmd *cobra.Command, public bool) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	loaded := loader.Load(s.store, s.schema, s.log)
	st := stats.Compute(loaded.Board, s.schema, !public)

	if flags.jsonMode {
		return printJSON(cmd, st)
	}

	for _, d := range loaded.Diagnostics {
		s.out.Diagnostic("", d)
	}

	title := "All tasks"
	if public {
		title = "Public tasks"
	}
	s.out.Heading("%s: %d", title, st.Total)
	for _, c := range s.schema.Columns {
		s.out.Println("  %-12s %d", c.StatLabel, st.Column(c.StatKey))
	}
	s.out.Println("  %-12s %.1f%%", "Completion", st.CompletionRate)

	s.out.Heading("By priority")
	for _, p := range s.schema.Priorities {
		s.out.Println("  %-12s %d", p.Label, st.ByPriority[p.Name])
	}

	if len(st.ByCategory) > 0 {
		s.out.Heading("By category")
		categories := make([]types.SafeString, 0, len(st.ByCategory))
		for c := range st.ByCategory {
			categories = append(categories, c)
		}
		sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
		for _, c := range categories {
			// Categories are stored HTML-escaped; print them as written.
			s.out.Println("  %-12s %d", html.UnescapeString(c.String()), st.ByCategory[c])
		}
	}
	return nil
}
