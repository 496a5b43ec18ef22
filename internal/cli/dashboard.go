package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/dashboard"
	"github.com/mesh-intelligence/taskboard/internal/paths"
)

func newDashboardCmd() *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Generate the private and public HTML dashboards",
		Long: "Load every task, then write index.html (all tasks) and public.html\n" +
			"(private tasks removed) to the dashboard directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, outputDir)
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "dashboard output directory (default: dashboard)")
	return cmd
}

func runDashboard(cmd *cobra.Command, outputFlag string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	outputDir, err := paths.ResolveDashboardDir(outputFlag, s.cfg.DashboardDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve dashboard dir: %w", err))
	}

	if !flags.jsonMode {
		s.out.Println("Loading tasks...")
	}
	report, err := dashboard.Generate(cmd.Context(), dashboard.Options{
		Store:     s.store,
		Schema:    s.schema,
		OutputDir: outputDir,
		Logger:    s.log,
	})
	if err != nil {
		return sysError(fmt.Errorf("generate dashboard: %w", err))
	}

	if flags.jsonMode {
		return printJSON(cmd, report)
	}

	if len(report.Diagnostics) > 0 {
		s.out.Println("")
		s.out.Println("Warnings/Errors:")
		for _, d := range report.Diagnostics {
			s.out.Diagnostic("  - ", d)
		}
	}
	for _, o := range report.Outputs {
		s.out.Println("")
		s.out.Heading("Generated %s dashboard", o.Name)
		s.out.Println("  Created: %s", o.Path)
		s.out.Println("  Total tasks: %d", o.Stats.Total)
	}
	s.out.Println("")
	s.out.Success("Dashboard generation complete!")
	return nil
}
