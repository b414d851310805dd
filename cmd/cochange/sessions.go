package main

import (
	"fmt"
	"time"

	"github.com/panbanda/cochange/internal/output"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [path]",
	Short: "Show inferred generation sessions",
	RunE:  runSessions,
}

func init() {
	sessionsCmd.Flags().Int("min-commits", 2, "Hide sessions with fewer commits")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	report, cfg, err := runPipeline(cmd, args)
	if err != nil {
		return err
	}
	minCommits, _ := cmd.Flags().GetInt("min-commits")

	var rows [][]string
	shown := 0
	for _, s := range report.Sessions {
		if s.CommitCount() < minCommits {
			continue
		}
		shown++
		rows = append(rows, []string{
			s.Start.Format(time.RFC3339),
			s.End.Sub(s.Start).Truncate(time.Second).String(),
			fmt.Sprintf("%d", s.CommitCount()),
			fmt.Sprintf("%d", len(s.Files)),
			fmt.Sprintf("%d", s.NewFiles),
			string(s.Category),
		})
	}

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd, cfg)), getOutputFile(cmd), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	table := output.NewTable(
		fmt.Sprintf("Sessions (window %s)", cfg.Windows.SessionWindow()),
		[]string{"Start", "Duration", "Commits", "Files", "New Files", "Category"},
		rows,
		[]string{
			fmt.Sprintf("Sessions: %d (showing %d)", len(report.Sessions), shown),
		},
		report.Sessions,
	)
	return formatter.Output(table)
}
