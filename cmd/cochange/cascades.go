package main

import (
	"fmt"
	"time"

	"github.com/panbanda/cochange/internal/output"
	"github.com/spf13/cobra"
)

var cascadesCmd = &cobra.Command{
	Use:   "cascades [path]",
	Short: "Show detected fix cascades",
	RunE:  runCascades,
}

func init() {
	rootCmd.AddCommand(cascadesCmd)
}

func runCascades(cmd *cobra.Command, args []string) error {
	report, cfg, err := runPipeline(cmd, args)
	if err != nil {
		return err
	}

	var rows [][]string
	for _, c := range report.Cascades {
		rows = append(rows, []string{
			shortHash(c.Trigger),
			c.Start.Format(time.RFC3339),
			fmt.Sprintf("%d", c.Depth),
			fmt.Sprintf("%d", len(c.Files)),
			c.Duration.Truncate(time.Second).String(),
		})
	}

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd, cfg)), getOutputFile(cmd), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	table := output.NewTable(
		fmt.Sprintf("Fix Cascades (window %s, max scan %d)", cfg.Windows.CascadeWindow(), cfg.Windows.CascadeMaxScan),
		[]string{"Trigger", "Start", "Depth", "Files", "Duration"},
		rows,
		[]string{
			fmt.Sprintf("Cascades: %d", len(report.Cascades)),
		},
		report.Cascades,
	)
	return formatter.Output(table)
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
