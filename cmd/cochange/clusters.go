package main

import (
	"fmt"
	"strings"

	"github.com/panbanda/cochange/internal/output"
	"github.com/spf13/cobra"
)

var clustersCmd = &cobra.Command{
	Use:   "clusters [path]",
	Short: "Show strongly coupled file clusters",
	RunE:  runClusters,
}

func init() {
	clustersCmd.Flags().Int("max-files", 8, "Max files listed per cluster row")
	rootCmd.AddCommand(clustersCmd)
}

func runClusters(cmd *cobra.Command, args []string) error {
	report, cfg, err := runPipeline(cmd, args)
	if err != nil {
		return err
	}
	maxFiles, _ := cmd.Flags().GetInt("max-files")

	var rows [][]string
	for _, cl := range report.Clusters {
		files := cl.Files
		suffix := ""
		if len(files) > maxFiles {
			suffix = fmt.Sprintf(" (+%d more)", len(files)-maxFiles)
			files = files[:maxFiles]
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", cl.ID),
			fmt.Sprintf("%d", len(cl.Files)),
			fmt.Sprintf("%.2f", cl.Cohesion),
			fmt.Sprintf("%.2f", cl.ExternalCoupling),
			strings.Join(files, ", ") + suffix,
		})
	}

	unclustered := 0
	for _, n := range report.Nodes {
		if n.Cluster < 0 {
			unclustered++
		}
	}

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd, cfg)), getOutputFile(cmd), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	table := output.NewTable(
		"Coupling Clusters",
		[]string{"ID", "Size", "Cohesion", "External", "Files"},
		rows,
		[]string{
			fmt.Sprintf("Clusters: %d", len(report.Clusters)),
			fmt.Sprintf("Unclustered Files: %d", unclustered),
		},
		report.Clusters,
	)
	return formatter.Output(table)
}
