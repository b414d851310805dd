package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/panbanda/cochange/internal/output"
	"github.com/panbanda/cochange/pkg/models"
	"github.com/spf13/cobra"
)

var hotspotsCmd = &cobra.Command{
	Use:   "hotspots [path]",
	Short: "Show hub files and bridge edges",
	RunE:  runHotspots,
}

func init() {
	rootCmd.AddCommand(hotspotsCmd)
}

func runHotspots(cmd *cobra.Command, args []string) error {
	report, cfg, err := runPipeline(cmd, args)
	if err != nil {
		return err
	}

	nodeByPath := make(map[string]models.GraphNode, len(report.Nodes))
	for _, n := range report.Nodes {
		nodeByPath[n.Path] = n
	}

	var rows [][]string
	for _, path := range report.Hotspots {
		n := nodeByPath[path]
		centralityStr := fmt.Sprintf("%.2f", n.Centrality)
		if n.Centrality >= 0.7 {
			centralityStr = color.RedString(centralityStr)
		}
		rows = append(rows, []string{
			path,
			centralityStr,
			fmt.Sprintf("%d", n.Degree),
			fmt.Sprintf("%.2f", n.WeightedDegree),
		})
	}

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd, cfg)), getOutputFile(cmd), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	table := output.NewTable(
		fmt.Sprintf("Coupling Hotspots (Top %.0f%%)", cfg.Thresholds.HotspotPercentile*100),
		[]string{"File", "Centrality", "Degree", "Weighted Degree"},
		rows,
		[]string{
			fmt.Sprintf("Hotspots: %d", len(report.Hotspots)),
			fmt.Sprintf("Bridges: %d", len(report.Bridges)),
		},
		report.Hotspots,
	)
	return formatter.Output(table)
}
