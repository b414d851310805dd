package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/panbanda/cochange/internal/output"
	"github.com/panbanda/cochange/pkg/models"
	"github.com/spf13/cobra"
)

var couplingCmd = &cobra.Command{
	Use:   "coupling [path]",
	Short: "Show the strongest coupled file pairs",
	RunE:  runCoupling,
}

func init() {
	couplingCmd.Flags().Int("top", 20, "Show top N pairs by accumulated weight")
	rootCmd.AddCommand(couplingCmd)
}

func runCoupling(cmd *cobra.Command, args []string) error {
	report, cfg, err := runPipeline(cmd, args)
	if err != nil {
		return err
	}
	topN, _ := cmd.Flags().GetInt("top")

	// Edges arrive sorted by path; rank by weight for display.
	edges := make([]models.GraphEdge, len(report.Edges))
	copy(edges, report.Edges)
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Weight > edges[j].Weight
	})
	if len(edges) > topN {
		edges = edges[:topN]
	}

	var rows [][]string
	for _, e := range edges {
		weightStr := fmt.Sprintf("%.2f", e.Weight)
		if e.Weight >= cfg.Thresholds.StrongEdgeWeight {
			weightStr = color.RedString(weightStr)
		}
		bridge := ""
		if e.Bridge {
			bridge = "yes"
		}
		rows = append(rows, []string{e.FileA, e.FileB, fmt.Sprintf("%d", e.Cochanges), weightStr, bridge})
	}

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd, cfg)), getOutputFile(cmd), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	table := output.NewTable(
		fmt.Sprintf("Temporal Coupling (Top %d)", topN),
		[]string{"File A", "File B", "Co-changes", "Weight", "Bridge"},
		rows,
		[]string{
			fmt.Sprintf("Total Edges: %d", report.Summary.TotalEdges),
			fmt.Sprintf("Strong Edges: %d", report.Summary.StrongEdges),
			fmt.Sprintf("Files: %d", report.Summary.TotalFiles),
		},
		report.Edges,
	)
	return formatter.Output(table)
}
