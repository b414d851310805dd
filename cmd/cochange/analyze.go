package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/panbanda/cochange/internal/cache"
	"github.com/panbanda/cochange/internal/extract"
	"github.com/panbanda/cochange/internal/output"
	"github.com/panbanda/cochange/internal/progress"
	"github.com/panbanda/cochange/internal/vcs"
	"github.com/panbanda/cochange/pkg/analyzer/coupling"
	"github.com/panbanda/cochange/pkg/config"
	"github.com/panbanda/cochange/pkg/models"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Run the full temporal coupling analysis",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().Bool("no-cache", false, "Bypass the report cache")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	repoPath, err := getRepoPath(args)
	if err != nil {
		return err
	}
	days, _ := cmd.Flags().GetInt("days")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	reportCache, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled && !noCache)
	if err != nil {
		return err
	}
	inputHash := analysisHash(repoPath, cfg)

	var report *models.CouplingReport
	if data, ok := reportCache.Get(repoPath, inputHash); ok {
		report = &models.CouplingReport{}
		if err := json.Unmarshal(data, report); err != nil {
			report = nil
		}
	}

	if report == nil {
		spinner := progress.NewSpinner("Extracting commit history...")
		commits, err := extract.New(
			extract.WithDays(days),
			extract.WithExcludes(cfg.Exclude.Suffixes, cfg.Exclude.Dirs),
		).Extract(context.Background(), repoPath)
		spinner.FinishSuccess()
		if err != nil {
			return fmt.Errorf("commit extraction failed (is this a git repository?): %w", err)
		}

		report, err = coupling.New(cfg).Analyze(context.Background(), commits)
		if err != nil {
			return err
		}
		if data, err := json.Marshal(report); err == nil {
			_ = reportCache.Set(repoPath, inputHash, data)
		}
	}

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd, cfg)), getOutputFile(cmd), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	rows := [][]string{
		{"Commits analyzed", fmt.Sprintf("%d / %d", report.AnalyzedCommits, report.TotalCommits)},
		{"Files", fmt.Sprintf("%d", report.Summary.TotalFiles)},
		{"Coupling edges", fmt.Sprintf("%d (%d strong)", report.Summary.TotalEdges, report.Summary.StrongEdges)},
		{"Clusters", fmt.Sprintf("%d", report.Summary.TotalClusters)},
		{"Hotspots", fmt.Sprintf("%d", len(report.Hotspots))},
		{"Bridges", fmt.Sprintf("%d", len(report.Bridges))},
		{"Sessions", fmt.Sprintf("%d", report.Summary.TotalSessions)},
		{"Fix cascades", fmt.Sprintf("%d", report.Summary.TotalCascades)},
		{"Mean centrality", fmt.Sprintf("%.3f", report.Summary.MeanCentrality)},
	}
	var footer []string
	for _, w := range report.Warnings {
		footer = append(footer, fmt.Sprintf("warning: %s", w.Message))
	}

	table := output.NewTable("Temporal Coupling Analysis", []string{"Metric", "Value"}, rows, footer, report)
	return formatter.Output(table)
}

// analysisHash fingerprints the analysis inputs: repository HEAD plus
// the effective configuration. Either changing invalidates the cache.
func analysisHash(repoPath string, cfg *config.Config) string {
	head := "no-head"
	if repo, err := vcs.DefaultOpener().PlainOpenWithDetect(repoPath); err == nil {
		if ref, err := repo.Head(); err == nil {
			head = ref.Hash().String()
		}
	}
	cfgData, _ := json.Marshal(cfg)
	return cache.HashBytes(append([]byte(head), cfgData...))
}
