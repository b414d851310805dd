package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/panbanda/cochange/internal/extract"
	"github.com/panbanda/cochange/internal/progress"
	"github.com/panbanda/cochange/pkg/analyzer/coupling"
	"github.com/panbanda/cochange/pkg/config"
	"github.com/panbanda/cochange/pkg/models"
	"github.com/spf13/cobra"
)

// loadConfig resolves configuration from --config or standard locations.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadOrDefault(), nil
}

func getRepoPath(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	return abs, nil
}

func getFormat(cmd *cobra.Command, cfg *config.Config) string {
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		return f
	}
	return cfg.Output.Format
}

func getOutputFile(cmd *cobra.Command) string {
	out, _ := cmd.Flags().GetString("output")
	return out
}

// runPipeline extracts the commit stream and runs the full analysis.
func runPipeline(cmd *cobra.Command, args []string) (*models.CouplingReport, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	repoPath, err := getRepoPath(args)
	if err != nil {
		return nil, nil, err
	}
	days, _ := cmd.Flags().GetInt("days")

	spinner := progress.NewSpinner("Extracting commit history...")
	commits, err := extract.New(
		extract.WithDays(days),
		extract.WithExcludes(cfg.Exclude.Suffixes, cfg.Exclude.Dirs),
	).Extract(context.Background(), repoPath)
	spinner.FinishSuccess()
	if err != nil {
		return nil, nil, fmt.Errorf("commit extraction failed (is this a git repository?): %w", err)
	}

	report, err := coupling.New(cfg).Analyze(context.Background(), commits)
	if err != nil {
		return nil, nil, err
	}
	return report, cfg, nil
}
