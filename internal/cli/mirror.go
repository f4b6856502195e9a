package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/assetmirror/assetmirror/internal/logger"
	"github.com/assetmirror/assetmirror/pkg/orchestrator"
)

// NewMirrorCmd creates the mirror command.
func NewMirrorCmd() *cobra.Command {
	var (
		dir         string
		concurrency int
		timeout     time.Duration
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Fetch all configured assets into the local mirror",
		Long: `Build the full batch of asset URLs from the discovery endpoint and the
statically configured source groups, fetch each one concurrently, and
persist it under the output directory. Unchanged files are skipped,
changed files are overwritten. Individual failures are logged and never
abort the batch.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMirror(cmd, dir, concurrency, timeout, dryRun)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (defaults to config)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Number of parallel fetches (0=config default)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (0=config default)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the batch without fetching anything")

	return cmd
}

func runMirror(cmd *cobra.Command, dir string, concurrency int, timeout time.Duration, dryRun bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// CLI flags override the configured values.
	if dir != "" {
		cfg.Settings.OutputDir = dir
	}
	if concurrency > 0 {
		cfg.Settings.MaxConcurrent = concurrency
	}
	if timeout > 0 {
		cfg.Settings.HTTPTimeout = timeout
	}

	orch, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}

	summary, err := orch.Run(cmd.Context(), orchestrator.Batch{
		Segments: cfg.Discovery.Segments,
		Static:   cfg.Sources.URLs(),
	}, orchestrator.Options{
		Concurrency: cfg.Settings.MaxConcurrent,
		DryRun:      dryRun,
	})
	if err != nil {
		return err
	}

	// Per-item failures are not batch failures: report and exit zero.
	logger.Successf("mirror run complete: %s", summary)
	return nil
}
