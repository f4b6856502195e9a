package cli

import (
	"net/url"
	"path/filepath"

	"github.com/assetmirror/assetmirror/internal/logger"
	"github.com/assetmirror/assetmirror/pkg/archive"
	"github.com/assetmirror/assetmirror/pkg/config"
	"github.com/assetmirror/assetmirror/pkg/discovery"
	"github.com/assetmirror/assetmirror/pkg/errors"
	"github.com/assetmirror/assetmirror/pkg/fetch"
	"github.com/assetmirror/assetmirror/pkg/fsutil"
	"github.com/assetmirror/assetmirror/pkg/hooks"
	"github.com/assetmirror/assetmirror/pkg/orchestrator"
	"github.com/assetmirror/assetmirror/pkg/pathmap"
	"github.com/assetmirror/assetmirror/pkg/store"
)

// These variables will be set by the main package.
var (
	ConfigPath *string
	Verbose    *bool
)

// loadConfig loads the configuration from the --config flag or the default
// location and initializes the global logger from it.
func loadConfig() (*config.Config, error) {
	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}

	if configPath == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get default config path")
		}
		configPath = defaultPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	logger.InitLogger(cfg.Settings.LogLevel)

	return cfg, nil
}

// buildOrchestrator wires the mirror pipeline from the configuration. The
// output directory is created here; failure to do so is the one fatal
// startup condition of a run.
func buildOrchestrator(cfg *config.Config) (*orchestrator.Orchestrator, error) {
	root, err := filepath.Abs(cfg.Settings.OutputDir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrOutputDirCreate, "%s: %v", cfg.Settings.OutputDir, err)
	}
	if err := fsutil.EnsureDir(root); err != nil {
		return nil, errors.Wrapf(errors.ErrOutputDirCreate, "%s: %v", root, err)
	}
	logger.Infof("files will be saved to %s", root)

	fetcher := fetch.New(cfg.Settings.HTTPTimeout, cfg.Settings.UserAgent, pathmap.New(root), store.New())
	if cfg.Settings.ExtractArchives {
		fetcher.Extractor = archive.NewExtractor()
	}

	orch := &orchestrator.Orchestrator{Fetcher: fetcher}

	if disc := buildDiscovery(cfg); disc != nil {
		orch.Discovery = disc
	}

	executor, err := buildHooks(cfg)
	if err != nil {
		return nil, err
	}
	if executor != nil {
		orch.Hooks = executor
	}

	return orch, nil
}

// buildDiscovery returns nil when the discovery endpoint is absent or
// unusable; the batch then runs on static sources alone.
func buildDiscovery(cfg *config.Config) *discovery.Client {
	if cfg.Discovery.Endpoint == "" {
		return nil
	}
	endpoint, err := url.Parse(cfg.Discovery.Endpoint)
	if err != nil {
		logger.Warnf("ignoring invalid discovery endpoint %q: %v", cfg.Discovery.Endpoint, err)
		return nil
	}
	origin, err := url.Parse(cfg.Discovery.Origin)
	if err != nil {
		logger.Warnf("ignoring invalid discovery origin %q: %v", cfg.Discovery.Origin, err)
		return nil
	}
	return discovery.New(cfg.Settings.HTTPTimeout, endpoint, origin, cfg.Discovery.Mode, cfg.Settings.UserAgent)
}

// buildHooks loads the configured Tengo scripts, returning nil when no hook
// is configured.
func buildHooks(cfg *config.Config) (*hooks.TengoExecutor, error) {
	paths := map[hooks.HookType]string{
		hooks.PreBatch:  cfg.Hooks.PreBatch,
		hooks.PostSave:  cfg.Hooks.PostSave,
		hooks.PostBatch: cfg.Hooks.PostBatch,
	}

	configured := false
	for _, path := range paths {
		if path != "" {
			configured = true
			break
		}
	}
	if !configured {
		return nil, nil
	}

	executor := hooks.NewTengoExecutor()
	if err := hooks.LoadScripts(executor, paths); err != nil {
		return nil, err
	}
	return executor, nil
}
