package config

import (
	"context"
	"fmt"
	"strings"
)

// Loader reads one configuration file.
type Loader interface {
	Load(ctx context.Context, path string) (*File, error)
}

// Settings is the resolved configuration of one invocation.
type Settings struct {
	Workspace WorkspaceSettings
	Plugins   PluginSettings
	Log       LogSettings
	Ledger    LedgerSettings
	Metrics   MetricsSettings
}

// WorkspaceSettings locates the working context and its conventional directories.
type WorkspaceSettings struct {
	Root     string
	ModelDir string
	PredDir  string
	DataDir  string
}

// PluginSettings controls how units are resolved.
type PluginSettings struct {
	SearchPath []string // directories scanned for <unit>.so
	Opener     string   // compiled-in unit serving as "opener"
	Algo       string   // compiled-in unit serving as "algo"
	AlgoPath   string   // explicit Algo plugin file
}

// LogSettings configures the level, format and optional rotated file of the
// logger.
type LogSettings struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// LedgerSettings enables the run ledger when Path is set.
type LedgerSettings struct {
	Path string
}

// MetricsSettings enables the metrics textfile when Textfile is set.
type MetricsSettings struct {
	Textfile string
}

// Default returns the settings used when no file or flag overrides them.
func Default() *Settings {
	return &Settings{
		Workspace: WorkspaceSettings{Root: ".", ModelDir: "model", PredDir: "pred", DataDir: "data"},
		Plugins:   PluginSettings{SearchPath: []string{"."}},
		Log:       LogSettings{Level: "info", Format: "text", MaxSizeMB: 10, MaxBackups: 3},
	}
}

// Validate rejects values the rest of the harness cannot interpret.
func (s *Settings) Validate() error {
	var errs []string

	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be 'debug', 'info', 'warn', or 'error'", s.Log.Level))
	}
	switch strings.ToLower(s.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", s.Log.Format))
	}
	if s.Workspace.ModelDir == "" || s.Workspace.PredDir == "" {
		errs = append(errs, "workspace model_dir and pred_dir must not be empty")
	}
	if s.Plugins.Algo != "" && s.Plugins.AlgoPath != "" {
		errs = append(errs, "plugins algo and algo_path are mutually exclusive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
