package config

// File is the on-disk shape shared by every format. Unset fields keep the
// value they already have in Settings.
type File struct {
	Workspace *WorkspaceFile `hcl:"workspace,block" yaml:"workspace" toml:"workspace"`
	Plugins   *PluginsFile   `hcl:"plugins,block" yaml:"plugins" toml:"plugins"`
	Log       *LogFile       `hcl:"log,block" yaml:"log" toml:"log"`
	Ledger    *LedgerFile    `hcl:"ledger,block" yaml:"ledger" toml:"ledger"`
	Metrics   *MetricsFile   `hcl:"metrics,block" yaml:"metrics" toml:"metrics"`
}

// WorkspaceFile is the workspace block.
type WorkspaceFile struct {
	Root     *string `hcl:"root,optional" yaml:"root" toml:"root"`
	ModelDir *string `hcl:"model_dir,optional" yaml:"model_dir" toml:"model_dir"`
	PredDir  *string `hcl:"pred_dir,optional" yaml:"pred_dir" toml:"pred_dir"`
	DataDir  *string `hcl:"data_dir,optional" yaml:"data_dir" toml:"data_dir"`
}

// PluginsFile is the plugins block.
type PluginsFile struct {
	SearchPath []string `hcl:"search_path,optional" yaml:"search_path" toml:"search_path"`
	Opener     *string  `hcl:"opener,optional" yaml:"opener" toml:"opener"`
	Algo       *string  `hcl:"algo,optional" yaml:"algo" toml:"algo"`
	AlgoPath   *string  `hcl:"algo_path,optional" yaml:"algo_path" toml:"algo_path"`
}

// LogFile is the log block.
type LogFile struct {
	Level      *string `hcl:"level,optional" yaml:"level" toml:"level"`
	Format     *string `hcl:"format,optional" yaml:"format" toml:"format"`
	File       *string `hcl:"file,optional" yaml:"file" toml:"file"`
	MaxSizeMB  *int    `hcl:"max_size_mb,optional" yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups *int    `hcl:"max_backups,optional" yaml:"max_backups" toml:"max_backups"`
}

// LedgerFile is the ledger block.
type LedgerFile struct {
	Path *string `hcl:"path,optional" yaml:"path" toml:"path"`
}

// MetricsFile is the metrics block.
type MetricsFile struct {
	Textfile *string `hcl:"textfile,optional" yaml:"textfile" toml:"textfile"`
}

// ApplyTo overwrites the fields of s that f sets.
func (f *File) ApplyTo(s *Settings) {
	if f == nil {
		return
	}
	if w := f.Workspace; w != nil {
		set(&s.Workspace.Root, w.Root)
		set(&s.Workspace.ModelDir, w.ModelDir)
		set(&s.Workspace.PredDir, w.PredDir)
		set(&s.Workspace.DataDir, w.DataDir)
	}
	if p := f.Plugins; p != nil {
		if p.SearchPath != nil {
			s.Plugins.SearchPath = append([]string(nil), p.SearchPath...)
		}
		set(&s.Plugins.Opener, p.Opener)
		set(&s.Plugins.Algo, p.Algo)
		set(&s.Plugins.AlgoPath, p.AlgoPath)
	}
	if l := f.Log; l != nil {
		set(&s.Log.Level, l.Level)
		set(&s.Log.Format, l.Format)
		set(&s.Log.File, l.File)
		set(&s.Log.MaxSizeMB, l.MaxSizeMB)
		set(&s.Log.MaxBackups, l.MaxBackups)
	}
	if f.Ledger != nil {
		set(&s.Ledger.Path, f.Ledger.Path)
	}
	if f.Metrics != nil {
		set(&s.Metrics.Textfile, f.Metrics.Textfile)
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
