package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/algoharness/contract"
	"github.com/specialistvlad/algoharness/internal/app"
	"github.com/specialistvlad/algoharness/internal/config"
	"github.com/specialistvlad/algoharness/internal/registry"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Exit codes returned by Execute.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

func usageError(err error) *ExitError {
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// Execute dispatches args to the train, predict or history command and
// returns the process exit code. a is the caller's Algo; when nil the Algo is
// resolved through the loader. Modules replace the compiled-in core modules
// when given.
func Execute(ctx context.Context, a contract.Algo, args []string, stdout, stderr io.Writer, modules ...registry.Module) int {
	root := newRootCmd(&runner{algo: a, modules: modules, stdout: stdout, stderr: stderr})
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintf(stderr, "Error: %s\n", exitErr.Message)
		if exitErr.Code == ExitUsage {
			fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.Name())
		}
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitFailure
}

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	workdir    string
	logLevel   string
	logFormat  string
}

// runner carries what the commands need to build an App.
type runner struct {
	algo    contract.Algo
	modules []registry.Module
	stdout  io.Writer
	stderr  io.Writer
	opts    globalOptions
}

func newRootCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "algoharness",
		Short: "Train and predict with pluggable algorithms and dataset openers",
		Long: `algoharness drives an Algo against the dataset served by an Opener.

Models are read from and written to the workspace model directory, predictions
to the prediction directory. The Opener is resolved by name ("opener") from the
compiled-in modules or from <name>.so plugins on the search path.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := cmd.PersistentFlags()
	flags.StringVar(&r.opts.configPath, "config", "", "Configuration file (.hcl, .yaml, .yml or .toml). Defaults to "+app.DefaultConfigName+" in the workdir.")
	flags.StringVar(&r.opts.workdir, "workdir", ".", "Workspace root holding the model, pred and data directories.")
	flags.StringVar(&r.opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.StringVar(&r.opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")

	cmd.AddCommand(trainCmd(r), predictCmd(r), historyCmd(r))
	return cmd
}

// usageArgs turns positional argument errors into usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// settings resolves the configuration file and applies flag overrides. Bad
// configuration is a usage error.
func (r *runner) settings(cmd *cobra.Command) (*config.Settings, error) {
	path := r.opts.configPath
	if path == "" {
		path, _ = app.FindConfig(r.opts.workdir)
	}

	settings, err := app.LoadSettings(cmd.Context(), path)
	if err != nil {
		return nil, usageError(err)
	}

	flags := cmd.Flags()
	if flags.Changed("workdir") || path == "" {
		settings.Workspace.Root = r.opts.workdir
	}
	if flags.Changed("log-level") {
		settings.Log.Level = strings.ToLower(r.opts.logLevel)
	}
	if flags.Changed("log-format") {
		settings.Log.Format = strings.ToLower(r.opts.logFormat)
	}

	if err := settings.Validate(); err != nil {
		return nil, usageError(err)
	}
	return settings, nil
}

// withApp builds the App of one command and releases it afterwards.
func (r *runner) withApp(cmd *cobra.Command, fn func(*app.App) error) error {
	settings, err := r.settings(cmd)
	if err != nil {
		return err
	}

	a, err := app.NewApp(cmd.Context(), r.stderr, settings, r.modules...)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}
