package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/gregjones/httpcache"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/danobi/prr/internal/app"
	"github.com/danobi/prr/internal/backend"
	"github.com/danobi/prr/internal/cache"
	"github.com/danobi/prr/internal/config"
	"github.com/danobi/prr/internal/github"
)

const version = "0.3.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "prr",
	Short: "Mailing list style code reviews for GitHub",
	Long: `prr downloads a pull request into a plain text review file. Comment on it
in your editor by writing unquoted lines between the quoted diff, then submit
the review back to GitHub.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(flagVerbose)
	},
}

// runErr records the error of the command that ran, as opposed to a flag or
// argument error reported by cobra before any command started.
var runErr error

// usageError marks bad user input, such as an unparsable PR handle.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// run adapts a command handler so its errors are told apart from cobra's.
func run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		runErr = err
		return err
	}
}

// Run executes the root command and returns an exit code.
func Run() int {
	return execute(os.Args[1:])
}

func execute(args []string) int {
	runErr = nil
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	if runErr == nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Run '%s --help' for usage.\n", rootCmd.CommandPath())
		return ExitUsageError
	}
	return exitCodeFor(err)
}

func exitCodeFor(err error) int {
	var ue usageError
	switch {
	case errors.As(err, &ue):
		return ExitUsageError
	case errors.Is(err, config.ErrNoToken),
		errors.Is(err, config.ErrTildeWorkdir),
		errors.Is(err, backend.ErrUnauthorized):
		return ExitAuthError
	default:
		return ExitRuntimeError
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func loadConfig(overrides map[string]string) (config.Config, error) {
	return config.Load(config.Options{Path: flagConfig, Overrides: overrides})
}

// newApp builds the coordinator. Commands that talk to GitHub pass online,
// which requires a token.
func newApp(cmd *cobra.Command, cfg config.Config, online bool) (*app.App, error) {
	opts := app.Options{
		Config: cfg,
		Logger: slog.Default(),
		Stdout: cmd.OutOrStdout(),
	}
	if online {
		be, err := newBackend(cfg)
		if err != nil {
			return nil, err
		}
		opts.Backend = be
	}
	return app.New(opts), nil
}

func newBackend(cfg config.Config) (*github.Client, error) {
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}
	var hc httpcache.Cache
	if cfg.Cache.Enabled {
		c, err := cache.New(afero.NewOsFs(), true, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
		if err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
		hc = c
	}
	return github.NewClient(github.Options{
		Token:   cfg.Token,
		BaseURL: cfg.URL,
		Cache:   hc,
		Logger:  slog.Default(),
	})
}

// resolve parses a PR argument, reporting failures as usage errors.
func resolve(cmd *cobra.Command, a *app.App, s string) (app.PRRef, error) {
	ref, err := a.Resolve(cmd.Context(), s)
	if err != nil {
		return app.PRRef{}, usageError{err}
	}
	return ref, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print prr version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "prr version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file (default $XDG_CONFIG_HOME/prr/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}
