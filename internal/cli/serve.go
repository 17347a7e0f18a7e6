package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/roach88/fieldgate/internal/engine"
	"github.com/roach88/fieldgate/internal/server"
	"github.com/roach88/fieldgate/internal/store"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the validation HTTP server",
		Long: `Start the HTTP server exposing the validation pipeline.

Configuration comes from defaults, then the optional YAML file given
with --config, then FIELDGATE_* environment variables. A .env file in
the working directory is loaded first if present.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rootOpts, configPath, cmd)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")

	return cmd
}

func runServe(opts *RootOptions, configPath string, cmd *cobra.Command) error {
	// Missing .env is fine; only explicit files are required.
	_ = godotenv.Load()

	cfg, err := server.LoadConfig(configPath)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeBadFormat, "load config", err)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var audit *store.Store
	if !cfg.AuditDisabled {
		audit, err = store.Open(cfg.DBPath)
		if err != nil {
			return WrapExitError(ExitCommandError, ErrCodeBadFormat, "open audit store", err)
		}
		defer audit.Close()
		log.Info("audit store open", "path", cfg.DBPath)
	}

	srv := server.New(cfg, log, engine.New(), audit)
	if err := srv.Run(cmd.Context()); err != nil {
		return WrapExitError(ExitCommandError, ErrCodeBadFormat, "server failed", err)
	}
	return nil
}
