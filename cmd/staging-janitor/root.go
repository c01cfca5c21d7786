package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/princekumarofficial/video-service/internal/config"
	"github.com/princekumarofficial/video-service/internal/logger"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:           "staging-janitor",
		Short:         "Remove stale staged uploads",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := configFlag
			if path == "" {
				path = os.Getenv("CONFIG_PATH")
			}
			loaded, err := config.Load(path)
			if err != nil {
				return err
			}
			cfg = loaded
			logger.Init(cfg.IsLocal(), cfg.SentryDSN)
			return os.MkdirAll(cfg.Staging.Dir, 0o755)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	newJanitor := func() *Janitor {
		return NewJanitor(cfg.Staging.Dir, cfg.Staging.MaxAge, cfg.Staging.SweepInterval, slog.Default())
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Sweep the staging directory on an interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			newJanitor().Start(ctx)
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "sweep",
		Short: "Run a single sweep and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newJanitor().SweepOnce()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d staged files (%s)\n",
				result.Removed, humanize.Bytes(uint64(result.Bytes)))
			return nil
		},
	})

	return rootCmd
}

