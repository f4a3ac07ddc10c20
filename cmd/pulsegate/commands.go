package main

import (
	"context"
	"fmt"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/aleister1102/pulsegate/internal/common"
	"github.com/aleister1102/pulsegate/internal/common/command"
	"github.com/aleister1102/pulsegate/internal/config"
	"github.com/aleister1102/pulsegate/internal/configscanner"
	"github.com/aleister1102/pulsegate/internal/logger"
	"github.com/aleister1102/pulsegate/internal/models"
	"github.com/aleister1102/pulsegate/internal/sbom"
	"github.com/aleister1102/pulsegate/internal/secretscanner"
	"github.com/aleister1102/pulsegate/internal/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
)

// pipeline is what every subcommand runs.
type pipeline interface {
	Run(ctx context.Context) (models.RunSummary, error)
}

// app carries what the pipelines are built from.
type app struct {
	cfg      *config.GlobalConfig
	runID    string
	logger   zerolog.Logger
	executor command.Executor
	uploader *uploader.Client
}

func newRootCmd() *cobra.Command {
	flags := &AppFlags{}

	root := &cobra.Command{
		Use:           "pulsegate",
		Short:         "Scan a CI workspace and report to open-pulse",
		Long:          "pulsegate runs gitleaks, trivy and cdxgen over a build workspace and uploads the results to the open-pulse reporting API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.register(root)

	root.AddCommand(
		newPipelineCmd(flags, "secrets", "Detect hard-coded secrets with gitleaks", func(a *app) (pipeline, error) {
			return secretscanner.NewDetector(a.cfg, a.executor, a.uploader, a.runID, a.logger)
		}),
		newPipelineCmd(flags, "configs", "Scan infrastructure configuration with trivy", func(a *app) (pipeline, error) {
			return configscanner.NewScanner(a.cfg, a.executor, a.uploader, a.runID, a.logger)
		}),
		newPipelineCmd(flags, "sbom", "Generate and upload a CycloneDX SBOM with cdxgen", func(a *app) (pipeline, error) {
			return sbom.NewPipeline(a.cfg, a.executor, a.uploader, a.runID, a.logger)
		}),
		newVersionCmd(),
	)
	return root
}

func newPipelineCmd(flags *AppFlags, use, short string, build func(*app) (pipeline, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}

			p, err := build(a)
			if err != nil {
				return common.WrapErrorf(err, "failed to initialize %s pipeline", use)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			summary, err := p.Run(ctx)
			if err != nil {
				a.logger.Error().Err(err).Str("pipeline", summary.Pipeline).Str("status", string(summary.Status)).Msg("Pipeline failed")
				return err
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pulsegate %s (commit %s, %s %s/%s)\n",
				version, commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

// loadConfig assembles the configuration: defaults, file, environment,
// then flags, and validates the result.
func loadConfig(flags *AppFlags, lookup config.LookupFunc, bootstrap zerolog.Logger) (*config.GlobalConfig, error) {
	cfg, err := config.LoadGlobalConfig(flags.ConfigFile, bootstrap)
	if err != nil {
		return nil, common.WrapError(err, "could not load configuration")
	}
	config.ApplyEnv(cfg, lookup)
	flags.apply(cfg)

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp(flags *AppFlags) (*app, error) {
	cfg, err := loadConfig(flags, nil, zerolog.Nop())
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log, err := logger.NewWithRunID(cfg.LogConfig, runID)
	if err != nil {
		return nil, common.WrapError(err, "could not initialize logger")
	}
	log.Debug().Str("version", version).Msg("Configuration loaded")

	client, err := uploader.NewClient(cfg.ReportingConfig, log)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		runID:    runID,
		logger:   log,
		executor: command.NewExecExecutor(log),
		uploader: client,
	}, nil
}
