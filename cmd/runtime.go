package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sublime-migrate/core/api"
	"sublime-migrate/core/config"
	"sublime-migrate/core/database"
	"sublime-migrate/core/logger"
	"sublime-migrate/core/migrate"
	"sublime-migrate/core/output"
	"sublime-migrate/core/storage"
	"sublime-migrate/feature/archive"
	"sublime-migrate/feature/history"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runtime is the per-command wiring of configuration, logging and output.
type runtime struct {
	cfg       *config.Config
	log       *zap.Logger
	format    output.Format
	formatter output.Formatter
	command   string
	runID     string
	startedAt time.Time

	// Regions of the clients in use, recorded with the run.
	sourceRegion string
	destRegion   string
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg)

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	formatter, err := output.New(output.Options{Format: format, File: cfg.Output.File})
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	return &runtime{
		cfg:       cfg,
		log:       logger.WithRunID(l, runID),
		format:    format,
		formatter: formatter,
		command:   strings.TrimPrefix(cmd.CommandPath(), RootCmd.Name()+" "),
		runID:     runID,
		startedAt: time.Now(),
	}, nil
}

// applyFlags lets explicitly set flags override loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	set := func(name string, dst *string, val string) {
		if flags.Changed(name) {
			*dst = val
		}
	}
	set("format", &cfg.Output.Format, globals.format)
	set("output", &cfg.Output.File, globals.outputFile)
	set("log-level", &cfg.Log.Level, globals.logLevel)
	set("api-key", &cfg.Source.APIKey, globals.apiKey)
	set("region", &cfg.Source.Region, globals.region)
	set("source-api-key", &cfg.Source.APIKey, globals.sourceAPIKey)
	set("source-region", &cfg.Source.Region, globals.sourceRegion)
	set("dest-api-key", &cfg.Destination.APIKey, globals.destAPIKey)
	set("dest-region", &cfg.Destination.Region, globals.destRegion)

	if cfg.Output.File != "" && !flags.Changed("format") {
		cfg.Output.Format = output.FormatMarkdown.String()
	}
}

// single creates the client of a single-instance command.
func (rt *runtime) single() (migrate.Env, error) {
	c, err := api.New(rt.cfg.Source, api.Source)
	if err != nil {
		return migrate.Env{}, err
	}
	rt.sourceRegion = c.Region().Code
	return rt.env(c, nil), nil
}

// pair creates the source and destination clients of a migration.
func (rt *runtime) pair() (migrate.Env, error) {
	src, err := api.New(rt.cfg.Source, api.Source)
	if err != nil {
		return migrate.Env{}, err
	}
	dst, err := api.New(rt.cfg.Destination, api.Destination)
	if err != nil {
		return migrate.Env{}, err
	}
	rt.sourceRegion = src.Region().Code
	rt.destRegion = dst.Region().Code
	rt.log.Debug("clients ready",
		zap.String("source", src.BaseURL()),
		zap.String("destination", dst.BaseURL()),
	)
	return rt.env(src, dst), nil
}

func (rt *runtime) env(src, dst api.Client) migrate.Env {
	return migrate.Env{
		Source:   src,
		Dest:     dst,
		Log:      rt.log,
		Progress: rt.formatter.Progress,
		Workers:  rt.cfg.Fetch.Workers,
		PageSize: rt.cfg.Fetch.PageSize,
	}
}

func (rt *runtime) migrateOptions(dryRun, yes bool) migrate.Options {
	return migrate.Options{
		DryRun:    dryRun,
		Confirmed: yes,
		Formatter: rt.formatter,
		Log:       rt.log,
	}
}

// errFailed marks a command whose result was already reported as failed.
var errFailed = errors.New("command reported failure")

// finish writes res and turns a failed result into an error for the exit code.
func (rt *runtime) finish(res *output.CommandResult) error {
	if err := rt.formatter.Result(res); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	if !res.Success {
		return fmt.Errorf("%w: %s", errFailed, res.Message)
	}
	return nil
}

// fail reports err as a failed result.
func (rt *runtime) fail(err error) error {
	rt.log.Debug("command error", zap.Error(err))
	return rt.finish(output.Failed("Error: "+api.Describe(err), "", nil))
}

// record archives and stores a finished migration when those sinks are
// enabled. Sink failures are logged and never change the result.
func (rt *runtime) record(ctx context.Context, res *output.CommandResult, dryRun bool) {
	if rt.cfg.Storage.Enabled {
		if err := rt.archive(ctx, res); err != nil {
			rt.log.Warn("failed to archive run", zap.Error(err))
		}
	}
	if rt.cfg.Database.Enabled {
		if err := rt.store(ctx, res, dryRun); err != nil {
			rt.log.Warn("failed to record run history", zap.Error(err))
		}
	}
}

func (rt *runtime) archive(ctx context.Context, res *output.CommandResult) error {
	a, err := rt.openArchive()
	if err != nil {
		return err
	}
	key, err := a.Save(ctx, archive.Record{
		RunID:     rt.runID,
		Command:   rt.command,
		StartedAt: rt.startedAt,
		Result:    res,
	})
	if err != nil {
		return err
	}
	rt.log.Info("run archived", zap.String("bucket", rt.cfg.Storage.Bucket), zap.String("key", key))
	return nil
}

func (rt *runtime) store(ctx context.Context, res *output.CommandResult, dryRun bool) error {
	repo, err := rt.openHistory()
	if err != nil {
		return err
	}
	run := history.NewRun(history.Meta{
		RunID:        rt.runID,
		Command:      rt.command,
		DryRun:       dryRun,
		SourceRegion: rt.sourceRegion,
		DestRegion:   rt.destRegion,
		StartedAt:    rt.startedAt,
	}, res, time.Now())
	if err := repo.Record(ctx, run); err != nil {
		return err
	}
	rt.log.Info("run recorded", zap.Int("items", len(run.Items)))
	return nil
}

func (rt *runtime) openArchive() (*archive.Archive, error) {
	client, err := storage.NewClient(rt.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return archive.New(client, rt.cfg.Storage), nil
}

func (rt *runtime) openHistory() (*history.Repository, error) {
	db, err := database.Connect(rt.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	if err := history.Migrate(db); err != nil {
		return nil, err
	}
	return history.NewRepository(db), nil
}
