package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/lykia-rs/lykiadb-sub001/internal/config"
	"github.com/lykia-rs/lykiadb-sub001/internal/snapshot"
)

// SnapshotCmd groups the benchmark snapshot subcommands.
type SnapshotCmd struct {
	Save    SnapshotSaveCmd    `cmd:"" help:"Save a new benchmark snapshot"`
	Compare SnapshotCompareCmd `cmd:"" help:"Compare two benchmark snapshots"`
	List    SnapshotListCmd    `cmd:"" help:"List saved benchmark snapshots"`
}

// SnapshotSaveCmd saves command line key=value artifacts as a new
// snapshot.
type SnapshotSaveCmd struct {
	Name     string   `arg:"" help:"Snapshot name"`
	Artifact []string `short:"a" long:"artifact" help:"Artifact in key=value (numeric) form, repeatable"`
}

func (cmd *SnapshotSaveCmd) Run(ctx *Context) error {
	cfg, err := config.Load(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	raiseLogLevel(ctx.Verbose, cfg.LogLevel)

	artifacts := make(snapshot.BenchmarkArtifacts, len(cmd.Artifact))

	for _, kv := range cmd.Artifact {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("artifact must be in key=value format: %s", kv)
		}

		value, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return fmt.Errorf("artifact value must be numeric: %s", kv)
		}

		artifacts[parts[0]] = value
	}

	store := snapshot.New(cfg.Snapshot.Dir)
	if err := store.Save(cmd.Name, artifacts); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	slog.Info("saved snapshot", "name", cmd.Name, "artifacts", len(artifacts), "dir", cfg.Snapshot.Dir)

	fmt.Printf("saved snapshot %q\n", cmd.Name)

	return nil
}

// SnapshotCompareCmd prints a decimal-precise delta report between two
// snapshots as JSON.
type SnapshotCompareCmd struct {
	Baseline string `arg:"" help:"Baseline snapshot name"`
	Current  string `arg:"" help:"Current snapshot name"`
}

func (cmd *SnapshotCompareCmd) Run(ctx *Context) error {
	cfg, err := config.Load(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	raiseLogLevel(ctx.Verbose, cfg.LogLevel)

	store := snapshot.New(cfg.Snapshot.Dir)

	report, err := store.Compare(cmd.Baseline, cmd.Current)
	if err != nil {
		return fmt.Errorf("failed to compare snapshots: %w", err)
	}
	slog.Info("compared snapshots", "baseline", cmd.Baseline, "current", cmd.Current, "metrics", len(report.Deltas))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(report)
}

// SnapshotListCmd lists every saved snapshot, most recent first.
type SnapshotListCmd struct{}

func (cmd *SnapshotListCmd) Run(ctx *Context) error {
	cfg, err := config.Load(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	raiseLogLevel(ctx.Verbose, cfg.LogLevel)

	store := snapshot.New(cfg.Snapshot.Dir)

	metas, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	slog.Info("listed snapshots", "count", len(metas))

	for _, meta := range metas {
		fmt.Printf("%s\t%s\t%s\n", meta.Name, meta.ID, meta.CreatedAt.Format("2006-01-02T15:04:05Z"))
	}

	return nil
}
