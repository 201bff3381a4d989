package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/lykia-rs/lykiadb-sub001/internal/config"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/interp"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/parser"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/resolver"
	"github.com/lykia-rs/lykiadb-sub001/internal/query/plan"
	"github.com/lykia-rs/lykiadb-sub001/internal/report"
	"github.com/lykia-rs/lykiadb-sub001/internal/stdlib"
)

var ErrScriptNotFound = errors.New("script file not found")

// RunCmd parses, resolves and evaluates a script file, wiring the SQL
// planner and the standard library into the interpreter.
type RunCmd struct {
	ScriptFile string `arg:"" help:"LykiaDB script file to run" type:"path"`
}

func (cmd *RunCmd) Run(ctx *Context) error {
	cfg, err := config.Load(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	raiseLogLevel(ctx.Verbose, cfg.LogLevel)
	slog.Info("configuration loaded", "config", ctx.Config, "log_level", cfg.LogLevel)

	data, err := os.ReadFile(cmd.ScriptFile)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrScriptNotFound, cmd.ScriptFile)
	}

	src := string(data)
	slog.Debug("scanning and parsing script", "file", cmd.ScriptFile, "bytes", len(src))

	program, err := parser.Parse(src)
	if err != nil {
		report.New(os.Stdout).Report(cmd.ScriptFile, src, err)
		return err
	}
	slog.Debug("parsed script", "statements", len(program.Body))

	r := resolver.New()
	if err := r.Resolve(program); err != nil {
		report.New(os.Stdout).Report(cmd.ScriptFile, src, err)
		return err
	}
	slog.Debug("resolved script")

	var out bytes.Buffer

	it := interp.New(r.Locals, &out)
	it.Queries = plan.New()
	stdlib.Install(it.Root, &out)

	if err := it.Run(program); err != nil {
		fmt.Print(out.String())
		report.New(os.Stdout).Report(cmd.ScriptFile, src, err)
		return err
	}

	fmt.Print(out.String())

	return nil
}
