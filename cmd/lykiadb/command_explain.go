package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lykia-rs/lykiadb-sub001/internal/config"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/env"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/parser"
	"github.com/lykia-rs/lykiadb-sub001/internal/planmd"
	"github.com/lykia-rs/lykiadb-sub001/internal/query/plan"
	"github.com/lykia-rs/lykiadb-sub001/internal/report"
	"github.com/lykia-rs/lykiadb-sub001/internal/stdlib"
)

// ExplainCmd parses a script, lowers every top-level SELECT it finds to
// a logical plan, and renders each as HTML (goldmark's default renderer
// applied to a Markdown document tree).
type ExplainCmd struct {
	ScriptFile string `arg:"" help:"Script file containing one or more SELECT statements" type:"path"`
	Output     string `short:"o" long:"output" help:"Write the rendered HTML to this file instead of stdout" type:"path"`
}

func (cmd *ExplainCmd) Run(ctx *Context) error {
	cfg, err := config.Load(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	raiseLogLevel(ctx.Verbose, cfg.LogLevel)

	data, err := os.ReadFile(cmd.ScriptFile)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrScriptNotFound, cmd.ScriptFile)
	}

	src := string(data)

	program, err := parser.Parse(src)
	if err != nil {
		report.New(os.Stdout).Report(cmd.ScriptFile, src, err)
		return err
	}
	slog.Debug("parsed script for explain", "file", cmd.ScriptFile)

	selects := collectSelects(program)
	slog.Debug("collected top-level selects", "count", len(selects))

	out := os.Stdout

	if cmd.Output != "" {
		f, err := os.Create(cmd.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()

		out = f
	}

	root := env.New(nil)
	stdlib.Install(root, io.Discard)

	for i, sel := range selects {
		node, err := plan.Lower(sel, root)
		if err != nil {
			report.New(os.Stdout).Report(cmd.ScriptFile, src, err)
			return err
		}
		slog.Debug("lowered select to plan", "index", i)

		if i > 0 {
			fmt.Fprintln(out)
		}

		if err := planmd.Render(out, node); err != nil {
			return fmt.Errorf("failed to render plan: %w", err)
		}
	}

	return nil
}

// collectSelects walks a program's top-level statements for bare
// SELECT expression statements.
func collectSelects(program *ast.Program) []*ast.Select {
	var selects []*ast.Select

	for _, stmt := range program.Body {
		exprStmt, ok := stmt.(*ast.ExprStmt)
		if !ok {
			continue
		}

		sel, ok := exprStmt.Expr.(*ast.SelectExpr)
		if !ok {
			continue
		}

		selects = append(selects, sel.Query)
	}

	return selects
}
