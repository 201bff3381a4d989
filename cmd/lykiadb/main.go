// Command lykiadb is the CLI front-end over the language pipeline: it
// runs scripts, explains the query plan a script's SELECTs lower to, and
// manages benchmark snapshots.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// Context is the shared state every subcommand's Run method receives.
type Context struct {
	Config  string
	Verbose bool
}

var CLI struct {
	Config   string         `help:"Configuration file path" default:"lykiadb.yaml"`
	Verbose  bool           `help:"Enable verbose output" short:"v"`
	Run      RunCmd         `cmd:"" help:"Run a LykiaDB script file"`
	Explain  ExplainCmd     `cmd:"" help:"Render the query plan for a script's SQL statements as HTML"`
	Snapshot SnapshotCmd    `cmd:"" help:"Manage benchmark snapshots"`
	Version  VersionCmd     `cmd:"" help:"Show version information"`
}

// VersionCmd prints the CLI's version string.
type VersionCmd struct{}

func (cmd *VersionCmd) Run(_ *Context) error {
	fmt.Println("lykiadb v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI)

	setupLogging(CLI.Verbose)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging installs the default slog handler, writing to stderr so
// it never interleaves with a script's own stdout output. -v/--verbose
// lowers the level to Debug; raiseLogLevel bumps it again once a
// subcommand has loaded its config's own log_level.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// raiseLogLevel re-installs the default handler at Debug when the
// loaded configuration asks for it and -v/--verbose wasn't already set.
func raiseLogLevel(verbose bool, configLogLevel string) {
	if verbose || configLogLevel != "debug" {
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
}
