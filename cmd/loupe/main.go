// Command loupe inspects glTF, GLB, VRM and VCI files from the terminal.
//
// Usage:
//
//	loupe [-config file] [-log-level lvl] [-profile] <command> [args]
//
// Commands:
//
//	info <file>                 container and document summary
//	json <file> [path]          pretty JSON of the document or of the value at path
//	tree <file>                 node hierarchy with world positions
//	skin <file> <index|all>     skin inverse-bind matrix validation
//	accessor <file> <index>     decoded accessor table
//	select <file> <path>        the panel a JSON path resolves to
//	check <file>...             validate every skin of many files concurrently
//	watch <file> <path>         re-open on change and print the selection again
//
// Exit status is 0 on success, 1 when a command fails and 2 on a usage error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/oxy-loupe/inspector/config"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// errUsage marks command line errors, which exit with status 2.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one loupe invocation and returns its exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("loupe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", config.DefaultPath(), "TOML configuration file")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn or error (overrides the config)")
	profile := fs.Bool("profile", false, "log load time and allocations")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: loupe [-config file] [-log-level lvl] [-profile] <command> [args]")
		fmt.Fprintln(stderr, "commands: info, json, tree, skin, accessor, select, check, watch")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, "loupe:", err)
		return exitFailure
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	level, err := cfg.Level()
	if err != nil {
		fmt.Fprintln(stderr, "loupe:", err)
		return exitUsage
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	a, err := newApp(cfg, logger, stdout, *profile)
	if err != nil {
		fmt.Fprintln(stderr, "loupe:", err)
		return exitFailure
	}

	err = a.dispatch(ctx, fs.Arg(0), fs.Args()[1:])
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		fmt.Fprintln(stderr, "loupe:", err)
		return exitUsage
	default:
		fmt.Fprintln(stderr, newStyle(stderr, cfg.Output.Color).failure("loupe: "+err.Error()))
		return exitFailure
	}
}
