package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/agilira/orpheus/pkg/orpheus"
	"github.com/gookit/color"
)

const usage = `play - single file cargo runner

Usage:
  play [run] [flags] <file.rs> [other.rs ...] [-- args...]
  play manifest [-e edition] <file.rs>
  play clean [--cache-dir dir] <file.rs>
  play cache [list|info|clear] [--format table|json|yaml]

Also works as a cargo subcommand: cargo play <file.rs>.
A +toolchain argument selects the rustup toolchain, e.g. play +nightly main.rs.

Run flags:
  -c, --clean        rebuild the synthesized project from scratch
      --cached       run the binary of an earlier build when there is one
      --cache-dir    keep synthesized projects under this directory
  -e, --edition      Rust edition: 2015, 2018 or 2021 (default 2018)
      --release      build with optimizations
  -t, --toolchain    toolchain to build with
  -v, --verbose      print diagnostic output
`

// invocation is the command line after cargo-play specific pre-processing.
type invocation struct {
	args      []string
	progArgs  []string
	toolchain string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	inv, ok := splitArgs(args)
	if !ok {
		fmt.Fprint(stdout, usage)
		return 0
	}

	settings, err := LoadSettings()
	if err != nil {
		reportError(stderr, err)
		return ExitCode(err)
	}

	env := newAppEnv(settings, inv, stdout, stderr)
	if err := env.newApp().Run(env.inv.args); err != nil {
		reportError(stderr, err)
		if isUsageError(err) {
			fmt.Fprint(stdout, usage)
			return 0
		}
		return ExitCode(err)
	}
	return env.exitCode
}

// splitArgs drops the "play" token cargo passes to subcommands, takes the
// last +toolchain token and separates program arguments after "--". It
// reports false when nothing is left to run.
func splitArgs(args []string) (invocation, bool) {
	var inv invocation

	if len(args) > 0 && args[0] == "play" {
		args = args[1:]
	}

	rest := args
	for i, arg := range args {
		if arg == "--" {
			rest = args[:i]
			inv.progArgs = append([]string{}, args[i+1:]...)
			break
		}
	}

	for _, arg := range rest {
		if strings.HasPrefix(arg, "+") && len(arg) > 1 {
			inv.toolchain = arg[1:]
			continue
		}
		inv.args = append(inv.args, arg)
	}

	if len(inv.args) == 0 {
		return inv, false
	}
	if !isCommand(inv.args[0]) {
		inv.args = append([]string{"run"}, inv.args...)
	}
	return inv, true
}

func isCommand(arg string) bool {
	switch arg {
	case "run", "manifest", "clean", "cache", "help", "--help", "-h", "--version":
		return true
	}
	return false
}

func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func reportError(w io.Writer, err error) {
	fmt.Fprintln(w, color.Red.Sprintf("error: %v", err))
}

// isUsageError reports errors raised while parsing the command line rather
// than while running it: bad flags, missing arguments, unknown commands.
func isUsageError(err error) bool {
	var cliErr *orpheus.Error
	if !errors.As(err, &cliErr) {
		return false
	}
	return cliErr.IsValidationError() || cliErr.IsNotFoundError()
}
