package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/agilira/orpheus/pkg/orpheus"
)

// appEnv carries what command handlers need besides their flags.
type appEnv struct {
	settings  Settings
	inv       invocation
	stdout    io.Writer
	stderr    io.Writer
	tempRoot  string
	newPlayer func(logger *slog.Logger) *Player
	exitCode  int
}

func newAppEnv(settings Settings, inv invocation, stdout, stderr io.Writer) *appEnv {
	return &appEnv{
		settings: settings,
		inv:      inv,
		stdout:   stdout,
		stderr:   stderr,
		tempRoot: os.TempDir(),
		newPlayer: func(logger *slog.Logger) *Player {
			streams := StdStreams()
			return &Player{
				Builder: &CargoBuilder{Streams: streams},
				Runner:  &ProcessRunner{Streams: streams},
				Logger:  logger,
			}
		},
	}
}

func (e *appEnv) newApp() *orpheus.App {
	app := orpheus.New("play").
		SetDescription("Single file cargo runner").
		SetVersion("0.5.0")

	runCmd := orpheus.NewCommand("run", "Build and run Rust source files").
		SetHandler(e.runCommand).
		AddBoolFlag("clean", "c", false, "Rebuild the synthesized project from scratch").
		AddBoolFlag("cached", "", e.settings.Cached, "Run the binary of an earlier build when there is one").
		AddFlag("cache-dir", "", e.settings.CacheDir, "Keep synthesized projects under this directory").
		AddFlag("edition", "e", e.settings.Edition, "Rust edition (2015, 2018, 2021)").
		AddBoolFlag("release", "", e.settings.Release, "Build with optimizations").
		AddBoolFlag("debug", "d", false, "Build without optimizations").
		AddFlag("toolchain", "t", e.settings.Toolchain, "Toolchain to build with").
		AddBoolFlag("verbose", "v", false, "Print diagnostic output")

	manifestCmd := orpheus.NewCommand("manifest", "Print the Cargo.toml synthesized for a source file").
		SetHandler(e.manifestCommand).
		AddFlag("edition", "e", e.settings.Edition, "Rust edition (2015, 2018, 2021)")

	cleanCmd := orpheus.NewCommand("clean", "Remove the synthesized project of a source file").
		SetHandler(e.cleanCommand).
		AddFlag("cache-dir", "", e.settings.CacheDir, "Directory synthesized projects are kept under")

	cacheCmd := orpheus.NewCommand("cache", "Inspect synthesized projects (list, info, clear)").
		SetHandler(e.cacheCommand).
		AddFlag("cache-dir", "", e.settings.CacheDir, "Directory synthesized projects are kept under").
		AddFlag("format", "f", "table", "Output format for list (table, json, yaml)")

	app.AddCommand(runCmd)
	app.AddCommand(manifestCmd)
	app.AddCommand(cleanCmd)
	app.AddCommand(cacheCmd)
	return app
}

func (e *appEnv) runCommand(ctx *orpheus.Context) error {
	opts, err := e.options(ctx, "run")
	if err != nil {
		return err
	}
	opts.Clean = ctx.GetFlagBool("clean")
	opts.Cached = ctx.GetFlagBool("cached")
	opts.Release = ctx.GetFlagBool("release") && !ctx.GetFlagBool("debug")
	opts.Toolchain = firstNonEmpty(e.inv.toolchain, ctx.GetFlagString("toolchain"))
	opts.Args = e.inv.progArgs

	if opts.Edition, err = ParseEdition(ctx.GetFlagString("edition")); err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	logger := newLogger(e.stderr, e.settings.LogLevel, ctx.GetFlagBool("verbose"))
	code, err := e.newPlayer(logger).Play(context.Background(), opts)
	if err != nil {
		return err
	}
	e.exitCode = code
	return nil
}

func (e *appEnv) manifestCommand(ctx *orpheus.Context) error {
	opts, err := e.options(ctx, "manifest")
	if err != nil {
		return err
	}
	edition, err := ParseEdition(ctx.GetFlagString("edition"))
	if err != nil {
		return err
	}

	files, err := readSources(opts.Sources()[:1])
	if err != nil {
		return err
	}
	m, err := NewManifest(opts.SourceHash(), ExtractDirectives(files), edition)
	if err != nil {
		return err
	}
	data, err := m.Render()
	if err != nil {
		return err
	}
	_, err = e.stdout.Write(data)
	return err
}

func (e *appEnv) cleanCommand(ctx *orpheus.Context) error {
	opts, err := e.options(ctx, "clean")
	if err != nil {
		return err
	}
	if opts.CacheDir, err = e.cacheDir(ctx); err != nil {
		return err
	}

	dir := NewBuildDir(opts)
	if err := dir.Clean(); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Removed %s\n", dir.Path)
	return nil
}

func (e *appEnv) cacheCommand(ctx *orpheus.Context) error {
	cacheDir, err := e.cacheDir(ctx)
	if err != nil {
		return err
	}
	root := (&Options{CacheDir: cacheDir, TempRoot: e.tempRoot}).Root()

	action := "list"
	if args := positionals(ctx); len(args) > 0 {
		action = args[0]
	}

	switch action {
	case "list":
		entries, err := ListCache(root)
		if err != nil {
			return err
		}
		return listCache(e.stdout, entries, ctx.GetFlagString("format"))
	case "info":
		entries, err := ListCache(root)
		if err != nil {
			return err
		}
		var total int64
		for _, entry := range entries {
			total += entry.Size
		}
		fmt.Fprintf(e.stdout, "Cache root: %s\n", root)
		fmt.Fprintf(e.stdout, "Projects:   %d\n", len(entries))
		fmt.Fprintf(e.stdout, "Size:       %s\n", formatSize(total))
		return nil
	case "clear":
		n, err := ClearCache(root)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Removed %d cached projects from %s\n", n, root)
		return nil
	default:
		return orpheus.ValidationError("cache", fmt.Sprintf("unknown action '%s' (expected list, info or clear)", action))
	}
}

// options resolves the source arguments shared by run, manifest and clean.
func (e *appEnv) options(ctx *orpheus.Context, command string) (*Options, error) {
	args := positionals(ctx)
	if len(args) == 0 {
		return nil, orpheus.ValidationError(command, "missing source file")
	}

	opts := &Options{TempRoot: e.tempRoot, Edition: DefaultEdition}
	for i, arg := range args {
		path, err := absPath(arg)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			opts.Src = path
			continue
		}
		opts.Aux = append(opts.Aux, path)
	}

	if command == "run" {
		cacheDir, err := e.cacheDir(ctx)
		if err != nil {
			return nil, err
		}
		opts.CacheDir = cacheDir
	}
	return opts, nil
}

// positionals are the arguments left once the command's flags are parsed;
// ctx.Args still holds the flag tokens.
func positionals(ctx *orpheus.Context) []string {
	if ctx.Flags == nil {
		return ctx.Args
	}
	return ctx.Flags.Args()
}

func (e *appEnv) cacheDir(ctx *orpheus.Context) (string, error) {
	dir := ctx.GetFlagString("cache-dir")
	if dir == "" {
		return "", nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fsError("resolve", dir, err)
	}
	return abs, nil
}
