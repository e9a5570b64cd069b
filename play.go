package main

import (
	"context"
	"log/slog"
	"os"
)

// Player builds and runs loose source files through a synthesized cargo
// project.
type Player struct {
	Builder Builder
	Runner  Runner
	Logger  *slog.Logger
}

func (p *Player) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// Play runs opts to completion and returns the exit code for the process.
// With opts.Cached set and a binary left by an earlier build, nothing is
// rebuilt.
func (p *Player) Play(ctx context.Context, opts *Options) (int, error) {
	log := p.logger()
	dir := NewBuildDir(opts)

	if opts.Cached {
		dirExists, binExists := dir.Probe()
		if dirExists && binExists {
			log.Debug("Using cached binary", "path", dir.BinPath)
			return p.run(ctx, dir, opts)
		}
		log.Debug("No cached binary", "path", dir.BinPath, "dir_exists", dirExists)
	}

	sources := opts.Sources()
	files, err := readSources(sources)
	if err != nil {
		return fallbackExitCode, err
	}
	dependencies := ExtractDirectives(files[:1])

	if opts.Clean {
		log.Debug("Cleaning temporary folder", "path", dir.Path)
		if err := dir.Clean(); err != nil {
			return fallbackExitCode, err
		}
	}

	log.Debug("Creating temporary building folder", "path", dir.Path)
	if err := dir.Ensure(); err != nil {
		return fallbackExitCode, err
	}
	if err := WriteManifest(dir.Path, opts.SourceHash(), dependencies, opts.Edition); err != nil {
		return fallbackExitCode, err
	}
	log.Debug("Copying sources", "sources", sources, "dest", dir.Path)
	if err := CopySources(dir.Path, sources); err != nil {
		return fallbackExitCode, err
	}

	status, err := p.Builder.Build(ctx, BuildRequest{
		ManifestPath: dir.ManifestPath(),
		Toolchain:    opts.Toolchain,
		Release:      opts.Release,
		Args:         opts.Args,
	})
	if err != nil {
		return fallbackExitCode, err
	}
	switch {
	case !status.Exited:
		log.Debug("Build ended without exit status")
		return buildFallbackExitCode, nil
	case status.Code != 0:
		return status.Code, nil
	}
	return p.run(ctx, dir, opts)
}

func (p *Player) run(ctx context.Context, dir *BuildDir, opts *Options) (int, error) {
	p.logger().Debug("Running binary", "path", dir.BinPath, "args", opts.Args)
	status, err := p.Runner.Run(ctx, RunRequest{
		BinPath: dir.BinPath,
		Args:    opts.Args,
		Argv0:   opts.Src,
	})
	if err != nil {
		return fallbackExitCode, err
	}
	if !status.Exited {
		return fallbackExitCode, nil
	}
	return status.Code, nil
}

// readSources reads every source; the first failure aborts.
func readSources(paths []string) ([]string, error) {
	files := make([]string, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fsError("read", path, err)
		}
		files = append(files, string(data))
	}
	return files, nil
}
