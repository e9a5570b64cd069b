package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// Status is how a child process ended. Exited is false when it ended
// without an exit code, e.g. killed by a signal.
type Status struct {
	Code   int
	Exited bool
}

func Exited(code int) Status {
	return Status{Code: code, Exited: true}
}

// BuildRequest describes one cargo build of a synthesized project.
type BuildRequest struct {
	ManifestPath string
	Toolchain    string
	Release      bool
	Args         []string
}

// RunRequest describes one execution of a built binary. Argv0 is the
// program name the binary sees.
type RunRequest struct {
	BinPath string
	Args    []string
	Argv0   string
}

type Builder interface {
	Build(ctx context.Context, req BuildRequest) (Status, error)
}

type Runner interface {
	Run(ctx context.Context, req RunRequest) (Status, error)
}

// Streams are the standard streams handed to child processes.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func StdStreams() Streams {
	return Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// CargoBuilder builds projects with the cargo command line tool.
type CargoBuilder struct {
	Cargo string
	Streams
}

func (b *CargoBuilder) command() string {
	if b.Cargo == "" {
		return "cargo"
	}
	return b.Cargo
}

// BuildArgs is the cargo command line for req, without the program name.
func BuildArgs(req BuildRequest) []string {
	var args []string
	if req.Toolchain != "" {
		args = append(args, "+"+req.Toolchain)
	}
	args = append(args, "build", "--manifest-path", req.ManifestPath)
	if req.Release {
		args = append(args, "--release")
	}
	if len(req.Args) > 0 {
		args = append(args, "--")
		args = append(args, req.Args...)
	}
	return args
}

func (b *CargoBuilder) Build(ctx context.Context, req BuildRequest) (Status, error) {
	// #nosec G204 - running cargo on a generated manifest is the point
	cmd := exec.CommandContext(ctx, b.command(), BuildArgs(req)...)
	b.attach(cmd)
	return wait(b.command(), cmd.Run())
}

// ProcessRunner executes built binaries.
type ProcessRunner struct {
	Streams
}

func (r *ProcessRunner) Run(ctx context.Context, req RunRequest) (Status, error) {
	return wait(req.BinPath, r.command(ctx, req).Run())
}

func (r *ProcessRunner) command(ctx context.Context, req RunRequest) *exec.Cmd {
	// #nosec G204 - the binary was just built from the user's own sources
	cmd := exec.CommandContext(ctx, req.BinPath, req.Args...)
	if req.Argv0 != "" {
		cmd.Args[0] = req.Argv0
	}
	r.attach(cmd)
	return cmd
}

func (s Streams) attach(cmd *exec.Cmd) {
	cmd.Stdin = s.Stdin
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
}

// wait turns the result of cmd.Run into a Status. Only a failure to start
// the process or collect its status is an error.
func wait(name string, err error) (Status, error) {
	if err == nil {
		return Exited(0), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			return Status{Code: code}, nil
		}
		return Exited(code), nil
	}
	return Status{}, childError(name, err)
}
