package main

import (
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

// Error codes
const (
	ErrFileSystem         goerrors.ErrorCode = "FILE_SYSTEM_ERROR"
	ErrManifestParse      goerrors.ErrorCode = "MANIFEST_PARSE_ERROR"
	ErrInvalidEdition     goerrors.ErrorCode = "INVALID_EDITION"
	ErrPathRelativization goerrors.ErrorCode = "PATH_RELATIVIZATION_ERROR"
	ErrChildProcess       goerrors.ErrorCode = "CHILD_PROCESS_ERROR"
)

const (
	// fallbackExitCode is used when no better status is known, including a
	// binary that was killed before exiting.
	fallbackExitCode = -1
	// buildFallbackExitCode is used when cargo ended without an exit status.
	buildFallbackExitCode = 1
)

// exitCodes maps error codes to process exit statuses, checked in order.
var exitCodes = []struct {
	code   goerrors.ErrorCode
	status int
}{
	{ErrInvalidEdition, 2},
	{ErrFileSystem, 3},
	{ErrPathRelativization, 4},
	{ErrManifestParse, 5},
	{ErrChildProcess, 6},
}

// ExitCode maps a terminal error to the status the process exits with.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	for _, e := range exitCodes {
		if goerrors.HasCode(err, e.code) {
			return e.status
		}
	}
	return fallbackExitCode
}

func fsError(op, path string, err error) error {
	return goerrors.Wrap(err, ErrFileSystem, fmt.Sprintf("cannot %s %s", op, path)).
		WithContext("path", path)
}

func relativizeError(path, base string) error {
	return goerrors.New(ErrPathRelativization,
		fmt.Sprintf("cannot place %s relative to %s", path, base)).
		WithContext("path", path)
}

func childError(name string, err error) error {
	return goerrors.Wrap(err, ErrChildProcess, fmt.Sprintf("cannot run %s", name)).
		WithContext("command", name)
}
