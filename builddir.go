package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	goerrors "github.com/agilira/go-errors"
)

// BuildDir is the synthesized project directory for one primary source.
// The same source path always maps to the same directory.
type BuildDir struct {
	Path    string
	BinPath string
}

func NewBuildDir(opts *Options) *BuildDir {
	dir := filepath.Join(opts.Root(), TempDirname(opts.Src))
	return &BuildDir{
		Path:    dir,
		BinPath: binPath(dir, opts.SourceHash(), opts.Release),
	}
}

// Probe reports whether the directory and a previously built binary exist.
func (d *BuildDir) Probe() (dirExists, binExists bool) {
	if info, err := os.Stat(d.Path); err == nil && info.IsDir() {
		dirExists = true
	}
	if info, err := os.Stat(d.BinPath); err == nil && info.Mode().IsRegular() {
		binExists = true
	}
	return dirExists, binExists
}

// Clean removes the directory and everything under it. A missing
// directory is not an error.
func (d *BuildDir) Clean() error {
	if err := os.RemoveAll(d.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fsError("remove", d.Path, err)
	}
	return nil
}

// Ensure creates the directory. An existing directory is not an error.
func (d *BuildDir) Ensure() error {
	err := os.Mkdir(d.Path, 0o755)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return fsError("create", d.Path, err)
	}

	info, serr := os.Stat(d.Path)
	if serr != nil {
		return fsError("create", d.Path, serr)
	}
	if !info.IsDir() {
		return goerrors.New(ErrFileSystem, fmt.Sprintf("%s exists and is not a directory", d.Path)).
			WithContext("path", d.Path)
	}
	return nil
}

func (d *BuildDir) ManifestPath() string {
	return filepath.Join(d.Path, manifestFile)
}
