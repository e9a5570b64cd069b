package main

import (
	"fmt"
	"os"
	"path/filepath"

	goerrors "github.com/agilira/go-errors"
)

// Edition is a Rust edition accepted in the synthesized Cargo.toml.
type Edition string

const (
	Edition2015 Edition = "2015"
	Edition2018 Edition = "2018"
	Edition2021 Edition = "2021"

	DefaultEdition = Edition2018
)

var editions = []Edition{Edition2015, Edition2018, Edition2021}

func ParseEdition(s string) (Edition, error) {
	for _, e := range editions {
		if string(e) == s {
			return e, nil
		}
	}
	return "", goerrors.New(ErrInvalidEdition, fmt.Sprintf("invalid edition %q (expected one of %v)", s, editions)).
		WithContext("edition", s)
}

// Options is the run configuration. It is built once and not modified
// afterwards.
type Options struct {
	Src       string
	Aux       []string
	Clean     bool
	Cached    bool
	CacheDir  string
	TempRoot  string
	Release   bool
	Edition   Edition
	Toolchain string
	Args      []string
}

// Sources lists the primary source followed by the auxiliary ones.
func (o *Options) Sources() []string {
	return append([]string{o.Src}, o.Aux...)
}

func (o *Options) SourceHash() string {
	return SourceHash(o.Src)
}

// Root is the directory synthesized projects are created under.
func (o *Options) Root() string {
	if o.CacheDir != "" {
		return o.CacheDir
	}
	if o.TempRoot != "" {
		return o.TempRoot
	}
	return os.TempDir()
}

// Validate checks the invariants the pipeline relies on.
func (o *Options) Validate() error {
	if o.Src == "" {
		return goerrors.New(ErrFileSystem, "no source file given")
	}
	if err := requireFile(o.Src); err != nil {
		return err
	}
	for _, aux := range o.Aux {
		if err := requireFile(aux); err != nil {
			return err
		}
	}
	if o.CacheDir != "" {
		info, err := os.Stat(o.CacheDir)
		if err != nil {
			return fsError("use cache directory", o.CacheDir, err)
		}
		if !info.IsDir() {
			return goerrors.New(ErrFileSystem, fmt.Sprintf("cache directory %s is not a directory", o.CacheDir)).
				WithContext("path", o.CacheDir)
		}
	}
	_, err := ParseEdition(string(o.Edition))
	return err
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fsError("open", path, err)
	}
	if !info.Mode().IsRegular() {
		return goerrors.New(ErrFileSystem, fmt.Sprintf("input file is not a regular file: %s", path)).
			WithContext("path", path)
	}
	return nil
}

// absPath resolves a command line path the way cargo-play always has:
// absolute, with symlinks resolved.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fsError("resolve", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fsError("resolve", path, err)
	}
	return resolved, nil
}
