package main

import (
	"io"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
)

const (
	srcDir     = "src"
	entryPoint = "main.rs"
)

// CopySources copies sources into dir/src. The first source becomes
// main.rs; the others keep their path relative to the first one's
// directory so `mod` and `include!` references still resolve.
func CopySources(dir string, sources []string) error {
	if len(sources) == 0 {
		return nil
	}

	destination := filepath.Join(dir, srcDir)
	if err := os.MkdirAll(destination, 0o755); err != nil {
		return fsError("create", destination, err)
	}

	primary := sources[0]
	if err := copyFile(primary, filepath.Join(destination, entryPoint)); err != nil {
		return err
	}

	base := filepath.Dir(primary)
	for _, file := range sources[1:] {
		dst, err := relocate(dir, base, file)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fsError("create", filepath.Dir(dst), err)
		}
		if err := copyFile(file, dst); err != nil {
			return err
		}
	}
	return nil
}

// relocate maps an auxiliary source to its place in the synthesized tree.
// The result never leaves dir and never replaces the manifest or the entry
// point.
func relocate(dir, base, file string) (string, error) {
	part, err := filepath.Rel(base, file)
	if err != nil {
		return "", relativizeError(file, base)
	}

	unsafe := filepath.Join(srcDir, part)
	dst := filepath.Join(dir, unsafe)
	confined, err := securejoin.SecureJoin(dir, unsafe)
	if err != nil || confined != dst || reserved(dir, dst) {
		return "", relativizeError(file, base)
	}
	return dst, nil
}

func reserved(dir, dst string) bool {
	return dst == filepath.Join(dir, manifestFile) || dst == filepath.Join(dir, srcDir, entryPoint)
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fsError("open", src, err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return fsError("stat", src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()|0o200)
	if err != nil {
		return fsError("create", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fsError("write", dst, cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fsError("copy", src, err)
	}
	return nil
}
