package main

import (
	"crypto/sha1" // #nosec G505 - used for naming, not for security
	"encoding/base64"
	"path/filepath"
	"runtime"
	"strings"
)

// tempDirPrefix keeps synthesized projects apart from unrelated temp dirs.
const tempDirPrefix = "cargo-play"

// SourceHash derives the cache key of a source path from its textual form.
func SourceHash(path string) string {
	sum := sha1.Sum([]byte(path)) // #nosec G401
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// PackageName is the crate name cargo builds for a cache key.
func PackageName(hash string) string {
	return strings.ToLower(hash)
}

// TempDirname is the leaf directory name of the synthesized project.
func TempDirname(path string) string {
	return tempDirPrefix + "." + SourceHash(path)
}

// binPath is where cargo places the binary for the given project directory.
func binPath(dir, hash string, release bool) string {
	profile := "debug"
	if release {
		profile = "release"
	}

	name := PackageName(hash)
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(dir, "target", profile, name)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
