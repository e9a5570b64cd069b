package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakeCargo stands in for cargo: it reads the package name from the
// manifest and installs a shell script as the built binary.
const fakeCargo = `
manifest=""
release=""
while [ $# -gt 0 ]; do
  case "$1" in
    --manifest-path) manifest="$2"; shift ;;
    --release) release=1 ;;
    --) break ;;
  esac
  shift
done
[ -n "$manifest" ] || exit 2
dir=$(dirname "$manifest")
grep -q '^main_marker' "$dir/src/main.rs" || exit 3
name=$(sed -n 's/^name = "\(.*\)"$/\1/p' "$manifest")
profile=debug
[ -n "$release" ] && profile=release
mkdir -p "$dir/target/$profile"
out="$dir/target/$profile/$name"
printf '#!/bin/sh\necho "ran $*"\nexit 42\n' > "$out"
chmod +x "$out"
echo built >> "$dir/builds.log"
`

// ===== INTEGRATION TESTS =====

func TestE2EBuildAndRun(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if runtime.GOOS == "windows" {
		t.Skip("fake cargo is a shell script")
	}

	work := t.TempDir()
	cargo := writeScript(t, work, "cargo", fakeCargo)
	src := writeFile(t, filepath.Join(work, "hello.rs"), "main_marker\n//# rand = \"0.8\"\n")

	var stdout bytes.Buffer
	streams := Streams{Stdout: &stdout, Stderr: &bytes.Buffer{}}
	player := &Player{
		Builder: &CargoBuilder{Cargo: cargo, Streams: streams},
		Runner:  &ProcessRunner{Streams: streams},
	}
	opts := &Options{
		Src:      src,
		TempRoot: t.TempDir(),
		Edition:  Edition2018,
		Cached:   true,
		Args:     []string{"one", "two"},
	}

	for i := 0; i < 2; i++ {
		code, err := player.Play(context.Background(), opts)
		if err != nil {
			t.Fatalf("Play() run %d unexpected error: %v", i, err)
		}
		if code != 42 {
			t.Errorf("Play() run %d = %d, expected the binary's 42", i, code)
		}
	}

	if got := strings.Count(stdout.String(), "ran one two"); got != 2 {
		t.Errorf("binary ran %d times, output %q", got, stdout.String())
	}

	dir := NewBuildDir(opts)
	builds, err := os.ReadFile(filepath.Join(dir.Path, "builds.log"))
	if err != nil {
		t.Fatalf("no build recorded: %v", err)
	}
	if got := strings.Count(string(builds), "built"); got != 1 {
		t.Errorf("cargo ran %d times, expected 1 with --cached", got)
	}

	manifest, err := os.ReadFile(dir.ManifestPath())
	if err != nil {
		t.Fatalf("Cargo.toml missing: %v", err)
	}
	if !strings.Contains(string(manifest), `rand = "0.8"`) {
		t.Errorf("Cargo.toml lacks the directive:\n%s", manifest)
	}
}

func TestE2EBuildFailureSkipsRun(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	work := t.TempDir()
	cargo := writeScript(t, work, "cargo", fakeCargo)
	// no marker: the fake cargo fails with 3
	src := writeFile(t, filepath.Join(work, "broken.rs"), "fn main() {\n")

	var stdout bytes.Buffer
	streams := Streams{Stdout: &stdout}
	player := &Player{
		Builder: &CargoBuilder{Cargo: cargo, Streams: streams},
		Runner:  &ProcessRunner{Streams: streams},
	}
	opts := &Options{Src: src, TempRoot: t.TempDir(), Edition: Edition2018}

	code, err := player.Play(context.Background(), opts)
	if err != nil {
		t.Fatalf("Play() unexpected error: %v", err)
	}
	if code != 3 {
		t.Errorf("Play() = %d, expected cargo's 3", code)
	}
	if strings.Contains(stdout.String(), "ran") {
		t.Errorf("binary ran after a failed build")
	}
}

func TestE2EReleaseAndClean(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	work := t.TempDir()
	cargo := writeScript(t, work, "cargo", fakeCargo)
	src := writeFile(t, filepath.Join(work, "main.rs"), "main_marker\n")

	player := &Player{
		Builder: &CargoBuilder{Cargo: cargo, Streams: Streams{Stdout: &bytes.Buffer{}}},
		Runner:  &ProcessRunner{Streams: Streams{Stdout: &bytes.Buffer{}}},
	}
	opts := &Options{Src: src, TempRoot: t.TempDir(), Edition: Edition2021, Release: true, Clean: true}

	for i := 0; i < 2; i++ {
		if code, err := player.Play(context.Background(), opts); err != nil || code != 42 {
			t.Fatalf("Play() = %d, %v", code, err)
		}
	}

	dir := NewBuildDir(opts)
	if _, bin := dir.Probe(); !bin {
		t.Errorf("release binary missing at %s", dir.BinPath)
	}
	builds, err := os.ReadFile(filepath.Join(dir.Path, "builds.log"))
	if err != nil {
		t.Fatalf("no build recorded: %v", err)
	}
	if got := strings.Count(string(builds), "built"); got != 1 {
		t.Errorf("builds.log survived clean: %d builds recorded", got)
	}
}

func BenchmarkE2ESynthesize(b *testing.B) {
	work := b.TempDir()
	src := filepath.Join(work, "main.rs")
	if err := os.WriteFile(src, []byte("//# a = \"1\"\nfn main() {}\n"), 0o644); err != nil {
		b.Fatalf("Failed to write source: %v", err)
	}
	opts := &Options{Src: src, TempRoot: b.TempDir(), Edition: Edition2018}
	player := &Player{Builder: &fakeBuilder{status: Exited(1)}, Runner: &fakeRunner{}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = player.Play(context.Background(), opts)
	}
}
