/*
Package main implements play, a runner for single Rust source files.

play takes one or more loose .rs files, synthesizes a Cargo project around
them, builds it with cargo and runs the resulting binary. The project is
kept between runs so later builds are incremental.

# Dependencies

Dependencies are declared inside the source with //# comments. Every such
line becomes a line of the [dependencies] table of the synthesized
Cargo.toml:

	//# rand = "0.8"
	//# serde = { version = "1", features = ["derive"] }

	fn main() { ... }

Directives are taken verbatim and in order. A directive that is not valid
TOML fails the run before cargo is started.

# Synthesized projects

Projects live in <root>/cargo-play.<key>, where root is --cache-dir or the
system temp directory and key is the unpadded base64url SHA-1 of the
absolute source path. The first source file becomes src/main.rs. Further
files are placed relative to the first file's directory, so

	play main.rs util/strings.rs

produces src/main.rs and src/util/strings.rs.

# CLI Commands

  - run: build and run (the default command)
  - manifest: print the Cargo.toml that would be synthesized
  - clean: remove the synthesized project of a source file
  - cache list|info|clear: inspect synthesized projects

# Usage Examples

Run a file, passing arguments to it:

	play main.rs -- --name world

Reuse the last build when nothing needs rebuilding:

	play --cached main.rs

Use a rustup toolchain:

	cargo play +nightly main.rs

# Configuration

Flag defaults are read from $PLAY_CONFIG (or <user config dir>/play/config.yaml):

	cache_dir: /var/cache/play
	edition: "2021"
	release: false
	cached: true
	toolchain: stable
	log_level: warn

PLAY_CACHE_DIR, PLAY_EDITION, PLAY_TOOLCHAIN and PLAY_LOG override the file.
A .env file in the working directory is loaded first.

# Exit Status

play exits with cargo's status when the build fails and with the binary's
status otherwise. A binary killed by a signal yields -1.
*/
package main
