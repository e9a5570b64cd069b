package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	goerrors "github.com/agilira/go-errors"
)

const (
	manifestFile   = "Cargo.toml"
	packageVersion = "0.1.0"
)

// Package is the [package] table of the synthesized Cargo.toml.
type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Edition string `toml:"edition"`
}

// Manifest is a synthesized Cargo.toml. Dependencies are kept verbatim and
// in source order; they were checked to parse when the manifest was built.
type Manifest struct {
	Package      Package
	Dependencies []string
}

// NewManifest builds the manifest for a project. It fails when a directive
// does not parse as part of a [dependencies] table.
func NewManifest(name string, dependencies []string, edition Edition) (*Manifest, error) {
	if _, err := ParseEdition(string(edition)); err != nil {
		return nil, err
	}

	fragment := "[dependencies]\n" + strings.Join(dependencies, "\n")
	if err := decodeTOML(fragment); err != nil {
		return nil, err
	}

	m := &Manifest{
		Package: Package{
			Name:    PackageName(name),
			Version: packageVersion,
			Edition: string(edition),
		},
		Dependencies: append([]string(nil), dependencies...),
	}

	// directives may still clash with the [package] table
	data, err := m.Render()
	if err != nil {
		return nil, err
	}
	if err := decodeTOML(string(data)); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) Render() ([]byte, error) {
	var buf bytes.Buffer

	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	err := enc.Encode(struct {
		Package Package `toml:"package"`
	}{m.Package})
	if err != nil {
		return nil, goerrors.Wrap(err, ErrManifestParse, "cannot encode [package]")
	}

	buf.WriteString("\n[dependencies]\n")
	for _, dep := range m.Dependencies {
		buf.WriteString(dep)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// WriteManifest writes Cargo.toml at the root of dir.
func WriteManifest(dir, name string, dependencies []string, edition Edition) error {
	m, err := NewManifest(name, dependencies, edition)
	if err != nil {
		return err
	}
	data, err := m.Render()
	if err != nil {
		return err
	}

	path := filepath.Join(dir, manifestFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fsError("write", path, err)
	}
	return nil
}

func decodeTOML(doc string) error {
	var table map[string]any
	if _, err := toml.Decode(doc, &table); err != nil {
		return goerrors.Wrap(err, ErrManifestParse, fmt.Sprintf("invalid dependency directive: %v", err))
	}
	return nil
}
