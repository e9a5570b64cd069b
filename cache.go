package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gookit/color"
	"gopkg.in/yaml.v3"
)

// CacheEntry describes one synthesized project found under a cache root.
type CacheEntry struct {
	Key     string    `json:"key" yaml:"key"`
	Path    string    `json:"path" yaml:"path"`
	Size    int64     `json:"size" yaml:"size"`
	Debug   bool      `json:"debug" yaml:"debug"`
	Release bool      `json:"release" yaml:"release"`
	ModTime time.Time `json:"modified" yaml:"modified"`
}

// ListCache returns the synthesized projects under root, sorted by key.
// A missing root holds no projects.
func ListCache(root string) ([]CacheEntry, error) {
	dirents, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fsError("read", root, err)
	}

	var entries []CacheEntry
	for _, de := range dirents {
		key, ok := strings.CutPrefix(de.Name(), tempDirPrefix+".")
		if !ok || !de.IsDir() || key == "" {
			continue
		}
		path := filepath.Join(root, de.Name())
		info, err := de.Info()
		if err != nil {
			return nil, fsError("stat", path, err)
		}
		size, err := dirSize(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, CacheEntry{
			Key:     key,
			Path:    path,
			Size:    size,
			Debug:   fileExists(binPath(path, key, false)),
			Release: fileExists(binPath(path, key, true)),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// ClearCache removes every synthesized project under root and reports how
// many were removed.
func ClearCache(root string) (int, error) {
	entries, err := ListCache(root)
	if err != nil {
		return 0, err
	}
	for i, e := range entries {
		if err := (&BuildDir{Path: e.Path}).Clean(); err != nil {
			return i, err
		}
	}
	return len(entries), nil
}

func dirSize(root string) (int64, error) {
	var size int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fsError("walk", path, err)
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return fsError("stat", path, err)
			}
			size += info.Size()
		}
		return nil
	})
	return size, err
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func listCache(w io.Writer, entries []CacheEntry, format string) error {
	switch format {
	case "json":
		return listCacheJSON(w, entries)
	case "yaml":
		return listCacheYAML(w, entries)
	default: // table
		return listCacheTable(w, entries)
	}
}

func listCacheTable(w io.Writer, entries []CacheEntry) error {
	fmt.Fprintln(w, color.Bold.Sprint("Cached projects:"))
	fmt.Fprintln(w, "----------------")

	if len(entries) == 0 {
		fmt.Fprintln(w, "No cached projects found")
		return nil
	}

	for _, e := range entries {
		var builds []string
		if e.Debug {
			builds = append(builds, "debug")
		}
		if e.Release {
			builds = append(builds, "release")
		}
		built := color.Yellow.Sprint("not built")
		if len(builds) > 0 {
			built = color.Green.Sprint(strings.Join(builds, ", "))
		}
		fmt.Fprintf(w, "  %s  %8s  %s  %s\n", e.Key, formatSize(e.Size), e.ModTime.Format("2006-01-02 15:04:05"), built)
	}

	fmt.Fprintf(w, "\nTotal: %d projects\n", len(entries))
	return nil
}

func listCacheJSON(w io.Writer, entries []CacheEntry) error {
	if entries == nil {
		entries = []CacheEntry{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]interface{}{
		"projects": entries,
		"total":    len(entries),
	})
}

func listCacheYAML(w io.Writer, entries []CacheEntry) error {
	encoder := yaml.NewEncoder(w)
	defer func() { _ = encoder.Close() }()
	return encoder.Encode(map[string]interface{}{
		"projects": entries,
		"total":    len(entries),
	})
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
