package parser

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/skelly-dev/lint8/internal/ignore"
)

// Target is one file selected for analysis. Err is set when the requested
// path itself could not be accessed; such targets still occupy their slot so
// the failure is reported in argument order.
type Target struct {
	Path     string
	Explicit bool
	Err      error
}

// CollectFiles expands paths into analysis targets in a deterministic order.
//
// Directories are walked recursively in lexical order and only files with a
// registered extension are kept; matcher (which may be nil) excludes paths
// relative to the walked directory. Explicit file arguments are always kept.
// A file reached twice is only listed once.
func CollectFiles(paths []string, registry *Registry, matcher *ignore.Matcher) []Target {
	targets := make([]Target, 0, len(paths))
	seen := make(map[string]bool)
	add := func(t Target) {
		key := filepath.Clean(t.Path)
		if t.Err == nil {
			if seen[key] {
				return
			}
			seen[key] = true
		}
		targets = append(targets, t)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			add(Target{Path: root, Explicit: true, Err: err})
			continue
		}
		if !info.IsDir() {
			add(Target{Path: root, Explicit: true})
			continue
		}

		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				add(Target{Path: path, Err: fmt.Errorf("walk error: %w", err)})
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}

			relPath, relErr := filepath.Rel(root, path)
			if relErr != nil {
				relPath = path
			}
			if relPath != "." && matcher != nil && matcher.ShouldIgnore(relPath, d.IsDir()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() || !registry.Matches(path) {
				return nil
			}
			add(Target{Path: path})
			return nil
		})
		if walkErr != nil {
			add(Target{Path: root, Err: walkErr})
		}
	}

	return targets
}
