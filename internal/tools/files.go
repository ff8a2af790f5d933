package tools

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileFilter narrows an explicit file list to the files a tool should see.
type FileFilter struct {
	// Extensions keeps only files with one of these suffixes. Empty keeps all.
	Extensions []string
	// Exclude drops files matching any of these doublestar globs.
	Exclude []string
}

// Apply returns the files that pass the filter, preserving order and
// dropping duplicates. Paths are matched in slash form.
func (f FileFilter) Apply(files []string) []string {
	kept := make([]string, 0, len(files))
	seen := make(map[string]bool, len(files))

	for _, file := range files {
		file = strings.TrimSpace(file)
		if file == "" || seen[file] {
			continue
		}
		seen[file] = true

		if !f.hasExtension(file) || f.excluded(file) {
			continue
		}
		kept = append(kept, file)
	}

	return kept
}

func (f FileFilter) hasExtension(file string) bool {
	if len(f.Extensions) == 0 {
		return true
	}
	return slices.Contains(f.Extensions, strings.ToLower(filepath.Ext(file)))
}

func (f FileFilter) excluded(file string) bool {
	slashed := strings.TrimPrefix(filepath.ToSlash(filepath.Clean(file)), "./")
	for _, pattern := range f.Exclude {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}

// PackageDirs maps files to their package directories in first-seen
// order, without duplicates. Go tools treat named .go files as a single
// ad hoc package, so package-aware tools get directories instead.
func PackageDirs(files []string) []string {
	dirs := make([]string, 0, len(files))
	seen := make(map[string]bool, len(files))

	for _, file := range files {
		dir := filepath.ToSlash(filepath.Dir(file))
		if dir != "." && !filepath.IsAbs(dir) {
			dir = "./" + dir
		}
		if seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}

	return dirs
}

// SplitFileArgs flattens arguments that carry several whitespace-separated
// paths, as produced by changed-files CI outputs.
func SplitFileArgs(args []string) []string {
	var files []string
	for _, arg := range args {
		files = append(files, strings.Fields(arg)...)
	}
	return files
}
