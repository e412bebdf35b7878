package pipeline

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	pferrors "github.com/matzehuels/pyfmt/pkg/errors"
)

// skipDirs are never descended into.
var skipDirs = []string{
	".git", ".hg", ".svn", ".tox", ".nox", ".venv", "venv",
	"__pycache__", "node_modules", "build", "dist", ".mypy_cache", ".ruff_cache",
}

// IsPythonFile reports whether name has a Python source extension.
func IsPythonFile(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".py" || ext == ".pyi"
}

// Discover expands paths into Python files. Files named explicitly are kept
// whatever their extension; directories are walked in lexical order.
// Duplicates are dropped.
func Discover(paths, exclude []string, root string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pferrors.Wrap(pferrors.ErrCodeFileNotFound, err, "%s", p)
		}
		if err != nil {
			return nil, pferrors.Wrap(pferrors.ErrCodeInvalidPath, err, "%s", p)
		}
		if !info.IsDir() {
			add(filepath.Clean(p))
			continue
		}
		err = filepath.WalkDir(p, func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if name != p && (slices.Contains(skipDirs, d.Name()) || excluded(name, exclude, root)) {
					return filepath.SkipDir
				}
				return nil
			}
			if IsPythonFile(name) && !excluded(name, exclude, root) {
				add(name)
			}
			return nil
		})
		if err != nil {
			return nil, pferrors.Wrap(pferrors.ErrCodeInvalidPath, err, "walk %s", p)
		}
	}
	return out, nil
}

// excluded matches name against patterns, first as a slash path relative
// to root, then by base name. A pattern ending in "/**" also matches
// everything below its prefix.
func excluded(name string, patterns []string, root string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel := name
	if root != "" {
		absRoot, err1 := filepath.Abs(root)
		absName, err2 := filepath.Abs(name)
		if err1 == nil && err2 == nil {
			if r, err := filepath.Rel(absRoot, absName); err == nil && !strings.HasPrefix(r, "..") {
				rel = r
			}
		}
	}
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)
	for _, p := range patterns {
		if prefix, ok := strings.CutSuffix(p, "/**"); ok && (rel == prefix || strings.HasPrefix(rel, prefix+"/")) {
			return true
		}
		if ok, _ := path.Match(p, rel); ok {
			return true
		}
		if ok, _ := path.Match(p, base); ok {
			return true
		}
	}
	return false
}
