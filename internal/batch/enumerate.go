package batch

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/simonhull/cyrfix"
)

// CheckRoot returns an error unless root is an existing directory.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root folder %s is not a directory", root)
	}
	return nil
}

// Enumerate yields the regular files under root whose extension matches one
// of exts, in lexical order. Subdirectories are visited only when recursive
// is set. An empty exts matches every format the tag library can rewrite.
//
// A non-nil error is yielded with the path that could not be read. When
// that path is root itself, nothing else follows.
func Enumerate(root string, recursive bool, exts []string) iter.Seq2[string, error] {
	if len(exts) == 0 {
		for _, format := range cyrfix.Writable() {
			exts = append(exts, format.Extensions()...)
		}
	}

	return func(yield func(string, error) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error { //nolint:errcheck // errors are yielded
			if err != nil {
				if !yield(path, err) {
					return filepath.SkipAll
				}
				return nil
			}

			if d.IsDir() {
				if path != root && !recursive {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() || !matchExtension(path, exts) {
				return nil
			}
			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func matchExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}
	for _, want := range exts {
		if !strings.HasPrefix(want, ".") {
			want = "." + want
		}
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
