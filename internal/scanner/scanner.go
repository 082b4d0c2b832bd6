// Package scanner expands glob patterns into the list of files to deploy.
//
// Patterns are matched with doublestar semantics against paths relative to a
// source directory, so "**/*.js" matches at any depth. A pattern prefixed with
// "!" excludes whatever it matches from the union of the other patterns.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/sourcefs"
)

// Scanner walks a filesystem and matches files against glob patterns.
type Scanner struct {
	filesystem billy.Filesystem
}

// NewScanner creates a new scanner over the provided filesystem.
func NewScanner(filesystem billy.Filesystem) *Scanner {
	return &Scanner{filesystem: filesystem}
}

// Expand returns the files under source matched by patterns, as sorted,
// slash-separated paths relative to source. Directories are never returned
// and a file matched by several patterns appears once. An absolute source
// is read from where it points, even outside the scanner's filesystem.
func (s *Scanner) Expand(ctx context.Context, source string, patterns []string) ([]string, error) {
	includes, excludes, err := splitPatterns(patterns)
	if err != nil {
		return nil, err
	}

	filesystem, root := sourcefs.Open(s.filesystem, source)
	info, err := filesystem.Stat(root)
	if err != nil {
		return nil, errors.Wrap("scan", errors.ErrFilesystem, err).WithKey(source)
	}
	if !info.IsDir() {
		return nil, errors.Wrap("scan", errors.ErrFilesystem, fmt.Errorf("%s is not a directory", source)).
			WithKey(source)
	}

	if len(includes) == 0 {
		return []string{}, nil
	}

	seen := make(map[string]struct{})
	err = util.Walk(filesystem, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip directories (we only want files)
		if info.IsDir() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		if matchAny(includes, relPath) && !matchAny(excludes, relPath) {
			seen[relPath] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap("scan", errors.ErrFilesystem, err).WithKey(source)
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)

	return files, nil
}

// ValidatePatterns reports the first syntactically invalid pattern.
func ValidatePatterns(patterns []string) error {
	_, _, err := splitPatterns(patterns)
	return err
}

func splitPatterns(patterns []string) (includes, excludes []string, err error) {
	for i, raw := range patterns {
		pattern := strings.TrimSpace(raw)
		exclude := strings.HasPrefix(pattern, "!")
		pattern = normalizePattern(strings.TrimPrefix(pattern, "!"))
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, nil, errors.NewError("scan", errors.ErrInvalidConfig).
				WithMessage(fmt.Sprintf("invalid pattern at index %d '%s'", i, raw))
		}
		if exclude {
			excludes = append(excludes, pattern)
		} else {
			includes = append(includes, pattern)
		}
	}
	return includes, excludes, nil
}

func normalizePattern(pattern string) string {
	pattern = filepath.ToSlash(pattern)
	for strings.HasPrefix(pattern, "./") {
		pattern = strings.TrimPrefix(pattern, "./")
	}
	return strings.TrimPrefix(pattern, "/")
}

func matchAny(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}
