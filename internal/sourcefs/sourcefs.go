// Package sourcefs maps file group sources onto a filesystem.
//
// Deployers read sources through a chrooted go-billy filesystem, usually an
// osfs rooted at the working directory. Relative sources resolve against that
// root. Absolute sources must keep pointing where they say, so they are made
// relative to the root when they live below it and are read from the OS root
// otherwise.
package sourcefs

import (
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Open returns the filesystem to read source from and the path of source
// within it.
func Open(filesystem billy.Filesystem, source string) (billy.Filesystem, string) {
	source = filepath.Clean(filepath.FromSlash(source))
	if !filepath.IsAbs(source) {
		return filesystem, source
	}

	if rel, ok := within(filesystem.Root(), source); ok {
		return filesystem, rel
	}

	return osfs.New(filepath.VolumeName(source) + string(filepath.Separator)), source
}

// within reports whether path is root or below it, and the path relative to root.
func within(root, path string) (string, bool) {
	if root == "" || !filepath.IsAbs(root) {
		return "", false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
