package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

// NewMemFS returns an in-memory filesystem populated with files.
// Keys are slash-separated paths, values are file contents.
func NewMemFS(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()

	fsys := memfs.New()
	for name, content := range files {
		path := filepath.FromSlash(name)
		if dir := filepath.Dir(path); dir != "." {
			if err := fsys.MkdirAll(dir, 0o755); err != nil {
				t.Fatalf("failed to create directory for %s: %v", name, err)
			}
		}
		if err := util.WriteFile(fsys, path, []byte(content), os.FileMode(0o644)); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return fsys
}
