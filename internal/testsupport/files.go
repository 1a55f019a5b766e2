package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteMedia creates a placeholder media file and optional description
// sidecar, returning the media path.
func WriteMedia(t testing.TB, dir, name, description string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("media:"+name), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if description != "" {
		sidecar := path[:len(path)-len(filepath.Ext(path))] + ".description"
		if err := os.WriteFile(sidecar, []byte(description), 0o644); err != nil {
			t.Fatalf("write %s: %v", sidecar, err)
		}
	}
	return path
}
