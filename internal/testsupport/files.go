package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}

	data := make([]byte, size)
	for i := range data {
		data[i] = byte('a' + i%26)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteAlbum lays out an Artist/Album directory with numbered track files and
// returns their paths in track order.
func WriteAlbum(t testing.TB, baseDir, artist, album string, titles ...string) []string {
	t.Helper()

	dir := filepath.Join(baseDir, artist, album)
	paths := make([]string, 0, len(titles))
	for i, title := range titles {
		path := filepath.Join(dir, fmt.Sprintf("%02d %s.flac", i+1, title))
		WriteFile(t, path, 1)
		paths = append(paths, path)
	}
	return paths
}
