package gen

import (
	"os"
	"path/filepath"
)

// DiskReader reads previous manifest content from the filesystem under a
// root directory.
type DiskReader struct {
	Root         string
	ManifestName string
}

// ReadManifest returns the directory's current manifest content and whether
// the file exists. A missing file is not an error.
func (r DiskReader) ReadManifest(dirPath string) (string, bool, error) {
	data, err := os.ReadFile(filepath.Join(r.Root, filepath.FromSlash(dirPath), r.ManifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

// DiskWriter commits manifest content to the filesystem under a root
// directory.
type DiskWriter struct {
	Root         string
	ManifestName string
}

// WriteManifest writes the directory's manifest file, creating the
// directory if needed.
func (w DiskWriter) WriteManifest(dirPath, content string) error {
	dir := filepath.Join(w.Root, filepath.FromSlash(dirPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, w.ManifestName), []byte(content), 0o644)
}
