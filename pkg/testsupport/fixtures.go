package testsupport

import (
	"os"
	"path/filepath"
)

// LoadFixture reads a test fixture relative to the calling package.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(filepath.Clean(path))
}
