package platform

import (
	"os"
	"path/filepath"
	"strings"
)

const devDirName = "folio-dev"

// IsDevRun checks if the current process is running via `go run` or `go test`.
// Both build their binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveWorkspacePath returns the directory a workspace actually lives in.
// When forceTemp is set, paths outside the system temp directory are
// re-rooted under <tmp>/folio-dev/<base name>.
func ResolveWorkspacePath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	// Paths already under the temp dir (e.g. t.TempDir()) are trusted.
	clean := filepath.Clean(userPath)
	if filepath.IsAbs(clean) {
		rel, err := filepath.Rel(os.TempDir(), clean)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
			return clean
		}
	}

	name := filepath.Base(clean)
	if userPath == "" || name == "." || name == ".." || name == string(os.PathSeparator) {
		name = "default"
	}
	return filepath.Join(os.TempDir(), devDirName, name)
}
