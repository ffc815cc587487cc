package utils

import "os"

func DirectoryExists(path string) bool {
	info, error := os.Stat(path)
	if os.IsNotExist(error) {
		return false
	}
	return true && info.IsDir()
}

// EnsureDir creates path (and parents) when it does not exist yet.
func EnsureDir(path string) error {
	if DirectoryExists(path) {
		return nil
	}
	return os.MkdirAll(path, 0o755)
}
