package layout

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// DataDir is where layout files are looked up when a relative path does not
// exist in the working directory.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "softkbd")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".local", "share", "softkbd")
}

// ResolvePath finds a layout file: absolute paths are used as is, relative
// ones are tried in the working directory, then in DataDir.
func ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	if _, err := os.Stat(path); err == nil {
		return path
	}

	candidate := filepath.Join(DataDir(), path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}

	return path
}

func OpenPath(path string) (*os.File, error) {
	resolved := ResolvePath(path)

	if resolved == path {
		slog.Info("Opening layout file", "path", path)
	} else {
		slog.Info("Opening layout file from data dir", "path", resolved)
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("layout file %s not found (also looked in %s): %w", path, DataDir(), err)
		}

		return nil, fmt.Errorf("could not open file %s: %w", path, err)
	}

	return file, nil
}
