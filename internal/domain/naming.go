package domain

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// LocalStarDir returns the local state directory for a working directory.
func LocalStarDir(dir string) string {
	return filepath.Join(dir, LocalDirName)
}

// LocalConfigPath returns the local config path.
func LocalConfigPath(dir string) string {
	return filepath.Join(LocalStarDir(dir), ConfigFileName)
}

// GlobalStarDir returns the global star directory path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalStarDir(configHome string) string {
	return filepath.Join(configHome, StarDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalStarDir(configHome), ConfigFileName)
}

// GlobalLogPath returns the path to the global log file.
func GlobalLogPath(stateDir string) string {
	return filepath.Join(stateDir, "logs", "star.log")
}

// RecordLogPath returns the path to a record's log file.
func RecordLogPath(stateDir, recordID string) string {
	return filepath.Join(stateDir, "logs", "record-"+recordID+".log")
}

// LockPath returns the lock file guarding a record document.
func LockPath(docPath string) string {
	return docPath + ".lock"
}

// FormatPath renders 0-based indices as a 1-based dotted reference ("2.1").
func FormatPath(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p + 1)
	}
	return strings.Join(parts, ".")
}

// ParsePath parses a 1-based dotted reference into 0-based indices.
func ParsePath(ref string) ([]int, error) {
	parts := strings.Split(ref, ".")
	path := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%q: %w", ref, ErrInvalidRef)
		}
		path = append(path, n-1)
	}
	return path, nil
}
