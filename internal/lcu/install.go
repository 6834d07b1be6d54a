package lcu

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrLockfileNotFound = errors.New("lockfile not found")
	ErrLeagueNotFound   = errors.New("league install directory not found")
)

// candidateDirs lists common League installation paths
func candidateDirs() []string {
	dirs := []string{
		"C:/Riot Games/League of Legends",
		"D:/Riot Games/League of Legends",
		"C:/Program Files/Riot Games/League of Legends",
		"C:/Program Files (x86)/Riot Games/League of Legends",
		"/Applications/League of Legends.app/Contents/LoL",
	}

	for _, drive := range []string{"E:", "F:", "G:"} {
		dirs = append(dirs, filepath.Join(drive, "Riot Games/League of Legends"))
	}

	return dirs
}

// FindLockfile searches for the League Client lockfile
func FindLockfile() (string, error) {
	for _, dir := range candidateDirs() {
		path := filepath.Join(dir, "lockfile")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", ErrLockfileNotFound
}

// CheckLockfile reports whether the lockfile belongs to a running client
func CheckLockfile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read lockfile: %w", err)
	}

	// Lockfile format: LeagueClient:pid:port:password:protocol
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) != 5 {
		return fmt.Errorf("invalid lockfile format: expected 5 parts, got %d", len(parts))
	}
	return nil
}

// FindInstallDir returns the League installation directory.
// A valid lockfile of a running client wins, otherwise the first known path with a Config directory.
func FindInstallDir() (string, error) {
	if lockfile, err := FindLockfile(); err == nil {
		if err := CheckLockfile(lockfile); err == nil {
			return filepath.Dir(lockfile), nil
		}
	}

	for _, dir := range candidateDirs() {
		if IsInstallDir(dir) {
			return dir, nil
		}
	}

	return "", ErrLeagueNotFound
}

// IsInstallDir reports whether dir looks like a League installation
func IsInstallDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, "Config"))
	return err == nil && info.IsDir()
}
