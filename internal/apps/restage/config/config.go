package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
)

// ensureFile ensures that the parent folder exists and the file exists.
// If the file already exists, it does nothing.
func ensureFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create/open file: %w", err)
	}
	defer f.Close()

	return nil
}

func ConfigBasePath() string {
	homedir, err := os.UserHomeDir()
	if err != nil {
		// CI runners without a resolvable home still need somewhere to write.
		homedir = "/var/lib/restage"
	}

	return filepath.Join(homedir, ".config", "restage")
}

func StateDBFile() string {
	return filepath.Join(ConfigBasePath(), "state.db")
}

func logsPath() string {
	return filepath.Join(ConfigBasePath(), "logs")
}

// RunLogPath returns the full-log file for one pipeline run.
func RunLogPath(runID string) string {
	p := filepath.Join(logsPath(), "run-"+runID+".log")
	ensureFile(p)
	return p
}

// DefaultManifestDir is where the stage manifests live inside a checkout.
const DefaultManifestDir = ".github/stage_requirements"

// DefaultWatchedDir is the tree whose changes can trigger stage rebuilds.
const DefaultWatchedDir = ".github/Dockerfiles"
