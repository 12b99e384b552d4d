package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Build metadata, injected with -ldflags "-X .../internal/config.Version=...".
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetBuild returns the build timestamp.
func GetBuild() string {
	return Build
}

// GetGitCommit returns the git commit hash.
func GetGitCommit() string {
	return GitCommit
}

// GetFullVersion returns version with build info.
func GetFullVersion() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", Version, Build, GitCommit)
}

// LoadVersionFromFile reads "key: value" lines from a .version file next to
// the binary. Values only fill in fields still at their defaults.
func LoadVersionFromFile() {
	exe, err := os.Executable()
	if err != nil {
		return
	}
	loadVersionFrom(filepath.Join(filepath.Dir(exe), ".version"))
}

func loadVersionFrom(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.TrimSpace(key) {
		case "version":
			if Version == "dev" {
				Version = val
			}
		case "build":
			if Build == "unknown" {
				Build = val
			}
		case "commit":
			if GitCommit == "unknown" {
				GitCommit = val
			}
		}
	}
}
