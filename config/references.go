// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

var (
	configDir string // Directory for configuration files
	peersDir  string // Directory for the peer record store
	jobsDir   string // Directory for job state and logs
)

func init() {
	if os.Geteuid() == 0 {
		configDir = "/etc/warren"
	}

	// Otherwise, use user config directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}

	configDir = filepath.Join(homeDir, ".warren")
	peersDir = filepath.Join(configDir, "peers")
	jobsDir = filepath.Join(configDir, "jobs")

	// Ensure the directories exist
	if err := EnsureDirectories(); err != nil {
		panic(fmt.Sprintf("failed to ensure configuration directories: %v", err))
	}
}

// GetConfigDir returns the appropriate configuration directory
// If running as root, it returns the system config directory
// Otherwise, it returns the user config directory
func GetConfigDir() string {
	return configDir
}

// GetPeersDir returns the directory for the peer record store
func GetPeersDir() string {
	return peersDir
}

// GetJobsDir returns the directory for job state and logs
func GetJobsDir() string {
	return jobsDir
}

// EnsureDirectories creates the warren state directories if missing
func EnsureDirectories() error {
	for _, dir := range []string{configDir, peersDir, jobsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
