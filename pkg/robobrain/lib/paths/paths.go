// Copyright 2025 Antfly, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package paths provides the default on-disk locations of RoboBrain data.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDataDir returns ~/.robobrain, or ./data when no home directory is known.
func DefaultDataDir() string {
	home := userHomeDir()
	if home == "" {
		return filepath.FromSlash("./data")
	}
	return filepath.Join(home, ".robobrain")
}

// DefaultVerifiedDir returns the directory of verified images under dataDir.
func DefaultVerifiedDir(dataDir string) string {
	return filepath.Join(dataDir, "verified")
}

// DefaultCatalogCacheDir returns where normalized reference images go under dataDir.
func DefaultCatalogCacheDir(dataDir string) string {
	return filepath.Join(dataDir, "reference")
}

// DefaultModelsDir returns where pulled models are stored under dataDir.
func DefaultModelsDir(dataDir string) string {
	return filepath.Join(dataDir, "models")
}

// DefaultResultsDir returns the directory the try command writes overlays to.
func DefaultResultsDir() string {
	return filepath.FromSlash("./test_results")
}

// userHomeDir returns the user's home directory.
// On Windows USERPROFILE is checked first: $HOME from Git Bash or MSYS2 may
// hold Unix-style paths that Windows APIs reject.
func userHomeDir() string {
	if runtime.GOOS == "windows" {
		if home := os.Getenv("USERPROFILE"); home != "" {
			return home
		}
		if drive, path := os.Getenv("HOMEDRIVE"), os.Getenv("HOMEPATH"); drive != "" && path != "" {
			return filepath.Join(drive, path)
		}
	}
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	home, _ := os.UserHomeDir()
	return home
}
