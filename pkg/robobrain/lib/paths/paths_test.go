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

package paths

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDataDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("HOME is not consulted first on windows")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".robobrain"), DefaultDataDir())
	assert.Equal(t, filepath.Join(home, ".robobrain", "verified"), DefaultVerifiedDir(DefaultDataDir()))
	assert.Equal(t, filepath.Join(home, ".robobrain", "reference"), DefaultCatalogCacheDir(DefaultDataDir()))
	assert.Equal(t, filepath.Join(home, ".robobrain", "models"), DefaultModelsDir(DefaultDataDir()))
}
