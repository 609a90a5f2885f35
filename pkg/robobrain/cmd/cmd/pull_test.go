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

package cmd

import (
	"bytes"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type localRepo struct {
	root  string
	files []string
}

func (r localRepo) IterFileNames() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, f := range r.files {
			if !yield(f, nil) {
				return
			}
		}
	}
}

func (r localRepo) DownloadFile(fileName string) (string, error) {
	return filepath.Join(r.root, filepath.FromSlash(fileName)), nil
}

func TestPullDownloadsVariant(t *testing.T) {
	root := t.TempDir()
	files := []string{"cpu-int4/genai_config.json", "cpu-int4/model.onnx", "gpu/genai_config.json"}
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("{}"), 0o644))
	}

	var gotToken string
	prev := newPuller
	newPuller = func(opts ...models.Option) *models.Puller {
		return models.NewPuller(append(opts, models.WithRepoOpener(func(repoID, token string) models.Repo {
			gotToken = token
			return localRepo{root: root, files: files}
		}))...)
	}
	defer func() { newPuller = prev }()
	t.Setenv("HF_TOKEN", "hf_env")

	modelsDir := t.TempDir()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"pull", "BAAI/RoboBrain-ONNX", "--models-dir", modelsDir})
	require.NoError(t, rootCmd.Execute())

	dir := filepath.Join(modelsDir, "BAAI", "RoboBrain-ONNX")
	assert.Equal(t, "hf_env", gotToken)
	assert.FileExists(t, filepath.Join(dir, "genai_config.json"))
	assert.FileExists(t, filepath.Join(dir, "model.onnx"))
	assert.Contains(t, out.String(), "genai_config.json (2 B)")
	assert.Contains(t, out.String(), "--backend ortgenai --model "+dir)
}

func TestPullRejectsBadRepo(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"pull", "robobrain"})
	require.ErrorContains(t, rootCmd.Execute(), "want owner/name")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "3.0 GB", formatBytes(3<<30))
}
