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
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferAnnotatesBoxes(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/infer", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"task":"grounding","thinking":"","answer":"[[2, 2, 10, 10]]","cached":true}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	src := filepath.Join(dir, "kettle.png")
	f, err := os.Create(src)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 32, 32))))
	require.NoError(t, f.Close())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"infer", "--api-url", srv.URL,
		"--image-id", "4b7e2f0a-0000-4000-8000-000000000000",
		"--task", "grounding", "--text", "kettle",
		"--deterministic", "--image", src,
	})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "grounding", got["task"])
	assert.Equal(t, false, got["do_sample"])
	assert.NotContains(t, got, "enable_thinking")
	assert.Contains(t, out.String(), "Answer: [[2, 2, 10, 10]]")
	assert.Contains(t, out.String(), "(cached)")

	annotated := filepath.Join(dir, "kettle_annotated.png")
	assert.Contains(t, out.String(), annotated)
	_, err = os.Stat(annotated)
	require.NoError(t, err)
}
