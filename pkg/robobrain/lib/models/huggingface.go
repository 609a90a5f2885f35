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

// Package models pulls onnxruntime-genai model directories from the
// HuggingFace Hub for the ortgenai backend.
package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/gomlx/go-huggingface/hub"
)

// GenaiConfigFile marks a directory onnxruntime-genai can load.
const GenaiConfigFile = "genai_config.json"

// ErrNoGenaiModel is returned when a repo has no genai_config.json for the
// requested variant.
var ErrNoGenaiModel = errors.New("no onnxruntime-genai model found")

// ProgressHandler is called to report download progress.
type ProgressHandler func(downloaded, total int64, filename string)

// Repo is the part of a HuggingFace repository the puller needs.
type Repo interface {
	IterFileNames() iter.Seq2[string, error]
	DownloadFile(fileName string) (string, error)
}

// Puller downloads genai model files from HuggingFace Hub.
type Puller struct {
	token    string
	progress ProgressHandler
	openRepo func(repoID, token string) Repo
}

// Option configures a Puller.
type Option func(*Puller)

// WithToken sets the HuggingFace API token for gated models.
func WithToken(token string) Option {
	return func(p *Puller) { p.token = token }
}

// WithProgressHandler sets the progress handler for downloads.
func WithProgressHandler(h ProgressHandler) Option {
	return func(p *Puller) { p.progress = h }
}

// WithRepoOpener replaces the hub-backed repository, mostly for tests.
func WithRepoOpener(open func(repoID, token string) Repo) Option {
	return func(p *Puller) { p.openRepo = open }
}

// NewPuller creates a Puller backed by HuggingFace Hub.
func NewPuller(opts ...Option) *Puller {
	p := &Puller{openRepo: openHubRepo}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// hubRepo adapts *hub.Repo to Repo.
type hubRepo struct {
	*hub.Repo
}

func (r hubRepo) IterFileNames() iter.Seq2[string, error] {
	return iter.Seq2[string, error](r.Repo.IterFileNames())
}

func (r hubRepo) DownloadFile(fileName string) (string, error) {
	return r.Repo.DownloadFile(fileName)
}

func openHubRepo(repoID, token string) Repo {
	repo := hub.New(repoID)
	if token != "" {
		repo = repo.WithAuth(token)
	}
	return hubRepo{repo}
}

// ParseRepoID accepts "owner/name" or "hf:owner/name".
func ParseRepoID(ref string) (owner, name string, err error) {
	id := strings.TrimPrefix(ref, "hf:")
	owner, name, ok := strings.Cut(id, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid HuggingFace repo %q, want owner/name", ref)
	}
	return owner, name, nil
}

// Pull downloads the files of one genai variant of repoID into
// destDir/owner/name and returns that directory. An empty variant picks the
// smallest CPU variant the repo offers.
func (p *Puller) Pull(ctx context.Context, repoID, destDir, variant string) (string, error) {
	owner, name, err := ParseRepoID(repoID)
	if err != nil {
		return "", err
	}
	repoID = owner + "/" + name
	repo := p.openRepo(repoID, p.token)

	var files []string
	for fileName, err := range repo.IterFileNames() {
		if err != nil {
			return "", fmt.Errorf("listing files: %w", err)
		}
		files = append(files, fileName)
	}

	if variant == "" {
		variant = SmallestVariant(files)
	}
	toDownload := SelectGenaiFiles(files, variant)
	if !slices.ContainsFunc(toDownload, func(f string) bool { return filepath.Base(f) == GenaiConfigFile }) {
		if variant != "" {
			return "", fmt.Errorf("%w in %s variant %q", ErrNoGenaiModel, repoID, variant)
		}
		return "", fmt.Errorf("%w in %s", ErrNoGenaiModel, repoID)
	}

	modelDir := filepath.Join(destDir, owner, name)
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	for _, fileName := range toDownload {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		localPath, err := repo.DownloadFile(fileName)
		if err != nil {
			return "", fmt.Errorf("downloading %s: %w", fileName, err)
		}

		// Variant subdirectories are flattened so genai_config.json sits at the top.
		destName := filepath.Base(fileName)
		destPath := filepath.Join(modelDir, destName)
		if p.progress != nil {
			p.progress(0, 0, destName)
		}
		if err := copyFile(localPath, destPath); err != nil {
			return "", fmt.Errorf("copying %s: %w", fileName, err)
		}
		if p.progress != nil {
			if info, err := os.Stat(destPath); err == nil {
				p.progress(info.Size(), info.Size(), destName)
			}
		}
	}
	return modelDir, nil
}

var includeExact = map[string]bool{
	GenaiConfigFile:            true,
	"tokenizer.json":           true,
	"tokenizer.model":          true,
	"tokenizer_config.json":    true,
	"config.json":              true,
	"special_tokens_map.json":  true,
	"added_tokens.json":        true,
	"generation_config.json":   true,
	"processor_config.json":    true,
	"preprocessor_config.json": true,
}

var includeSuffixes = []string{
	".onnx",
	".onnx.data",
	".onnx_data",
	".txt",
	".jinja",
}

// SelectGenaiFiles returns the files of variant needed to run the model.
// An empty variant keeps matching files from the whole repo.
func SelectGenaiFiles(files []string, variant string) []string {
	var result []string
	for _, f := range files {
		if variant != "" && !strings.HasPrefix(f, variant+"/") {
			continue
		}
		base := filepath.Base(f)
		if includeExact[base] {
			result = append(result, f)
			continue
		}
		for _, suffix := range includeSuffixes {
			if strings.HasSuffix(base, suffix) {
				result = append(result, f)
				break
			}
		}
	}
	return result
}

// Variants lists the directories holding a genai_config.json, sorted.
func Variants(files []string) []string {
	var dirs []string
	for _, f := range files {
		if filepath.Base(f) != GenaiConfigFile {
			continue
		}
		if dir := filepath.Dir(f); dir != "." && !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	slices.Sort(dirs)
	return dirs
}

// SmallestVariant prefers cpu-int4, then any cpu variant, then anything,
// breaking ties by parameter count. It returns "" for single-variant repos.
func SmallestVariant(files []string) string {
	variants := Variants(files)
	if len(variants) == 0 {
		return ""
	}
	rank := func(dir string) int {
		lower := strings.ToLower(dir)
		switch {
		case strings.Contains(lower, "cpu") && strings.Contains(lower, "int4"):
			return 0
		case strings.Contains(lower, "cpu"):
			return 1
		default:
			return 2
		}
	}
	slices.SortStableFunc(variants, func(a, b string) int {
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra - rb
		}
		return modelSize(a) - modelSize(b)
	})
	return variants[0]
}

// modelSize reads a parameter count such as "3b" out of a path, in billions.
// Paths without one sort last.
func modelSize(path string) int {
	for _, part := range strings.FieldsFunc(strings.ToLower(path), func(r rune) bool {
		return r == '-' || r == '_' || r == '/' || r == '.'
	}) {
		if digits, ok := strings.CutSuffix(part, "b"); ok {
			if n, err := strconv.Atoi(digits); err == nil {
				return n
			}
		}
	}
	return 999
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return fmt.Errorf("copying: %w", err)
	}
	return dstFile.Close()
}
