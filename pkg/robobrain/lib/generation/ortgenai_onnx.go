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

//go:build onnx && ORT

package generation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/knights-analytics/ortgenai"
	"go.uber.org/zap"
)

// OrtgenaiConfig configures an OrtgenaiEngine.
type OrtgenaiConfig struct {
	// ModelPath is a directory holding genai_config.json and the ONNX weights.
	ModelPath string
	// ContextLength caps input plus output tokens. Defaults to 8192.
	ContextLength int
}

// OrtgenaiEngine runs the model in-process with ONNX Runtime GenAI. The
// session's search options are left at the exported model defaults, which
// decode greedily; Temperature and DoSample do not reach it.
type OrtgenaiEngine struct {
	mu            sync.Mutex
	session       *ortgenai.Session
	contextLength int
	logger        *zap.Logger
}

// NewOrtgenaiEngine loads the model. This is expensive and happens once.
func NewOrtgenaiEngine(config OrtgenaiConfig, logger *zap.Logger) (*OrtgenaiEngine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.ModelPath == "" {
		return nil, errors.New("ortgenai: model path is required")
	}
	if genaiPath := genAILibraryPath(); genaiPath != "" {
		ortgenai.SetSharedLibraryPath(genaiPath)
	}
	if err := ortgenai.InitializeEnvironment(); err != nil {
		if !strings.Contains(err.Error(), "already") {
			return nil, fmt.Errorf("initializing ortgenai environment: %w", err)
		}
	}
	session, err := ortgenai.CreateGenerativeSession(config.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("creating ortgenai session: %w", err)
	}
	contextLength := config.ContextLength
	if contextLength <= 0 {
		contextLength = 8192
	}
	logger.Info("ONNX Runtime GenAI engine loaded",
		zap.String("model_path", config.ModelPath),
		zap.Int("context_length", contextLength))
	return &OrtgenaiEngine{session: session, contextLength: contextLength, logger: logger}, nil
}

func (e *OrtgenaiEngine) Name() string { return "ortgenai" }

func (e *OrtgenaiEngine) GreedyOnly() bool { return true }

// Generate runs one pass. The session is not safe for concurrent use, so
// calls are serialized.
func (e *OrtgenaiEngine) Generate(ctx context.Context, req *EngineRequest) (*EngineResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil, &Error{Backend: e.Name(), Err: errors.New("engine closed")}
	}

	// MaxLength covers prompt and output; leave room for the image tokens.
	maxLength := req.MaxNewTokens * 5
	if maxLength < 1024 {
		maxLength = 1024
	}
	if maxLength > e.contextLength {
		maxLength = e.contextLength
	}
	genOpts := &ortgenai.GenerationOptions{
		MaxLength: maxLength,
		BatchSize: 1,
	}

	paths, cleanup, err := localImagePaths(req.Images)
	if err != nil {
		return nil, &Error{Backend: e.Name(), Err: err}
	}
	defer cleanup()

	images, err := ortgenai.LoadImages(paths)
	if err != nil {
		return nil, &Error{Backend: e.Name(), Err: fmt.Errorf("loading images: %w", err)}
	}
	defer images.Destroy()

	processor, err := ortgenai.CreateMultiModalProcessor(e.session.GetModel())
	if err != nil {
		return nil, &Error{Backend: e.Name(), Err: fmt.Errorf("creating multimodal processor: %w", err)}
	}
	defer processor.Destroy()

	namedTensors, err := processor.ProcessImages(req.Prompt, images)
	if err != nil {
		return nil, &Error{Backend: e.Name(), Err: fmt.Errorf("processing images: %w", err)}
	}
	defer namedTensors.Destroy()

	outputChan, errChan, err := e.session.GenerateWithTensors(ctx, namedTensors, genOpts)
	if err != nil {
		return nil, &Error{Backend: e.Name(), Err: fmt.Errorf("starting generation: %w", err)}
	}

	var text strings.Builder
	var tokens int
	for delta := range outputChan {
		text.WriteString(delta.Tokens)
		tokens++
	}
	for err := range errChan {
		if err != nil {
			return nil, &Error{Backend: e.Name(), Err: err}
		}
	}

	finish := "stop"
	if tokens >= req.MaxNewTokens {
		finish = "length"
	}
	return &EngineResult{Text: text.String(), TokensUsed: tokens, FinishReason: finish}, nil
}

// localImagePaths returns a filesystem path per image, spilling downloaded
// images to temp files.
func localImagePaths(images []Image) ([]string, func(), error) {
	var temps []string
	cleanup := func() {
		for _, p := range temps {
			_ = os.Remove(p)
		}
	}
	paths := make([]string, len(images))
	for i, img := range images {
		if img.Path != "" {
			paths[i] = img.Path
			continue
		}
		f, err := os.CreateTemp("", "robobrain-image-*")
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		temps = append(temps, f.Name())
		_, werr := f.Write(img.Content.Data)
		cerr := f.Close()
		if werr != nil || cerr != nil {
			cleanup()
			return nil, nil, errors.Join(werr, cerr)
		}
		paths[i] = f.Name()
	}
	return paths, cleanup, nil
}

func (e *OrtgenaiEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	return nil
}

// genAILibraryPath locates the ONNX Runtime GenAI shared library.
func genAILibraryPath() string {
	libName := genAILibraryName()

	if path := os.Getenv("ORTGENAI_DYLIB_PATH"); path != "" {
		return path
	}

	if root := os.Getenv("ONNXRUNTIME_ROOT"); root != "" {
		for _, p := range []string{
			filepath.Join(root, runtime.GOOS+"-"+runtime.GOARCH, "lib", libName),
			filepath.Join(root, "lib", libName),
		} {
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}

	ldPath := os.Getenv("LD_LIBRARY_PATH")
	if runtime.GOOS == "darwin" {
		if dyld := os.Getenv("DYLD_LIBRARY_PATH"); dyld != "" {
			ldPath = dyld
		}
	}
	for _, dir := range filepath.SplitList(ldPath) {
		p := filepath.Join(dir, libName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func genAILibraryName() string {
	switch runtime.GOOS {
	case "windows":
		return "onnxruntime-genai.dll"
	case "darwin":
		return "libonnxruntime-genai.dylib"
	default:
		return "libonnxruntime-genai.so"
	}
}
