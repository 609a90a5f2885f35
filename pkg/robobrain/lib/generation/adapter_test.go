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

package generation

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockEngine records the last request and answers with generateFunc.
type MockEngine struct {
	generateFunc func(ctx context.Context, req *EngineRequest) (*EngineResult, error)
	lastRequest  *EngineRequest
	callCount    atomic.Int32
	closed       atomic.Bool
}

func (m *MockEngine) Name() string { return "mock" }

func (m *MockEngine) Generate(ctx context.Context, req *EngineRequest) (*EngineResult, error) {
	m.callCount.Add(1)
	m.lastRequest = req
	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}
	return &EngineResult{Text: "same</answer>", TokensUsed: 2, FinishReason: "stop"}, nil
}

func (m *MockEngine) Close() error {
	m.closed.Store(true)
	return nil
}

type greedyEngine struct{ MockEngine }

func (g *greedyEngine) GreedyOnly() bool { return true }

func writeTestPNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for x := range 8 {
		for y := range 6 {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestAdapter_Generate(t *testing.T) {
	dir := t.TempDir()
	subject := writeTestPNG(t, dir, "subject.png")
	reference := writeTestPNG(t, dir, "reference.png")

	engine := &MockEngine{}
	adapter := NewAdapter(engine, AdapterConfig{}, zaptest.NewLogger(t))

	res, err := adapter.Generate(context.Background(), Request{
		Prompt:   "Is the object in the first image the same as the object in the second image?",
		Images:   []string{subject, reference},
		Sampling: DefaultSampling(),
	})
	require.NoError(t, err)
	assert.Equal(t, "same</answer>", res.Text)

	req := engine.lastRequest
	require.NotNil(t, req)
	assert.Equal(t, DefaultMaxNewTokens, req.MaxNewTokens)
	assert.Equal(t, float32(0.5), req.Temperature)
	assert.True(t, req.DoSample)
	assert.False(t, req.EnableThinking)
	require.Len(t, req.Images, 2)
	assert.Equal(t, subject, req.Images[0].Source)
	assert.Equal(t, reference, req.Images[1].Source)
	assert.Equal(t, "image/png", req.Images[0].Content.MIMEType)
	assert.NotEmpty(t, req.Images[0].Path)

	assert.Equal(t, 2, strings.Count(req.Prompt, "<|image_pad|>"))
	assert.True(t, strings.HasSuffix(req.Prompt, AnswerPrefix))
	assert.Contains(t, req.Prompt, req.Instruction)
}

func TestAdapter_ThinkingPrefix(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "a.png")
	engine := &MockEngine{}
	adapter := NewAdapter(engine, AdapterConfig{MaxNewTokens: 64}, zaptest.NewLogger(t))

	_, err := adapter.Generate(context.Background(), Request{
		Prompt:         "what is this",
		Images:         []string{path},
		EnableThinking: true,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(engine.lastRequest.Prompt, "assistant\n"+ThinkingPrefix))
	assert.Equal(t, 64, engine.lastRequest.MaxNewTokens)
}

func TestAdapter_GreedyBackendDropsSampling(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "a.png")
	engine := &greedyEngine{}
	adapter := NewAdapter(engine, AdapterConfig{}, zaptest.NewLogger(t))

	_, err := adapter.Generate(context.Background(), Request{
		Prompt:   "what is this",
		Images:   []string{path},
		Sampling: Sampling{Temperature: 0.9, DoSample: true},
	})
	require.NoError(t, err)
	assert.False(t, engine.lastRequest.DoSample)
	assert.Zero(t, engine.lastRequest.Temperature)
}

func TestAdapter_NoImages(t *testing.T) {
	engine := &MockEngine{}
	adapter := NewAdapter(engine, AdapterConfig{}, zaptest.NewLogger(t))

	_, err := adapter.Generate(context.Background(), Request{Prompt: "hi"})
	require.ErrorIs(t, err, ErrNoImages)
	assert.Equal(t, int32(0), engine.callCount.Load())
}

func TestAdapter_BackendFailureIsGenerationError(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "a.png")
	oom := errors.New("CUDA out of memory")
	engine := &MockEngine{
		generateFunc: func(ctx context.Context, req *EngineRequest) (*EngineResult, error) {
			return nil, oom
		},
	}
	adapter := NewAdapter(engine, AdapterConfig{}, zaptest.NewLogger(t))

	_, err := adapter.Generate(context.Background(), Request{Prompt: "x", Images: []string{path}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGeneration)
	assert.ErrorIs(t, err, oom)

	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "mock", genErr.Backend)
	assert.Equal(t, int32(1), engine.callCount.Load(), "failures are not retried")
}

func TestAdapter_MissingImageIsGenerationError(t *testing.T) {
	engine := &MockEngine{}
	adapter := NewAdapter(engine, AdapterConfig{}, zaptest.NewLogger(t))

	_, err := adapter.Generate(context.Background(), Request{
		Prompt: "x",
		Images: []string{filepath.Join(t.TempDir(), "missing.png")},
	})
	require.ErrorIs(t, err, ErrGeneration)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, int32(0), engine.callCount.Load())
}

func TestAdapter_Close(t *testing.T) {
	engine := &MockEngine{}
	adapter := NewAdapter(engine, AdapterConfig{}, nil)
	require.NoError(t, adapter.Close())
	assert.True(t, engine.closed.Load())
}

func TestQwenVLTemplate_Render(t *testing.T) {
	got := QwenVLTemplate{}.Render("Point to the kettle.", []string{QwenVisionTag}, false)
	want := "<|im_start|>system\nYou are a helpful assistant.<|im_end|>\n" +
		"<|im_start|>user\n<|vision_start|><|image_pad|><|vision_end|>Point to the kettle.<|im_end|>\n" +
		"<|im_start|>assistant\n<think></think><answer>"
	assert.Equal(t, want, got)

	custom := QwenVLTemplate{System: "You are RoboBrain."}.Render("x", nil, true)
	assert.True(t, strings.HasPrefix(custom, "<|im_start|>system\nYou are RoboBrain.<|im_end|>"))
	assert.NotContains(t, custom, "<|image_pad|>")
	assert.True(t, strings.HasSuffix(custom, "<think>"))
}

func TestImageTags(t *testing.T) {
	assert.Equal(t, []string{QwenVisionTag, QwenVisionTag}, ImageTags(&MockEngine{}, 2))
	assert.Equal(t, []string{"[img-0]", "[img-1]"}, ImageTags(&OllamaEngine{}, 2))
	assert.Empty(t, ImageTags(&OllamaEngine{}, 0))
}

func TestImageLoader_EmptyReference(t *testing.T) {
	_, err := NewImageLoader(nil).Load(context.Background(), "")
	require.Error(t, err)
}
