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

// Package generation runs a single multimodal generation pass over a
// vision-language model. It knows nothing about tasks: callers hand it a
// compiled prompt and an ordered list of images.
package generation

import (
	"context"
	"errors"
	"fmt"
)

// DefaultMaxNewTokens bounds every generation pass.
const DefaultMaxNewTokens = 768

var (
	// ErrGeneration marks any backend failure. It is never retried here.
	ErrGeneration = errors.New("generation failed")

	// ErrNoImages is returned when a request carries no image.
	ErrNoImages = errors.New("at least one image is required")
)

// Error wraps a backend failure. errors.Is(err, ErrGeneration) holds for
// every *Error.
type Error struct {
	Backend string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrGeneration, e.Backend, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrGeneration, e.Err}
}

// Engine is a loaded model backend. Implementations are long-lived and are
// constructed once at process start.
type Engine interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	Generate(ctx context.Context, req *EngineRequest) (*EngineResult, error)
	Close() error
}

// ImageTagger is implemented by engines whose runtime splices images into
// the prompt at its own tags instead of the model's vision tokens.
type ImageTagger interface {
	ImageTag(index int) string
}

// GreedyDecoder is implemented by engines that cannot sample. The adapter
// rewrites sampling requests for them so that logs and cache keys describe
// what actually ran.
type GreedyDecoder interface {
	GreedyOnly() bool
}

// EngineRequest is what the adapter hands to a backend.
type EngineRequest struct {
	// Prompt is the fully templated prompt, ending in the thinking marker.
	// Backends that accept raw prompts send it verbatim.
	Prompt string
	// Instruction is the compiled task prompt without chat template, for
	// backends that apply their own.
	Instruction string
	// Images in semantic order: subject first, reference second.
	Images         []Image
	EnableThinking bool
	MaxNewTokens   int
	Temperature    float32
	DoSample       bool
}

// EngineResult is the raw output of one pass.
type EngineResult struct {
	Text         string `json:"text"`
	TokensUsed   int    `json:"tokens_used"`
	FinishReason string `json:"finish_reason"`
}

// Sampling controls decoding.
type Sampling struct {
	Temperature float32 `json:"temperature"`
	DoSample    bool    `json:"do_sample"`
}

// DefaultSampling matches how the model is served: stochastic, temperature 0.5.
func DefaultSampling() Sampling {
	return Sampling{Temperature: 0.5, DoSample: true}
}

// Request is one generation call.
type Request struct {
	// Prompt is the compiled task prompt.
	Prompt string
	// Images are local paths or remote URLs, in semantic order.
	Images         []string
	EnableThinking bool
	Sampling       Sampling
}
