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
	"time"

	"go.uber.org/zap"
)

// AdapterConfig configures an Adapter.
type AdapterConfig struct {
	// MaxNewTokens defaults to DefaultMaxNewTokens.
	MaxNewTokens int
	// Template defaults to QwenVLTemplate.
	Template ChatTemplate
	// Loader defaults to a loader with NewImageLoader defaults.
	Loader *ImageLoader
}

// Adapter resolves images, applies the chat template and runs one pass on
// the engine.
type Adapter struct {
	engine       Engine
	template     ChatTemplate
	loader       *ImageLoader
	maxNewTokens int
	logger       *zap.Logger
}

// NewAdapter wraps engine.
func NewAdapter(engine Engine, config AdapterConfig, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxNewTokens <= 0 {
		config.MaxNewTokens = DefaultMaxNewTokens
	}
	if config.Template == nil {
		config.Template = QwenVLTemplate{}
	}
	if config.Loader == nil {
		config.Loader = NewImageLoader(nil)
	}
	return &Adapter{
		engine:       engine,
		template:     config.Template,
		loader:       config.Loader,
		maxNewTokens: config.MaxNewTokens,
		logger:       logger,
	}
}

// Engine returns the wrapped backend.
func (a *Adapter) Engine() Engine {
	return a.engine
}

// MaxNewTokens returns the token budget of every pass.
func (a *Adapter) MaxNewTokens() int {
	return a.maxNewTokens
}

// Generate runs a single pass and returns the raw model text. Backend
// failures come back as *Error.
func (a *Adapter) Generate(ctx context.Context, req Request) (*EngineResult, error) {
	if len(req.Images) == 0 {
		return nil, ErrNoImages
	}

	images := make([]Image, 0, len(req.Images))
	for _, src := range req.Images {
		img, err := a.loader.Load(ctx, src)
		if err != nil {
			return nil, &Error{Backend: a.engine.Name(), Err: err}
		}
		images = append(images, img)
	}

	engineReq := &EngineRequest{
		Prompt:         a.template.Render(req.Prompt, ImageTags(a.engine, len(images)), req.EnableThinking),
		Instruction:    req.Prompt,
		Images:         images,
		EnableThinking: req.EnableThinking,
		MaxNewTokens:   a.maxNewTokens,
		Temperature:    req.Sampling.Temperature,
		DoSample:       req.Sampling.DoSample,
	}

	if g, ok := a.engine.(GreedyDecoder); ok && g.GreedyOnly() && engineReq.DoSample {
		a.logger.Debug("Backend decodes greedily, ignoring sampling",
			zap.String("backend", a.engine.Name()),
			zap.Float32("temperature", engineReq.Temperature))
		engineReq.DoSample = false
		engineReq.Temperature = 0
	}

	start := time.Now()
	res, err := a.engine.Generate(ctx, engineReq)
	if err != nil {
		a.logger.Warn("Generation failed",
			zap.String("backend", a.engine.Name()),
			zap.Int("num_images", len(images)),
			zap.Error(err))
		var genErr *Error
		if errors.As(err, &genErr) {
			return nil, err
		}
		return nil, &Error{Backend: a.engine.Name(), Err: err}
	}

	a.logger.Debug("Generation completed",
		zap.String("backend", a.engine.Name()),
		zap.Int("num_images", len(images)),
		zap.Int("tokens", res.TokensUsed),
		zap.Duration("duration", time.Since(start)))
	return res, nil
}

// Close releases the engine.
func (a *Adapter) Close() error {
	return a.engine.Close()
}
