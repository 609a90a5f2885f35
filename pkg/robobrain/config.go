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

package robobrain

import (
	"context"
	"fmt"
	"time"

	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/generation"
	"go.uber.org/zap"
)

// Generation backends.
const (
	BackendOllama   = "ollama"
	BackendGemini   = "gemini"
	BackendOrtgenai = "ortgenai"
)

// Config is the server configuration, filled from viper by the run command.
type Config struct {
	ApiUrl string `json:"api_url"`

	// DataDir is the root of persisted state.
	DataDir string `json:"data_dir"`
	// VerifiedDir holds <uuid><ext> verified images. Defaults under DataDir.
	VerifiedDir string `json:"verified_dir"`

	Catalog    CatalogConfig    `json:"catalog"`
	Generation GenerationConfig `json:"generation"`

	// MaxConcurrentRequests bounds concurrent generations. The engine runs
	// one pass at a time, so this defaults to 1.
	MaxConcurrentRequests int `json:"max_concurrent_requests"`
	// MaxQueueSize bounds requests waiting for the engine (0 = unlimited).
	MaxQueueSize int `json:"max_queue_size"`
	// RequestTimeout bounds time spent waiting in the queue ("" or "0" = none).
	RequestTimeout string `json:"request_timeout"`

	// CacheTTL is how long deterministic generations are cached ("0" disables).
	CacheTTL string `json:"cache_ttl"`
}

// CatalogConfig locates the reference catalog.
type CatalogConfig struct {
	File     string `json:"file"`
	CacheDir string `json:"cache_dir"`
	LongEdge int    `json:"long_edge"`
}

// GenerationConfig selects and configures the engine.
type GenerationConfig struct {
	Backend      string  `json:"backend"`
	Model        string  `json:"model"`
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float32 `json:"temperature"`
	SystemPrompt string  `json:"system_prompt,omitempty"`

	OllamaHost string `json:"ollama_host,omitempty"`
	// GeminiAPIKey is never logged.
	GeminiAPIKey          string `json:"-"`
	OrtgenaiModelPath     string `json:"ortgenai_model_path,omitempty"`
	OrtgenaiContextLength int    `json:"ortgenai_context_length,omitempty"`
}

// NewEngine constructs the configured backend. It is called once per process.
func NewEngine(ctx context.Context, config GenerationConfig, logger *zap.Logger) (generation.Engine, error) {
	var (
		engine generation.Engine
		err    error
	)
	switch config.Backend {
	case BackendOllama, "":
		var e *generation.OllamaEngine
		e, err = generation.NewOllamaEngine(generation.OllamaConfig{
			Host:  config.OllamaHost,
			Model: config.Model,
		}, logger.Named("ollama"))
		engine = e
	case BackendGemini:
		var e *generation.GeminiEngine
		e, err = generation.NewGeminiEngine(ctx, generation.GeminiConfig{
			APIKey: config.GeminiAPIKey,
			Model:  config.Model,
		}, logger.Named("gemini"))
		engine = e
	case BackendOrtgenai:
		path := config.OrtgenaiModelPath
		if path == "" {
			path = config.Model
		}
		var e *generation.OrtgenaiEngine
		e, err = generation.NewOrtgenaiEngine(generation.OrtgenaiConfig{
			ModelPath:     path,
			ContextLength: config.OrtgenaiContextLength,
		}, logger.Named("ortgenai"))
		engine = e
	default:
		return nil, fmt.Errorf("unknown generation backend %q (supported: %s, %s, %s)",
			config.Backend, BackendOllama, BackendGemini, BackendOrtgenai)
	}
	if err != nil {
		return nil, err
	}
	return engine, nil
}

// parseDuration accepts "" and "0" as zero.
func parseDuration(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
