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
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// DefaultOllamaHost is used when no host is configured.
const DefaultOllamaHost = "http://127.0.0.1:11434"

// OllamaConfig configures an OllamaEngine.
type OllamaConfig struct {
	Host  string
	Model string
	// HTTPClient defaults to a client without overall timeout; cancellation
	// comes from the request context.
	HTTPClient *http.Client
}

// OllamaEngine talks to an Ollama server in raw mode, so the prompt is sent
// exactly as the chat template rendered it.
type OllamaEngine struct {
	client *api.Client
	model  string
	logger *zap.Logger
}

// NewOllamaEngine creates an engine for config.Model on config.Host.
func NewOllamaEngine(config OllamaConfig, logger *zap.Logger) (*OllamaEngine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Model == "" {
		return nil, fmt.Errorf("ollama: model is required")
	}
	host := config.Host
	if host == "" {
		host = DefaultOllamaHost
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("ollama: invalid host %q: %w", host, err)
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     6 * time.Minute,
			},
		}
	}

	logger.Info("Ollama engine configured",
		zap.String("host", base.String()),
		zap.String("model", config.Model))

	return &OllamaEngine{
		client: api.NewClient(base, httpClient),
		model:  config.Model,
		logger: logger,
	}, nil
}

func (e *OllamaEngine) Name() string { return "ollama" }

// ImageTag is where the runner splices image i into a raw prompt. The model
// definition wraps it in the vision markers itself.
func (e *OllamaEngine) ImageTag(index int) string {
	return fmt.Sprintf("[img-%d]", index)
}

// Generate sends one non-streaming raw request.
func (e *OllamaEngine) Generate(ctx context.Context, req *EngineRequest) (*EngineResult, error) {
	images := make([]api.ImageData, len(req.Images))
	for i, img := range req.Images {
		images[i] = api.ImageData(img.Content.Data)
	}

	stream := false
	genReq := &api.GenerateRequest{
		Model:   e.model,
		Prompt:  req.Prompt,
		Raw:     true,
		Stream:  &stream,
		Images:  images,
		Options: ollamaOptions(req),
	}

	var (
		out        strings.Builder
		evalCount  int
		doneReason string
	)
	err := e.client.Generate(ctx, genReq, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		if resp.Done {
			evalCount = resp.EvalCount
			doneReason = resp.DoneReason
		}
		return nil
	})
	if err != nil {
		return nil, &Error{Backend: e.Name(), Err: err}
	}

	return &EngineResult{
		Text:         out.String(),
		TokensUsed:   evalCount,
		FinishReason: doneReason,
	}, nil
}

// ollamaOptions maps sampling onto Ollama runtime options. Greedy decoding is
// expressed as temperature 0 with top_k 1.
func ollamaOptions(req *EngineRequest) map[string]any {
	opts := map[string]any{
		"num_predict": req.MaxNewTokens,
	}
	if req.DoSample {
		opts["temperature"] = req.Temperature
	} else {
		opts["temperature"] = 0
		opts["top_k"] = 1
	}
	return opts
}

func (e *OllamaEngine) Close() error { return nil }
