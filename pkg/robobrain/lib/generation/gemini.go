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
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiConfig configures a GeminiEngine.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GeminiEngine runs generations on the hosted Gemini API. Gemini applies its
// own chat template, so the engine sends the bare instruction and asks for
// the think/answer markers explicitly.
type GeminiEngine struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

const geminiThinkingInstruction = "First reason step by step inside <think></think>, " +
	"then give only the final answer inside <answer></answer>."

const geminiAnswerInstruction = "Reply with the final answer only, without explanation."

// NewGeminiEngine creates the API client.
func NewGeminiEngine(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiEngine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	apiKey := strings.TrimSpace(config.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini: api key is empty")
	}
	model := strings.TrimSpace(config.Model)
	if model == "" {
		return nil, errors.New("gemini: model is required")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	logger.Info("Gemini engine configured", zap.String("model", model))
	return &GeminiEngine{client: cl, model: model, logger: logger}, nil
}

func (e *GeminiEngine) Name() string { return "gemini" }

func (e *GeminiEngine) Generate(ctx context.Context, req *EngineRequest) (*EngineResult, error) {
	m := e.client.GenerativeModel(e.model)
	temperature := req.Temperature
	if !req.DoSample {
		temperature = 0
	}
	maxTokens := int32(req.MaxNewTokens)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:     &temperature,
		MaxOutputTokens: &maxTokens,
	}
	system := geminiAnswerInstruction
	if req.EnableThinking {
		system = geminiThinkingInstruction
	}
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	parts := make([]genai.Part, 0, len(req.Images)+1)
	for _, img := range req.Images {
		parts = append(parts, genai.Blob{MIMEType: img.Content.MIMEType, Data: img.Content.Data})
	}
	parts = append(parts, genai.Text(req.Instruction))

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, &Error{Backend: e.Name(), Err: err}
	}

	text := firstText(resp)
	if text == "" {
		return nil, &Error{Backend: e.Name(), Err: errors.New("empty response")}
	}

	res := &EngineResult{Text: text}
	if resp.UsageMetadata != nil {
		res.TokensUsed = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	if len(resp.Candidates) > 0 {
		res.FinishReason = strings.ToLower(resp.Candidates[0].FinishReason.String())
	}
	return res, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		var b strings.Builder
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return ""
}

func (e *GeminiEngine) Close() error {
	return e.client.Close()
}
