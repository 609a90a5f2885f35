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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/catalog"
	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/generation"
	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/response"
	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/sessions"
	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/tasks"
	"go.uber.org/zap"
)

// VerifiedAnswer is the only answer that verifies an upload.
const VerifiedAnswer = "same"

// VerificationFailedDetail is the fixed message of a rejected verification.
const VerificationFailedDetail = "YOU DARE LIE TO ROBOBRAIN????"

var (
	// ErrVerificationRejected is returned when the model did not answer
	// VerifiedAnswer. It is a business outcome, not a failure.
	ErrVerificationRejected = errors.New("verification rejected")

	// ErrUnknownReference is returned when an explicit reference keyword is
	// not in the catalog.
	ErrUnknownReference = errors.New("unknown reference keyword")
)

// Workflow is the verify-then-prompt protocol on top of the engine. It is
// independent of HTTP.
type Workflow struct {
	adapter  *generation.Adapter
	catalog  *catalog.Catalog
	store    *sessions.Store
	cache    *GenerationCache
	sampling generation.Sampling
	logger   *zap.Logger
}

// WorkflowConfig wires a Workflow.
type WorkflowConfig struct {
	Adapter *generation.Adapter
	Catalog *catalog.Catalog
	Store   *sessions.Store
	// Cache serves deterministic /api/infer requests. Optional.
	Cache *GenerationCache
	// Sampling used by verify and prompt. Defaults to generation.DefaultSampling.
	Sampling *generation.Sampling
}

// NewWorkflow creates a workflow.
func NewWorkflow(config WorkflowConfig, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	sampling := generation.DefaultSampling()
	if config.Sampling != nil {
		sampling = *config.Sampling
	}
	cat := config.Catalog
	if cat == nil {
		cat = catalog.Empty()
	}
	return &Workflow{
		adapter:  config.Adapter,
		catalog:  cat,
		store:    config.Store,
		cache:    config.Cache,
		sampling: sampling,
		logger:   logger,
	}
}

// Outcome is the result of one pipeline run.
type Outcome struct {
	Task      tasks.Task      `json:"task"`
	Reference string          `json:"reference,omitempty"`
	Result    response.Result `json:"result"`
	Raw       string          `json:"raw"`
	Cached    bool            `json:"cached"`
}

// VerifyOutcome extends Outcome with the new session id on success.
type VerifyOutcome struct {
	Outcome
	ImageID string `json:"image_id,omitempty"`
}

// Verify stores body as a pending upload, asks the model whether it shows
// objectID and promotes it on "same". The pending upload never survives the
// call unless promoted, whatever happens in between.
func (wf *Workflow) Verify(ctx context.Context, objectID, filename string, body io.Reader) (*VerifyOutcome, error) {
	br := bufio.NewReader(body)
	head, _ := br.Peek(512)
	ext, err := sessions.ResolveExtension(filename, head)
	if err != nil {
		return nil, err
	}

	upload, err := wf.store.Create(br, ext)
	if err != nil {
		return nil, err
	}
	defer wf.store.Discard(upload)

	task := tasks.Verify
	images := []string{upload.Path()}
	entry, withRef := wf.catalog.MatchExact(objectID)
	if withRef {
		task = tasks.VerifyBasedOnReference
		images = append(images, entry.ImagePath)
	}

	out, err := wf.run(ctx, task, objectID, tasks.Options{}, images, false, wf.sampling, false)
	if err != nil {
		RecordVerification("error", withRef)
		return nil, err
	}
	out.Reference = entry.Keyword
	vo := &VerifyOutcome{Outcome: *out}

	if out.Result.Answer != VerifiedAnswer {
		RecordVerification("rejected", withRef)
		wf.logger.Info("Verification rejected",
			zap.String("object_id", objectID),
			zap.String("task", string(task)),
			zap.String("answer", out.Result.Answer))
		return vo, ErrVerificationRejected
	}

	id, err := wf.store.Promote(upload)
	if err != nil {
		RecordVerification("error", withRef)
		return nil, err
	}
	RecordVerification("verified", withRef)
	vo.ImageID = id
	wf.logger.Info("Verification accepted",
		zap.String("object_id", objectID),
		zap.String("task", string(task)),
		zap.String("image_id", id))
	return vo, nil
}

// Prompt runs a pointing task against a verified image. A catalog keyword
// found anywhere in the prompt adds its reference image.
func (wf *Workflow) Prompt(ctx context.Context, imageID, prompt string) (*Outcome, error) {
	path, err := wf.store.Lookup(imageID)
	if err != nil {
		return nil, err
	}

	task := tasks.Pointing
	images := []string{path}
	entry, withRef := wf.catalog.MatchSubstring(prompt)
	if withRef {
		task = tasks.PointingBasedOnReference
		images = append(images, entry.ImagePath)
	}

	out, err := wf.run(ctx, task, prompt, tasks.Options{}, images, false, wf.sampling, false)
	if err != nil {
		return nil, err
	}
	out.Reference = entry.Keyword
	return out, nil
}

// InferRequest is a generic task request against a verified image.
type InferRequest struct {
	ImageID string     `json:"image_id"`
	Task    string     `json:"task"`
	Text    string     `json:"text"`
	BBox    *tasks.BBox `json:"bbox,omitempty"`
	// Reference names a catalog keyword whose image is appended second.
	Reference      string   `json:"reference,omitempty"`
	EnableThinking *bool    `json:"enable_thinking,omitempty"`
	DoSample       *bool    `json:"do_sample,omitempty"`
	Temperature    *float32 `json:"temperature,omitempty"`
}

// Infer runs any task. Image count is checked against the task before the
// engine is touched.
func (wf *Workflow) Infer(ctx context.Context, req InferRequest) (*Outcome, error) {
	task, err := tasks.Parse(req.Task)
	if err != nil {
		return nil, err
	}
	path, err := wf.store.Lookup(req.ImageID)
	if err != nil {
		return nil, err
	}
	images := []string{path}
	var refKeyword string
	if req.Reference != "" {
		entry, ok := wf.catalog.Lookup(req.Reference)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownReference, req.Reference)
		}
		refKeyword = entry.Keyword
		images = append(images, entry.ImagePath)
	}

	sampling := wf.sampling
	if req.DoSample != nil {
		sampling.DoSample = *req.DoSample
	}
	if req.Temperature != nil {
		sampling.Temperature = *req.Temperature
	}
	thinking := req.EnableThinking != nil && *req.EnableThinking

	out, err := wf.run(ctx, task, req.Text, tasks.Options{BBox: req.BBox}, images, thinking, sampling, !sampling.DoSample)
	if err != nil {
		return nil, err
	}
	out.Reference = refKeyword
	return out, nil
}

// run is the shared pipeline: compile, generate, split.
func (wf *Workflow) run(
	ctx context.Context,
	task tasks.Task,
	text string,
	opts tasks.Options,
	images []string,
	thinking bool,
	sampling generation.Sampling,
	cacheable bool,
) (*Outcome, error) {
	prompt, err := tasks.CompileFor(task, text, len(images), opts)
	if err != nil {
		return nil, err
	}
	RecordTaskRequest(string(task))

	req := generation.Request{
		Prompt:         prompt,
		Images:         images,
		EnableThinking: thinking,
		Sampling:       sampling,
	}
	backend := wf.adapter.Engine().Name()

	generate := func(ctx context.Context) (*generation.EngineResult, error) {
		start := time.Now()
		res, err := wf.adapter.Generate(ctx, req)
		status := "ok"
		tokens := 0
		if err != nil {
			status = "error"
		} else {
			tokens = res.TokensUsed
		}
		RecordGeneration(backend, status, time.Since(start).Seconds(), tokens)
		return res, err
	}

	var (
		res    *generation.EngineResult
		cached bool
	)
	if cacheable && wf.cache != nil {
		res, cached, err = wf.cache.Do(ctx, backend, req, generate)
	} else {
		res, err = generate(ctx)
	}
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Task:   task,
		Result: response.Split(res.Text, thinking),
		Raw:    res.Text,
		Cached: cached,
	}, nil
}
