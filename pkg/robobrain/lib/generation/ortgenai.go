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

//go:build !onnx || !ORT

package generation

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrOrtgenaiUnavailable is returned when the binary was built without ONNX support.
var ErrOrtgenaiUnavailable = errors.New("ortgenai backend requires building with -tags onnx,ORT")

// OrtgenaiConfig configures an OrtgenaiEngine.
type OrtgenaiConfig struct {
	ModelPath     string
	ContextLength int
}

// OrtgenaiEngine is unavailable in this build.
type OrtgenaiEngine struct{}

// NewOrtgenaiEngine always fails without ONNX support.
func NewOrtgenaiEngine(OrtgenaiConfig, *zap.Logger) (*OrtgenaiEngine, error) {
	return nil, ErrOrtgenaiUnavailable
}

func (e *OrtgenaiEngine) Name() string { return "ortgenai" }

func (e *OrtgenaiEngine) GreedyOnly() bool { return true }

func (e *OrtgenaiEngine) Generate(context.Context, *EngineRequest) (*EngineResult, error) {
	return nil, &Error{Backend: e.Name(), Err: ErrOrtgenaiUnavailable}
}

func (e *OrtgenaiEngine) Close() error { return nil }
