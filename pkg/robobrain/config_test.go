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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewEngine(t *testing.T) {
	logger := zaptest.NewLogger(t)

	engine, err := NewEngine(context.Background(), GenerationConfig{Model: "robobrain2.0-7b"}, logger)
	require.NoError(t, err)
	assert.Equal(t, BackendOllama, engine.Name())

	_, err = NewEngine(context.Background(), GenerationConfig{Backend: BackendOllama}, logger)
	require.Error(t, err, "ollama needs a model")

	_, err = NewEngine(context.Background(), GenerationConfig{Backend: "tensorrt", Model: "m"}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown generation backend")
}

func TestParseDuration(t *testing.T) {
	for in, want := range map[string]time.Duration{
		"":    0,
		"0":   0,
		"90s": 90 * time.Second,
		"5m":  5 * time.Minute,
	} {
		got, err := parseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseDuration("soon")
	require.Error(t, err)
}
