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
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestGenerationCache_HitAfterMiss(t *testing.T) {
	gc := NewGenerationCache(time.Minute, zaptest.NewLogger(t))
	defer gc.Close()

	var calls atomic.Int32
	gen := func(context.Context) (*generation.EngineResult, error) {
		calls.Add(1)
		return &generation.EngineResult{Text: "[(1, 2)]"}, nil
	}
	req := generation.Request{Prompt: "p", Images: []string{"https://example.com/a.png"}}

	res, cached, err := gc.Do(context.Background(), "fake", req, gen)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "[(1, 2)]", res.Text)

	_, cached, err = gc.Do(context.Background(), "fake", req, gen)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.EqualValues(t, 1, calls.Load())

	stats := gc.Stats()
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
	assert.Equal(t, 1, stats.Items)
}

func TestGenerationCache_ErrorsAreNotCached(t *testing.T) {
	gc := NewGenerationCache(time.Minute, zaptest.NewLogger(t))
	defer gc.Close()

	var calls atomic.Int32
	gen := func(context.Context) (*generation.EngineResult, error) {
		calls.Add(1)
		return nil, errors.New("busy")
	}
	req := generation.Request{Prompt: "p"}

	_, _, err := gc.Do(context.Background(), "fake", req, gen)
	require.Error(t, err)
	_, _, err = gc.Do(context.Background(), "fake", req, gen)
	require.Error(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestGenerationCache_Singleflight(t *testing.T) {
	gc := NewGenerationCache(time.Minute, zaptest.NewLogger(t))
	defer gc.Close()

	var calls atomic.Int32
	started := make(chan struct{})
	unblock := make(chan struct{})
	gen := func(context.Context) (*generation.EngineResult, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-unblock
		return &generation.EngineResult{Text: "same"}, nil
	}
	req := generation.Request{Prompt: "p"}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, _, err := gc.Do(context.Background(), "fake", req, gen)
			assert.NoError(t, err)
			assert.Equal(t, "same", res.Text)
		}()
	}
	<-started
	time.Sleep(20 * time.Millisecond)
	close(unblock)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
}

func TestGenerationCache_KeyDependsOnInputs(t *testing.T) {
	gc := NewGenerationCache(time.Minute, zaptest.NewLogger(t))
	defer gc.Close()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	require.NoError(t, os.WriteFile(a, []byte("image-a"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("image-b"), 0o644))

	base := generation.Request{Prompt: "p", Images: []string{a, b}}
	key := gc.cacheKey("fake", base)

	swapped := base
	swapped.Images = []string{b, a}
	thinking := base
	thinking.EnableThinking = true
	prompt := base
	prompt.Prompt = "q"
	warmer := base
	warmer.Sampling.Temperature = 0.9

	assert.NotEqual(t, key, gc.cacheKey("fake", swapped), "image order matters")
	assert.NotEqual(t, key, gc.cacheKey("fake", thinking))
	assert.NotEqual(t, key, gc.cacheKey("fake", prompt))
	assert.NotEqual(t, key, gc.cacheKey("fake", warmer))
	assert.NotEqual(t, key, gc.cacheKey("other", base))

	// Same content under a different name hits the same key.
	c := filepath.Join(dir, "c.png")
	require.NoError(t, os.WriteFile(c, []byte("image-a"), 0o644))
	renamed := base
	renamed.Images = []string{c, b}
	assert.Equal(t, key, gc.cacheKey("fake", renamed))
}
