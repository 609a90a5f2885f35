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
	"encoding/binary"
	"math"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/generation"
	"github.com/cespare/xxhash/v2"
	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// GenerationCacheTTL is the default TTL for cached generations
const GenerationCacheTTL = 5 * time.Minute

// GenerationCache memoizes deterministic generations (do_sample=false) and
// collapses identical concurrent requests into one engine pass. Sampled
// generations must never go through it.
type GenerationCache struct {
	cache   *ttlcache.Cache[string, *generation.EngineResult]
	sfGroup singleflight.Group
	logger  *zap.Logger
	cancel  context.CancelFunc

	hits   atomic.Uint64
	misses atomic.Uint64
	sfHits atomic.Uint64
}

// NewGenerationCache creates and starts a cache.
func NewGenerationCache(ttl time.Duration, logger *zap.Logger) *GenerationCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = GenerationCacheTTL
	}
	cache := ttlcache.New(
		ttlcache.WithTTL[string, *generation.EngineResult](ttl),
	)
	go cache.Start()

	ctx, cancel := context.WithCancel(context.Background())
	gc := &GenerationCache{
		cache:  cache,
		logger: logger,
		cancel: cancel,
	}
	go gc.logStats(ctx)
	return gc
}

// Do returns the cached result for req or runs generate once for all
// concurrent callers with the same key.
func (gc *GenerationCache) Do(
	ctx context.Context,
	backend string,
	req generation.Request,
	generate func(context.Context) (*generation.EngineResult, error),
) (*generation.EngineResult, bool, error) {
	key := gc.cacheKey(backend, req)

	if item := gc.cache.Get(key); item != nil {
		gc.hits.Add(1)
		RecordCacheHit("generation")
		gc.logger.Debug("Generation cache hit", zap.String("backend", backend))
		return item.Value(), true, nil
	}

	result, err, shared := gc.sfGroup.Do(key, func() (any, error) {
		gc.misses.Add(1)
		RecordCacheMiss("generation")

		res, err := generate(ctx)
		if err != nil {
			return nil, err
		}
		gc.cache.Set(key, res, ttlcache.DefaultTTL)
		return res, nil
	})
	if err != nil {
		return nil, false, err
	}
	if shared {
		gc.sfHits.Add(1)
		gc.logger.Debug("Singleflight hit for generation request", zap.String("backend", backend))
	}
	return result.(*generation.EngineResult), shared, nil
}

// cacheKey hashes everything that determines a greedy generation: backend,
// prompt, thinking mode and the content of every image in order.
func (gc *GenerationCache) cacheKey(backend string, req generation.Request) string {
	h := xxhash.New()

	_, _ = h.WriteString(backend)
	_, _ = h.WriteString("|p:")
	_, _ = h.WriteString(req.Prompt)
	_, _ = h.WriteString("|t:")
	if req.EnableThinking {
		_, _ = h.WriteString("1")
	} else {
		_, _ = h.WriteString("0")
	}
	var tempBuf [4]byte
	binary.BigEndian.PutUint32(tempBuf[:], math.Float32bits(req.Sampling.Temperature))
	_, _ = h.Write(tempBuf[:])

	for i, src := range req.Images {
		_, _ = h.WriteString("|i")
		_, _ = h.Write([]byte{byte(i >> 8), byte(i)})
		_, _ = h.WriteString(":")
		var imgBuf [8]byte
		binary.BigEndian.PutUint64(imgBuf[:], hashImageSource(src))
		_, _ = h.Write(imgBuf[:])
	}

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], h.Sum64())
	return string(buf[:])
}

// hashImageSource hashes local files by content and remote sources by reference.
func hashImageSource(src string) uint64 {
	if !strings.Contains(src, "://") {
		if data, err := os.ReadFile(src); err == nil {
			return xxhash.Sum64(data)
		}
	}
	return xxhash.Sum64String(src)
}

// Stats returns cache statistics
func (gc *GenerationCache) Stats() GenerationCacheStats {
	return GenerationCacheStats{
		Hits:             gc.hits.Load(),
		Misses:           gc.misses.Load(),
		SingleflightHits: gc.sfHits.Load(),
		Items:            gc.cache.Len(),
	}
}

// GenerationCacheStats holds cache statistics
type GenerationCacheStats struct {
	Hits             uint64 `json:"hits"`
	Misses           uint64 `json:"misses"`
	SingleflightHits uint64 `json:"singleflight_hits"`
	Items            int    `json:"items"`
}

// Close stops the cache
func (gc *GenerationCache) Close() {
	gc.cancel()
	gc.cache.Stop()
}

func (gc *GenerationCache) logStats(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics := gc.cache.Metrics()
			if metrics.Hits > 0 || metrics.Misses > 0 {
				total := metrics.Hits + metrics.Misses
				hitRate := float64(metrics.Hits) / float64(total) * 100
				gc.logger.Info("Generation cache stats",
					zap.Uint64("hits", metrics.Hits),
					zap.Uint64("misses", metrics.Misses),
					zap.Float64("hit_rate_pct", hitRate),
					zap.Int("items", gc.cache.Len()))
			}
		}
	}
}
