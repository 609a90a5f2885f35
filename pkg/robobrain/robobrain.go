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
	"net/http"
	"net/url"
	"time"

	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/catalog"
	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/generation"
	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/paths"
	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/sessions"
	"go.uber.org/zap"
)

// RobobrainNode holds the long-lived resources of one server process. The
// engine is constructed once and shared by every request.
type RobobrainNode struct {
	logger *zap.Logger

	engine   generation.Engine
	adapter  *generation.Adapter
	catalog  *catalog.Catalog
	store    *sessions.Store
	workflow *Workflow

	// Request queue for backpressure control
	requestQueue *RequestQueue

	// Cache for deterministic generations, nil when disabled
	generationCache *GenerationCache
}

// NodeOptions are the already-constructed resources of a node.
type NodeOptions struct {
	Engine       generation.Engine
	Catalog      *catalog.Catalog
	Store        *sessions.Store
	Queue        *RequestQueue
	Cache        *GenerationCache
	MaxNewTokens int
	SystemPrompt string
	Sampling     *generation.Sampling
}

// NewRobobrainNode wires a node from its resources. Catalog defaults to empty
// and Queue to an unbounded queue.
func NewRobobrainNode(zl *zap.Logger, opts NodeOptions) *RobobrainNode {
	if zl == nil {
		zl = zap.NewNop()
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Empty()
	}
	if opts.Queue == nil {
		opts.Queue = NewRequestQueue(RequestQueueConfig{}, zl.Named("queue"))
	}

	adapter := generation.NewAdapter(opts.Engine, generation.AdapterConfig{
		MaxNewTokens: opts.MaxNewTokens,
		Template:     generation.QwenVLTemplate{System: opts.SystemPrompt},
	}, zl.Named("adapter"))

	workflow := NewWorkflow(WorkflowConfig{
		Adapter:  adapter,
		Catalog:  opts.Catalog,
		Store:    opts.Store,
		Cache:    opts.Cache,
		Sampling: opts.Sampling,
	}, zl.Named("workflow"))

	return &RobobrainNode{
		logger:          zl,
		engine:          opts.Engine,
		adapter:         adapter,
		catalog:         opts.Catalog,
		store:           opts.Store,
		workflow:        workflow,
		requestQueue:    opts.Queue,
		generationCache: opts.Cache,
	}
}

// Workflow returns the node's workflow.
func (n *RobobrainNode) Workflow() *Workflow {
	return n.workflow
}

// Handler returns the root handler: health endpoints plus the API.
func (n *RobobrainNode) Handler() http.Handler {
	apiHandler := NewRobobrainAPI(n.logger, n)

	rootMux := http.NewServeMux()

	// Health endpoints (outside /api prefix for k8s compatibility)
	rootMux.HandleFunc("GET /healthz", n.handleHealthz)
	rootMux.HandleFunc("GET /readyz", n.handleReadyz)

	rootMux.Handle("/", apiHandler)

	return corsMiddleware(rootMux)
}

// Close releases the engine and the cache.
func (n *RobobrainNode) Close() error {
	if n.generationCache != nil {
		n.generationCache.Close()
	}
	return n.adapter.Close()
}

// corsMiddleware adds permissive CORS headers for the RoboBrain API
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Accept, Origin")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// DefaultShutdownTimeout is the default time to wait for graceful shutdown
const DefaultShutdownTimeout = 30 * time.Second

// RunAsRobobrain loads the engine and catalog and serves the API until ctx is
// cancelled. If readyC is non-nil, it will be closed when the server is ready
// to accept requests.
func RunAsRobobrain(ctx context.Context, zl *zap.Logger, config Config, readyC chan struct{}) {
	zl = zl.Named("robobrain")
	zl.Info("Starting robobrain node", zap.Any("config", config))

	u, err := url.Parse(config.ApiUrl)
	if err != nil {
		zl.Fatal("Invalid API URL", zap.String("url", config.ApiUrl), zap.Error(err))
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = paths.DefaultDataDir()
	}
	verifiedDir := config.VerifiedDir
	if verifiedDir == "" {
		verifiedDir = paths.DefaultVerifiedDir(dataDir)
	}

	store, err := sessions.NewStore(verifiedDir, zl.Named("sessions"))
	if err != nil {
		zl.Fatal("Failed to open verified image store", zap.String("dir", verifiedDir), zap.Error(err))
	}

	catalogCacheDir := config.Catalog.CacheDir
	if catalogCacheDir == "" && config.Catalog.File != "" {
		catalogCacheDir = paths.DefaultCatalogCacheDir(dataDir)
	}
	cat, err := catalog.Load(ctx, catalog.Config{
		ManifestFile: config.Catalog.File,
		CacheDir:     catalogCacheDir,
		LongEdge:     config.Catalog.LongEdge,
	}, zl.Named("catalog"))
	if err != nil {
		zl.Fatal("Failed to load reference catalog", zap.String("file", config.Catalog.File), zap.Error(err))
	}
	zl.Info("Reference catalog loaded", zap.Strings("keywords", cat.Keywords()))

	// Load the engine once for the process lifetime
	loadStart := time.Now()
	engine, err := NewEngine(ctx, config.Generation, zl)
	if err != nil {
		zl.Fatal("Failed to initialize generation engine",
			zap.String("backend", config.Generation.Backend),
			zap.Error(err))
	}
	zl.Info("Generation engine ready",
		zap.String("backend", engine.Name()),
		zap.String("model", config.Generation.Model),
		zap.Duration("load_time", time.Since(loadStart)))

	requestTimeout, err := parseDuration(config.RequestTimeout)
	if err != nil {
		zl.Fatal("Invalid request_timeout duration", zap.String("request_timeout", config.RequestTimeout), zap.Error(err))
	}
	requestQueue := NewRequestQueue(RequestQueueConfig{
		MaxConcurrentRequests: config.MaxConcurrentRequests,
		MaxQueueSize:          config.MaxQueueSize,
		RequestTimeout:        requestTimeout,
	}, zl.Named("queue"))

	var generationCache *GenerationCache
	if config.CacheTTL != "0" {
		ttl, err := parseDuration(config.CacheTTL)
		if err != nil {
			zl.Fatal("Invalid cache_ttl duration", zap.String("cache_ttl", config.CacheTTL), zap.Error(err))
		}
		generationCache = NewGenerationCache(ttl, zl.Named("generation-cache"))
	}

	sampling := generation.DefaultSampling()
	if config.Generation.Temperature > 0 {
		sampling.Temperature = config.Generation.Temperature
	}

	node := NewRobobrainNode(zl, NodeOptions{
		Engine:       engine,
		Catalog:      cat,
		Store:        store,
		Queue:        requestQueue,
		Cache:        generationCache,
		MaxNewTokens: config.Generation.MaxNewTokens,
		SystemPrompt: config.Generation.SystemPrompt,
		Sampling:     &sampling,
	})
	defer func() {
		if err := node.Close(); err != nil {
			zl.Warn("Failed to close generation engine", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:        u.Host,
		Handler:     node.Handler(),
		ReadTimeout: 540 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		zl.Info("RoboBrain api server starting", zap.String("address", config.ApiUrl))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Signal readiness after server starts
	if readyC != nil {
		close(readyC)
	}

	// Wait for context cancellation or server error
	select {
	case err := <-serverErr:
		if err != nil {
			zl.Fatal("HTTP server error", zap.Error(err))
		}
	case <-ctx.Done():
		zl.Info("Shutdown signal received, starting graceful shutdown...")
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer shutdownCancel()

	// Stop accepting new connections
	srv.SetKeepAlivesEnabled(false)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Warn("Graceful shutdown failed, forcing close",
			zap.Error(err),
			zap.Duration("timeout", DefaultShutdownTimeout))
		_ = srv.Close()
	} else {
		zl.Info("Graceful shutdown completed successfully")
	}

	zl.Info("HTTP server stopped")
}
