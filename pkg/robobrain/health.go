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
	"net/http"
)

// Version information - set at build time via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// HealthResponse is the response for /healthz endpoint
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the response for /readyz endpoint
type ReadyResponse struct {
	Status  string                `json:"status"`
	Backend string                `json:"backend"`
	Catalog int                   `json:"catalog_entries"`
	Queue   QueueStats            `json:"queue"`
	Cache   *GenerationCacheStats `json:"cache,omitempty"`
}

// handleHealthz returns 200 if the service is running (liveness check)
func (n *RobobrainNode) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleReadyz returns 200 once the engine is constructed and the verified
// directory is usable.
func (n *RobobrainNode) handleReadyz(w http.ResponseWriter, r *http.Request) {
	resp := ReadyResponse{
		Status:  "ready",
		Catalog: n.catalog.Len(),
		Queue:   n.requestQueue.Stats(),
	}
	if n.engine != nil {
		resp.Backend = n.engine.Name()
	}
	if n.generationCache != nil {
		stats := n.generationCache.Stats()
		resp.Cache = &stats
	}

	if n.engine == nil || n.store == nil {
		resp.Status = "not_ready"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
