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

import "github.com/prometheus/client_golang/prometheus"

var (
	verificationOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "robobrain",
			Subsystem: "server",
			Name:      "verification_ops_total",
			Help:      "The total number of verifications by outcome.",
		},
		[]string{"outcome", "reference"},
	)

	taskRequestOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "robobrain",
			Subsystem: "server",
			Name:      "task_request_ops_total",
			Help:      "The total number of inference requests per task.",
		},
		[]string{"task"},
	)

	tokenGenerationOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "robobrain",
			Subsystem: "server",
			Name:      "token_generation_ops_total",
			Help:      "The total number of tokens generated.",
		},
		[]string{"backend"},
	)

	generationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "robobrain",
			Subsystem: "server",
			Name:      "generation_duration_seconds",
			Help:      "Time taken by one generation pass.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"backend", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "robobrain",
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "Time taken to process a request.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"endpoint", "status"},
	)

	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "robobrain",
			Subsystem: "server",
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits.",
		},
		[]string{"type"},
	)

	cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "robobrain",
			Subsystem: "server",
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses.",
		},
		[]string{"type"},
	)

	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "robobrain",
			Subsystem: "server",
			Name:      "queue_depth",
			Help:      "Number of requests currently waiting for the engine.",
		},
	)

	queueActiveRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "robobrain",
			Subsystem: "server",
			Name:      "queue_active_requests",
			Help:      "Number of requests currently holding the engine.",
		},
	)

	queueRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "robobrain",
			Subsystem: "server",
			Name:      "queue_rejected_total",
			Help:      "Total number of requests rejected due to full queue.",
		},
	)

	queueTimedOutTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "robobrain",
			Subsystem: "server",
			Name:      "queue_timed_out_total",
			Help:      "Total number of requests that timed out while waiting in queue.",
		},
	)

	queueWaitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "robobrain",
			Subsystem: "server",
			Name:      "queue_wait_duration_seconds",
			Help:      "Time spent waiting for the engine.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
)

func init() {
	prometheus.MustRegister(verificationOps)
	prometheus.MustRegister(taskRequestOps)
	prometheus.MustRegister(tokenGenerationOps)
	prometheus.MustRegister(generationDuration)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(cacheHits)
	prometheus.MustRegister(cacheMisses)
	prometheus.MustRegister(queueDepth)
	prometheus.MustRegister(queueActiveRequests)
	prometheus.MustRegister(queueRejectedTotal)
	prometheus.MustRegister(queueTimedOutTotal)
	prometheus.MustRegister(queueWaitDuration)
}

// RecordVerification counts a verification outcome ("verified", "rejected", "error").
func RecordVerification(outcome string, withReference bool) {
	ref := "false"
	if withReference {
		ref = "true"
	}
	verificationOps.WithLabelValues(outcome, ref).Inc()
}

// RecordTaskRequest counts an inference request for task.
func RecordTaskRequest(task string) {
	taskRequestOps.WithLabelValues(task).Inc()
}

// RecordGeneration records one generation pass.
func RecordGeneration(backend, status string, seconds float64, tokens int) {
	generationDuration.WithLabelValues(backend, status).Observe(seconds)
	if tokens > 0 {
		tokenGenerationOps.WithLabelValues(backend).Add(float64(tokens))
	}
}

// RecordRequestDuration records how long a request took
func RecordRequestDuration(endpoint, status string, seconds float64) {
	requestDuration.WithLabelValues(endpoint, status).Observe(seconds)
}

// RecordCacheHit increments the cache hit counter
func RecordCacheHit(cacheType string) {
	cacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss increments the cache miss counter
func RecordCacheMiss(cacheType string) {
	cacheMisses.WithLabelValues(cacheType).Inc()
}

// UpdateQueueMetrics updates all queue-related metrics from QueueStats
func UpdateQueueMetrics(stats QueueStats) {
	queueDepth.Set(float64(stats.CurrentQueued))
	queueActiveRequests.Set(float64(stats.CurrentActive))
}

// RecordQueueRejection increments the rejected counter
func RecordQueueRejection() {
	queueRejectedTotal.Inc()
}

// RecordQueueTimeout increments the timeout counter
func RecordQueueTimeout() {
	queueTimedOutTotal.Inc()
}

// RecordQueueWaitTime records how long a request waited for the engine
func RecordQueueWaitTime(seconds float64) {
	queueWaitDuration.Observe(seconds)
}
