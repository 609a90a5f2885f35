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
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull is returned when the request queue is at capacity
	ErrQueueFull = errors.New("request queue is full")

	// ErrRequestTimeout is returned when a request waits longer than the queue timeout
	ErrRequestTimeout = errors.New("request timeout exceeded")
)

// queueRetryAfter is the Retry-After hint sent with 503 responses.
const queueRetryAfter = 5 * time.Second

type queueOutcome int

const (
	outcomeProcessed queueOutcome = iota
	outcomeRejected
	outcomeTimedOut
	numQueueOutcomes
)

// RequestQueue admits requests to the generation engine. The engine processes
// one pass at a time per device; everything else waits here, bounded.
type RequestQueue struct {
	config RequestQueueConfig
	// slots is nil when concurrency is unlimited.
	slots chan struct{}

	active   atomic.Int64
	waiting  atomic.Int64
	outcomes [numQueueOutcomes]atomic.Int64

	logger *zap.Logger
}

// RequestQueueConfig holds configuration for the request queue
type RequestQueueConfig struct {
	MaxConcurrentRequests int           // 0 = unlimited
	MaxQueueSize          int           // 0 = unlimited (only when MaxConcurrent > 0)
	RequestTimeout        time.Duration // 0 = wait as long as the caller does
}

// NewRequestQueue creates a new request queue with the given configuration
func NewRequestQueue(config RequestQueueConfig, logger *zap.Logger) *RequestQueue {
	if logger == nil {
		logger = zap.NewNop()
	}
	q := &RequestQueue{config: config, logger: logger}
	if config.MaxConcurrentRequests <= 0 {
		logger.Info("Request queue disabled (unlimited concurrency)")
		return q
	}
	q.slots = make(chan struct{}, config.MaxConcurrentRequests)
	logger.Info("Request queue initialized",
		zap.Int("max_concurrent", config.MaxConcurrentRequests),
		zap.Int("max_queue_size", config.MaxQueueSize),
		zap.Duration("timeout", config.RequestTimeout))
	return q
}

// Acquire waits for an engine slot. The returned release function must be
// called when the request is done; calling it more than once is harmless.
func (q *RequestQueue) Acquire(ctx context.Context) (release func(), err error) {
	if q.slots == nil {
		q.active.Add(1)
		return q.releaser(false), nil
	}

	select {
	case q.slots <- struct{}{}:
		q.active.Add(1)
		RecordQueueWaitTime(0)
		return q.releaser(true), nil
	default:
	}

	if !q.reserveWaiting() {
		q.record(outcomeRejected)
		q.logger.Warn("Request rejected: queue full",
			zap.Int("max_queue", q.config.MaxQueueSize))
		return nil, ErrQueueFull
	}
	defer q.waiting.Add(-1)

	// The timeout only covers waiting, never the generation itself.
	waitCtx := ctx
	if q.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, q.config.RequestTimeout)
		defer cancel()
	}

	start := time.Now()
	select {
	case q.slots <- struct{}{}:
		q.active.Add(1)
		wait := time.Since(start)
		RecordQueueWaitTime(wait.Seconds())
		q.logger.Debug("Request dequeued", zap.Duration("wait_time", wait))
		return q.releaser(true), nil
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		q.record(outcomeTimedOut)
		q.logger.Warn("Request timed out in queue",
			zap.Duration("wait_time", time.Since(start)),
			zap.Duration("timeout", q.config.RequestTimeout))
		return nil, ErrRequestTimeout
	}
}

// reserveWaiting takes a waiting slot. The compare-and-swap keeps concurrent
// callers from all passing the capacity check at once.
func (q *RequestQueue) reserveWaiting() bool {
	limit := int64(q.config.MaxQueueSize)
	for {
		n := q.waiting.Load()
		if limit > 0 && n >= limit {
			return false
		}
		if q.waiting.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (q *RequestQueue) releaser(holdsSlot bool) func() {
	var released atomic.Bool
	return func() {
		if !released.CompareAndSwap(false, true) {
			return
		}
		q.active.Add(-1)
		q.record(outcomeProcessed)
		if holdsSlot {
			<-q.slots
		}
	}
}

func (q *RequestQueue) record(o queueOutcome) {
	q.outcomes[o].Add(1)
	switch o {
	case outcomeRejected:
		RecordQueueRejection()
	case outcomeTimedOut:
		RecordQueueTimeout()
	}
}

// Stats returns current queue statistics
func (q *RequestQueue) Stats() QueueStats {
	return QueueStats{
		CurrentActive:  q.active.Load(),
		CurrentQueued:  q.waiting.Load(),
		TotalProcessed: q.outcomes[outcomeProcessed].Load(),
		TotalRejected:  q.outcomes[outcomeRejected].Load(),
		TotalTimedOut:  q.outcomes[outcomeTimedOut].Load(),
		MaxConcurrent:  int64(q.config.MaxConcurrentRequests),
		MaxQueueSize:   int64(q.config.MaxQueueSize),
	}
}

// QueueStats holds queue statistics
type QueueStats struct {
	CurrentActive  int64 `json:"current_active"`
	CurrentQueued  int64 `json:"current_queued"`
	TotalProcessed int64 `json:"total_processed"`
	TotalRejected  int64 `json:"total_rejected"`
	TotalTimedOut  int64 `json:"total_timed_out"`
	MaxConcurrent  int64 `json:"max_concurrent"`
	MaxQueueSize   int64 `json:"max_queue_size"`
}

// IsEnabled returns true if request queuing is enabled
func (q *RequestQueue) IsEnabled() bool {
	return q.slots != nil
}

// admit acquires a slot for an HTTP request, writing the error response
// itself when admission fails.
func (q *RequestQueue) admit(w http.ResponseWriter, r *http.Request) (func(), bool) {
	release, err := q.Acquire(r.Context())
	switch {
	case err == nil:
	case errors.Is(err, ErrQueueFull):
		WriteQueueFullResponse(w, queueRetryAfter)
		return nil, false
	case errors.Is(err, ErrRequestTimeout):
		WriteTimeoutResponse(w)
		return nil, false
	default:
		writeDetail(w, http.StatusRequestTimeout, "request cancelled")
		return nil, false
	}
	UpdateQueueMetrics(q.Stats())
	return func() {
		release()
		UpdateQueueMetrics(q.Stats())
	}, true
}

// WriteQueueFullResponse writes a 503 response with Retry-After header
func WriteQueueFullResponse(w http.ResponseWriter, retryAfter time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
	writeDetail(w, http.StatusServiceUnavailable, "service overloaded, please retry later")
}

// WriteTimeoutResponse writes a 504 response
func WriteTimeoutResponse(w http.ResponseWriter) {
	writeDetail(w, http.StatusGatewayTimeout, "request timeout exceeded")
}
