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
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRequestQueue_Disabled(t *testing.T) {
	q := NewRequestQueue(RequestQueueConfig{}, zaptest.NewLogger(t))
	assert.False(t, q.IsEnabled())

	r1, err := q.Acquire(context.Background())
	require.NoError(t, err)
	r2, err := q.Acquire(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, q.Stats().CurrentActive)

	r1()
	r2()
	stats := q.Stats()
	assert.EqualValues(t, 0, stats.CurrentActive)
	assert.EqualValues(t, 2, stats.TotalProcessed)
}

func TestRequestQueue_FullRejects(t *testing.T) {
	q := NewRequestQueue(RequestQueueConfig{
		MaxConcurrentRequests: 1,
		MaxQueueSize:          1,
	}, zaptest.NewLogger(t))

	blocker, err := q.Acquire(context.Background())
	require.NoError(t, err)
	defer blocker()

	// Occupy the single queue slot.
	ctx, cancel := context.WithCancel(context.Background())
	waiting := make(chan error, 1)
	go func() {
		_, err := q.Acquire(ctx)
		waiting <- err
	}()
	require.Eventually(t, func() bool { return q.Stats().CurrentQueued == 1 }, time.Second, time.Millisecond)

	_, err = q.Acquire(context.Background())
	require.ErrorIs(t, err, ErrQueueFull)
	assert.EqualValues(t, 1, q.Stats().TotalRejected)

	cancel()
	assert.ErrorIs(t, <-waiting, context.Canceled)
	assert.EqualValues(t, 0, q.Stats().CurrentQueued)
}

func TestRequestQueue_TimeoutCoversOnlyWaiting(t *testing.T) {
	q := NewRequestQueue(RequestQueueConfig{
		MaxConcurrentRequests: 1,
		RequestTimeout:        20 * time.Millisecond,
	}, zaptest.NewLogger(t))

	release, err := q.Acquire(context.Background())
	require.NoError(t, err)

	_, err = q.Acquire(context.Background())
	require.ErrorIs(t, err, ErrRequestTimeout)
	assert.EqualValues(t, 1, q.Stats().TotalTimedOut)

	// A held slot outlives the timeout.
	time.Sleep(40 * time.Millisecond)
	assert.EqualValues(t, 1, q.Stats().CurrentActive)
	release()
}

func TestRequestQueue_WaiterTakesReleasedSlot(t *testing.T) {
	q := NewRequestQueue(RequestQueueConfig{MaxConcurrentRequests: 1}, zaptest.NewLogger(t))

	first, err := q.Acquire(context.Background())
	require.NoError(t, err)

	acquired := make(chan func(), 1)
	go func() {
		release, err := q.Acquire(context.Background())
		assert.NoError(t, err)
		acquired <- release
	}()
	require.Eventually(t, func() bool { return q.Stats().CurrentQueued == 1 }, time.Second, time.Millisecond)

	first()
	second := <-acquired
	stats := q.Stats()
	assert.EqualValues(t, 0, stats.CurrentQueued)
	assert.EqualValues(t, 1, stats.CurrentActive)
	assert.EqualValues(t, 1, stats.TotalProcessed)

	second()
	assert.EqualValues(t, 2, q.Stats().TotalProcessed)
}

func TestRequestQueue_ReleaseIsIdempotent(t *testing.T) {
	q := NewRequestQueue(RequestQueueConfig{MaxConcurrentRequests: 1}, zaptest.NewLogger(t))

	release, err := q.Acquire(context.Background())
	require.NoError(t, err)
	release()
	release()

	stats := q.Stats()
	assert.EqualValues(t, 0, stats.CurrentActive)
	assert.EqualValues(t, 1, stats.TotalProcessed)

	// The slot is free again.
	release, err = q.Acquire(context.Background())
	require.NoError(t, err)
	release()
}

// TestRequestQueue_DepthNeverExceedsMax races many waiters against a bounded queue.
func TestRequestQueue_DepthNeverExceedsMax(t *testing.T) {
	logger := zaptest.NewLogger(t)
	maxQueueSize := 5
	var violation atomic.Bool

	for iter := 0; iter < 20; iter++ {
		q := NewRequestQueue(RequestQueueConfig{
			MaxConcurrentRequests: 1,
			MaxQueueSize:          maxQueueSize,
			RequestTimeout:        50 * time.Millisecond,
		}, logger)

		blocker, err := q.Acquire(context.Background())
		require.NoError(t, err)

		done := make(chan struct{})
		go func() {
			for {
				select {
				case <-done:
					return
				default:
					if q.Stats().CurrentQueued > int64(maxQueueSize) {
						violation.Store(true)
					}
				}
			}
		}()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
				defer cancel()
				if release, err := q.Acquire(ctx); err == nil {
					release()
				}
			}()
		}
		wg.Wait()
		close(done)
		blocker()
	}

	assert.False(t, violation.Load(), "queue depth exceeded its maximum")
}

func TestRequestQueue_AdmitWritesDetail(t *testing.T) {
	q := NewRequestQueue(RequestQueueConfig{
		MaxConcurrentRequests: 1,
		RequestTimeout:        10 * time.Millisecond,
	}, zaptest.NewLogger(t))

	blocker, err := q.Acquire(context.Background())
	require.NoError(t, err)
	defer blocker()

	w := httptest.NewRecorder()
	release, ok := q.admit(w, httptest.NewRequest(http.MethodPost, "/prompt", nil))
	assert.False(t, ok)
	assert.Nil(t, release)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.JSONEq(t, `{"detail":"request timeout exceeded"}`, w.Body.String())
}

func TestWriteQueueFullResponse(t *testing.T) {
	w := httptest.NewRecorder()
	WriteQueueFullResponse(w, 5*time.Second)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "5", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "service overloaded")
}
