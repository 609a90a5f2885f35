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

package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Nazha13/Robo-RAG-Setup/pkg/client/oapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_Verify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verify", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "kettle", r.FormValue("object_id"))

		f, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "kettle.png", header.Filename)
		assert.Equal(t, "png-bytes", string(data))

		writeJSON(w, http.StatusOK, map[string]string{"status": "verified", "image_id": "0b6e5a0e-8f43-4c3e-9d1e-2f1d3c4b5a69"})
	}))
	defer server.Close()

	c, err := NewRobobrainClient(server.URL, nil)
	require.NoError(t, err)

	id, err := c.Verify(context.Background(), "kettle", "kettle.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "0b6e5a0e-8f43-4c3e-9d1e-2f1d3c4b5a69", id)
}

func TestClient_VerifyRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "YOU DARE LIE TO ROBOBRAIN????"})
	}))
	defer server.Close()

	c, err := NewRobobrainClient(server.URL, nil)
	require.NoError(t, err)

	_, err = c.Verify(context.Background(), "kettle", "kettle.png", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrVerificationFailed)
	assert.Contains(t, err.Error(), "YOU DARE LIE TO ROBOBRAIN????")
}

func TestClient_Prompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prompt", r.URL.Path)
		assert.Equal(t, "abc", r.FormValue("image_id"))
		assert.Equal(t, "press the timer button", r.FormValue("prompt"))
		writeJSON(w, http.StatusOK, map[string]string{"thinking": "", "answer": "[(343, 526)]"})
	}))
	defer server.Close()

	c, err := NewRobobrainClient(server.URL+"/", nil)
	require.NoError(t, err)

	res, err := c.Prompt(context.Background(), "abc", "press the timer button")
	require.NoError(t, err)
	assert.Equal(t, "[(343, 526)]", res.Answer)
	assert.Empty(t, res.Thinking)
}

func TestClient_PromptImageNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Image with ID 'abc' not found. Please verify the image first."})
	}))
	defer server.Close()

	c, err := NewRobobrainClient(server.URL, nil)
	require.NoError(t, err)

	_, err = c.Prompt(context.Background(), "abc", "anything")
	require.ErrorIs(t, err, ErrImageNotFound)
}

func TestClient_Infer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/infer", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "pointing_within_box", req["task"])
		assert.Equal(t, []any{1.0, 2.0, 3.0, 4.0}, req["bbox"])
		assert.Equal(t, false, req["do_sample"])
		assert.NotContains(t, req, "reference")

		writeJSON(w, http.StatusOK, map[string]any{
			"task": "pointing_within_box", "thinking": "", "answer": "[(2, 3)]", "cached": true,
		})
	}))
	defer server.Close()

	c, err := NewRobobrainClient(server.URL, nil)
	require.NoError(t, err)

	greedy := false
	text := "the switch"
	res, err := c.Infer(context.Background(), oapi.InferenceRequest{
		ImageId:  "abc",
		Task:     oapi.TaskNamePointingWithinBox,
		Text:     &text,
		Bbox:     &[]float64{1, 2, 3, 4},
		DoSample: &greedy,
	})
	require.NoError(t, err)
	assert.Equal(t, oapi.TaskNamePointingWithinBox, res.Task)
	assert.Equal(t, "[(2, 3)]", res.Answer)
	assert.True(t, res.Cached)
	assert.Nil(t, res.Reference)
}

func TestClient_InferImageNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Image with ID 'abc' not found. Please verify the image first."})
	}))
	defer server.Close()

	c, err := NewRobobrainClient(server.URL, nil)
	require.NoError(t, err)

	_, err = c.Infer(context.Background(), oapi.InferenceRequest{ImageId: "abc", Task: oapi.TaskNameGeneral})
	require.ErrorIs(t, err, ErrImageNotFound)
}

func TestClient_Image(t *testing.T) {
	const id = "0b6e5a0e-8f43-4c3e-9d1e-2f1d3c4b5a69"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		if r.URL.Path != "/api/images/"+id {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Image with ID 'x' not found. Please verify the image first."})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"image_id": id, "format": "jpg"})
	}))
	defer server.Close()

	c, err := NewRobobrainClient(server.URL, nil)
	require.NoError(t, err)

	info, err := c.Image(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, info.ImageId)
	assert.Equal(t, "jpg", info.Format)

	_, err = c.Image(context.Background(), "x")
	require.ErrorIs(t, err, ErrImageNotFound)
}

func TestClient_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	c, err := NewRobobrainClient(server.URL, nil)
	require.NoError(t, err)

	_, err = c.Catalog(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream unavailable", apiErr.Detail)
}

func TestClient_ServerErr(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "An internal server error occurred: device lost"})
	}))
	defer server.Close()

	c, err := NewRobobrainClient(server.URL, nil)
	require.NoError(t, err)

	_, err = c.Prompt(context.Background(), "abc", "x")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "An internal server error occurred: device lost", apiErr.Detail)
	assert.NotErrorIs(t, err, ErrImageNotFound)
}

func TestClient_Catalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		writeJSON(w, http.StatusOK, map[string]any{"keywords": []string{"kettle", "timer button"}})
	}))
	defer server.Close()

	c, err := NewRobobrainClient(server.URL, &http.Client{Timeout: 5 * time.Second})
	require.NoError(t, err)

	keywords, err := c.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"kettle", "timer button"}, keywords)
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	c, err := NewRobobrainClient(server.URL, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = c.Prompt(ctx, "abc", "x")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewRobobrainClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewRobobrainClient("localhost", nil)
	require.Error(t, err)
}
