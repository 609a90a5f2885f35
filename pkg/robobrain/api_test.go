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
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verifyRequest(t *testing.T, objectID, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if objectID != "" {
		require.NoError(t, mw.WriteField("object_id", objectID))
	}
	if data != nil {
		fw, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/verify", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func promptRequest(imageID, prompt string) *http.Request {
	form := url.Values{}
	form.Set("image_id", imageID)
	form.Set("prompt", prompt)
	req := httptest.NewRequest(http.MethodPost, "/prompt", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Detail
}

func TestAPI_Welcome(t *testing.T) {
	env := newTestEnv(t, &fakeEngine{})

	w := serve(env.node.Handler(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Welcome to the Stateful RoboBrain API. Use /verify and /prompt endpoints."}`, w.Body.String())
}

func TestAPI_VerifyThenPrompt(t *testing.T) {
	env := newTestEnv(t, &fakeEngine{answer: "same"})
	h := env.node.Handler()

	w := serve(h, verifyRequest(t, "kettle", "kettle.png", pngBytes(t)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var verified VerifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verified))
	assert.Equal(t, VerifyResponseStatusVerified, verified.Status)
	_, err := uuid.Parse(verified.ImageId)
	require.NoError(t, err)

	env.engine.answer = "[(343, 526)]"
	w = serve(h, promptRequest(verified.ImageId, "point at the kettle"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"thinking":"","answer":"[(343, 526)]"}`, w.Body.String())
}

func TestAPI_VerifyRejected(t *testing.T) {
	env := newTestEnv(t, &fakeEngine{answer: "different"})

	w := serve(env.node.Handler(), verifyRequest(t, "kettle", "kettle.png", pngBytes(t)))
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "YOU DARE LIE TO ROBOBRAIN????", decodeDetail(t, w))
	assert.Empty(t, env.files(t))
}

func TestAPI_VerifyEngineError(t *testing.T) {
	env := newTestEnv(t, &fakeEngine{err: errors.New("device lost")})

	w := serve(env.node.Handler(), verifyRequest(t, "kettle", "kettle.png", pngBytes(t)))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	detail := decodeDetail(t, w)
	assert.True(t, strings.HasPrefix(detail, "An internal server error occurred: "), detail)
	assert.Contains(t, detail, "device lost")
	assert.Empty(t, env.files(t))
}

func TestAPI_VerifyMissingFields(t *testing.T) {
	env := newTestEnv(t, &fakeEngine{answer: "same"})
	h := env.node.Handler()

	w := serve(h, verifyRequest(t, "", "kettle.png", pngBytes(t)))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = serve(h, verifyRequest(t, "kettle", "", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	assert.Zero(t, env.engine.callCount.Load())
}

func TestAPI_VerifyUnsupportedImage(t *testing.T) {
	env := newTestEnv(t, &fakeEngine{answer: "same"})

	w := serve(env.node.Handler(), verifyRequest(t, "kettle", "notes.txt", []byte("hello")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.files(t))
}

func TestAPI_PromptUnknownImage(t *testing.T) {
	env := newTestEnv(t, &fakeEngine{answer: "[(1, 2)]"})

	id := uuid.NewString()
	w := serve(env.node.Handler(), promptRequest(id, "point at the kettle"))
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Image with ID '"+id+"' not found. Please verify the image first.", decodeDetail(t, w))
}

func TestAPI_PromptEngineError(t *testing.T) {
	env := newTestEnv(t, &fakeEngine{})
	id := verifyImage(t, env)
	env.engine.err = errors.New("boom")

	w := serve(env.node.Handler(), promptRequest(id, "point at the kettle"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decodeDetail(t, w), "boom")
}

func TestAPI_Infer(t *testing.T) {
	env := newTestEnv(t, &fakeEngine{})
	id := verifyImage(t, env)
	h := env.node.Handler()

	env.engine.answer = "[[10, 20, 30, 40]]"
	body := `{"image_id":"` + id + `","task":"grounding","text":"the kettle"}`
	w := serve(h, httptest.NewRequest(http.MethodPost, "/api/infer", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp InferenceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, TaskNameGrounding, resp.Task)
	assert.Equal(t, "[[10, 20, 30, 40]]", resp.Answer)
	assert.Nil(t, resp.Reference)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"missing task", `{"image_id":"` + id + `"}`, http.StatusUnprocessableEntity},
		{"invalid task", `{"image_id":"` + id + `","task":"dance"}`, http.StatusBadRequest},
		{"missing bbox", `{"image_id":"` + id + `","task":"pointing_within_box","text":"x"}`, http.StatusBadRequest},
		{"short bbox", `{"image_id":"` + id + `","task":"pointing_within_box","text":"x","bbox":[1,2,3]}`, http.StatusUnprocessableEntity},
		{"unknown image", `{"image_id":"` + uuid.NewString() + `","task":"pointing","text":"x"}`, http.StatusNotFound},
		{"unknown reference", `{"image_id":"` + id + `","task":"pointing","text":"x","reference":"toaster"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, httptest.NewRequest(http.MethodPost, "/api/infer", strings.NewReader(tt.body)))
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestAPI_Catalog(t *testing.T) {
	env := newTestEnv(t, &fakeEngine{})

	w := serve(env.node.Handler(), httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"keywords":["kettle","timer button"]}`, w.Body.String())
}

func TestAPI_InferWithinBox(t *testing.T) {
	env := newTestEnv(t, &fakeEngine{})
	id := verifyImage(t, env)

	env.engine.answer = "[(15, 25)]"
	body := `{"image_id":"` + id + `","task":"pointing_within_box","text":"the knob","bbox":[10,20,30,40]}`
	w := serve(env.node.Handler(), httptest.NewRequest(http.MethodPost, "/api/infer", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, env.engine.last().Prompt, "[10, 20, 30, 40]")
}

func TestAPI_GetImage(t *testing.T) {
	env := newTestEnv(t, &fakeEngine{})
	id := verifyImage(t, env)
	h := env.node.Handler()

	w := serve(h, httptest.NewRequest(http.MethodGet, "/api/images/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var info ImageInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, id, info.ImageId)
	assert.Equal(t, "png", info.Format)

	missing := uuid.NewString()
	w = serve(h, httptest.NewRequest(http.MethodGet, "/api/images/"+missing, nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Image with ID '"+missing+"' not found. Please verify the image first.", decodeDetail(t, w))
}

func TestAPI_UnknownPathIsNotWelcomed(t *testing.T) {
	env := newTestEnv(t, &fakeEngine{})

	w := serve(env.node.Handler(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_OpenAPISpec(t *testing.T) {
	swagger, err := GetSwagger()
	require.NoError(t, err)
	require.NoError(t, swagger.Validate(t.Context()))
	for _, p := range []string{"/", "/verify", "/prompt", "/api/infer", "/api/catalog", "/api/images/{image_id}", "/api/version"} {
		assert.NotNil(t, swagger.Paths.Find(p), p)
	}

	env := newTestEnv(t, &fakeEngine{})
	w := serve(env.node.Handler(), httptest.NewRequest(http.MethodGet, "/api/openapi.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Contains(t, doc["paths"], "/api/images/{image_id}")
}

func TestAPI_Version(t *testing.T) {
	env := newTestEnv(t, &fakeEngine{})

	w := serve(env.node.Handler(), httptest.NewRequest(http.MethodGet, "/api/version", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp VersionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, Version, resp.Version)
	assert.Equal(t, "fake", resp.Backend)
}

func TestAPI_CORSPreflight(t *testing.T) {
	env := newTestEnv(t, &fakeEngine{})

	w := serve(env.node.Handler(), httptest.NewRequest(http.MethodOptions, "/verify", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAPI_QueueFull(t *testing.T) {
	queue := NewRequestQueue(RequestQueueConfig{MaxConcurrentRequests: 1, MaxQueueSize: 1}, nil)
	env := newTestEnv(t, &fakeEngine{answer: "same"}, func(o *NodeOptions) { o.Queue = queue })

	// Hold the engine slot and fill the single queue slot.
	blocker, err := queue.Acquire(t.Context())
	require.NoError(t, err)
	defer blocker()
	go func() {
		if release, err := queue.Acquire(t.Context()); err == nil {
			release()
		}
	}()
	require.Eventually(t, func() bool { return queue.Stats().CurrentQueued == 1 }, time.Second, time.Millisecond)

	w := serve(env.node.Handler(), verifyRequest(t, "kettle", "kettle.png", pngBytes(t)))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Empty(t, env.files(t))
}
