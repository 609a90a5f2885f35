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

//go:generate go tool oapi-codegen --config=cfg.yaml ./openapi.yaml

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/sessions"
	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/tasks"
	"github.com/bytedance/sonic/decoder"
	"github.com/bytedance/sonic/encoder"
	"go.uber.org/zap"
)

// WelcomeMessage is returned by GET /.
const WelcomeMessage = "Welcome to the Stateful RoboBrain API. Use /verify and /prompt endpoints."

// maxUploadMemory is the multipart memory budget; larger parts spill to disk.
const maxUploadMemory = 32 << 20

// RobobrainAPI implements ServerInterface over a RobobrainNode.
type RobobrainAPI struct {
	logger *zap.Logger
	node   *RobobrainNode
}

var _ ServerInterface = (*RobobrainAPI)(nil)

// observedEndpoints maps routed patterns to request metric labels.
var observedEndpoints = map[string]string{
	"POST /verify":    "verify",
	"POST /prompt":    "prompt",
	"POST /api/infer": "infer",
}

// NewRobobrainAPI creates the HTTP handler for the workflow endpoints.
func NewRobobrainAPI(logger *zap.Logger, node *RobobrainNode) http.Handler {
	api := &RobobrainAPI{
		logger: logger,
		node:   node,
	}
	mux := exactRootMux{http.NewServeMux()}
	mux.HandleFunc("GET /api/openapi.json", api.GetOpenAPISpec)
	return HandlerWithOptions(api, StdHTTPServerOptions{
		BaseRouter:  mux,
		Middlewares: []MiddlewareFunc{observe},
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			writeDetail(w, http.StatusBadRequest, err.Error())
		},
	})
}

// exactRootMux registers GET / as an exact match so unknown paths stay 404.
type exactRootMux struct {
	*http.ServeMux
}

func (m exactRootMux) HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	if pattern == "GET /" {
		pattern = "GET /{$}"
	}
	m.ServeMux.HandleFunc(pattern, handler)
}

// GetWelcome answers GET /.
func (a *RobobrainAPI) GetWelcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, WelcomeResponse{Message: WelcomeMessage})
}

// VerifyImage handles POST /verify (multipart: object_id, image).
func (a *RobobrainAPI) VerifyImage(w http.ResponseWriter, r *http.Request) {
	defer func() { _ = r.Body.Close() }()

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	objectID := r.FormValue("object_id")
	if objectID == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "field required: object_id")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "field required: image")
		return
	}
	defer func() { _ = file.Close() }()

	release, ok := a.node.requestQueue.admit(w, r)
	if !ok {
		return
	}
	defer release()

	out, err := a.node.workflow.Verify(r.Context(), objectID, header.Filename, file)
	if err != nil {
		a.writeError(w, err, "verify", zap.String("object_id", objectID))
		return
	}
	writeJSON(w, http.StatusOK, VerifyResponse{Status: VerifyResponseStatusVerified, ImageId: out.ImageID})
}

// PromptImage handles POST /prompt (form: image_id, prompt).
func (a *RobobrainAPI) PromptImage(w http.ResponseWriter, r *http.Request) {
	defer func() { _ = r.Body.Close() }()

	imageID := r.FormValue("image_id")
	prompt := r.FormValue("prompt")
	if imageID == "" || prompt == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "fields required: image_id, prompt")
		return
	}

	release, ok := a.node.requestQueue.admit(w, r)
	if !ok {
		return
	}
	defer release()

	out, err := a.node.workflow.Prompt(r.Context(), imageID, prompt)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, imageNotFoundDetail(imageID))
			return
		}
		a.writeError(w, err, "prompt", zap.String("image_id", imageID))
		return
	}
	a.logger.Info("Prompt answered",
		zap.String("image_id", imageID),
		zap.String("task", string(out.Task)),
		zap.String("reference", out.Reference))
	writeJSON(w, http.StatusOK, PromptResponse{Thinking: out.Result.Thinking, Answer: out.Result.Answer})
}

// RunInference handles POST /api/infer (JSON InferenceRequest).
func (a *RobobrainAPI) RunInference(w http.ResponseWriter, r *http.Request) {
	defer func() { _ = r.Body.Close() }()

	var body InferenceRequest
	if err := decoder.NewStreamDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if body.ImageId == "" || body.Task == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "fields required: image_id, task")
		return
	}
	req, err := inferRequestFrom(body)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	release, ok := a.node.requestQueue.admit(w, r)
	if !ok {
		return
	}
	defer release()

	out, err := a.node.workflow.Infer(r.Context(), req)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, imageNotFoundDetail(req.ImageID))
			return
		}
		a.writeError(w, err, "infer", zap.String("image_id", req.ImageID), zap.String("task", req.Task))
		return
	}
	resp := InferenceResponse{
		Task:     TaskName(out.Task),
		Thinking: out.Result.Thinking,
		Answer:   out.Result.Answer,
		Cached:   out.Cached,
	}
	if out.Reference != "" {
		resp.Reference = &out.Reference
	}
	writeJSON(w, http.StatusOK, resp)
}

// inferRequestFrom converts the wire body into a workflow request.
func inferRequestFrom(body InferenceRequest) (InferRequest, error) {
	req := InferRequest{
		ImageID:        body.ImageId,
		Task:           string(body.Task),
		EnableThinking: body.EnableThinking,
		DoSample:       body.DoSample,
		Temperature:    body.Temperature,
	}
	if body.Text != nil {
		req.Text = *body.Text
	}
	if body.Reference != nil {
		req.Reference = *body.Reference
	}
	if body.Bbox != nil {
		if len(*body.Bbox) != len(tasks.BBox{}) {
			return InferRequest{}, fmt.Errorf("bbox must have %d values, got %d", len(tasks.BBox{}), len(*body.Bbox))
		}
		var box tasks.BBox
		copy(box[:], *body.Bbox)
		req.BBox = &box
	}
	return req, nil
}

// ListCatalog handles GET /api/catalog.
func (a *RobobrainAPI) ListCatalog(w http.ResponseWriter, r *http.Request) {
	keywords := a.node.catalog.Keywords()
	if keywords == nil {
		keywords = []string{}
	}
	writeJSON(w, http.StatusOK, CatalogResponse{Keywords: keywords})
}

// GetImage handles GET /api/images/{image_id}.
func (a *RobobrainAPI) GetImage(w http.ResponseWriter, r *http.Request, imageId string) {
	p, err := a.node.store.Lookup(imageId)
	if err != nil {
		writeDetail(w, http.StatusNotFound, imageNotFoundDetail(imageId))
		return
	}
	name := filepath.Base(p)
	writeJSON(w, http.StatusOK, ImageInfo{
		ImageId: strings.TrimSuffix(name, filepath.Ext(name)),
		Format:  strings.TrimPrefix(filepath.Ext(name), "."),
	})
}

// GetVersion handles GET /api/version.
func (a *RobobrainAPI) GetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Backend:   a.node.engine.Name(),
	})
}

var openAPIDocument = sync.OnceValues(func() ([]byte, error) {
	swagger, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	return swagger.MarshalJSON()
})

// GetOpenAPISpec serves the embedded OpenAPI document as JSON.
func (a *RobobrainAPI) GetOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	doc, err := openAPIDocument()
	if err != nil {
		a.logger.Error("Failed to load OpenAPI document", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("An internal server error occurred: %v", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(doc)
}

func imageNotFoundDetail(imageID string) string {
	return fmt.Sprintf("Image with ID '%s' not found. Please verify the image first.", imageID)
}

// writeError maps workflow errors onto status codes.
func (a *RobobrainAPI) writeError(w http.ResponseWriter, err error, op string, fields ...zap.Field) {
	switch {
	case errors.Is(err, ErrVerificationRejected):
		writeDetail(w, http.StatusNotFound, VerificationFailedDetail)
	case errors.Is(err, sessions.ErrNotFound):
		writeDetail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, tasks.ErrInvalidTask),
		errors.Is(err, tasks.ErrImageCount),
		errors.Is(err, tasks.ErrMissingArgument),
		errors.Is(err, sessions.ErrUnsupportedImage),
		errors.Is(err, ErrUnknownReference):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		a.logger.Error(op+" failed", append(fields, zap.Error(err))...)
		writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("An internal server error occurred: %v", err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = encoder.NewStreamEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

// statusRecorder captures the status code for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint, ok := observedEndpoints[r.Pattern]
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		RecordRequestDuration(endpoint, strconv.Itoa(rec.status), time.Since(start).Seconds())
	})
}
