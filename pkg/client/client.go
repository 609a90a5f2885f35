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

//go:generate go tool oapi-codegen --config=cfg.yaml ../robobrain/openapi.yaml

// Package client provides a Go SDK for the RoboBrain API.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/Nazha13/Robo-RAG-Setup/pkg/client/oapi"
	"github.com/bytedance/sonic"
)

var (
	// ErrVerificationFailed is returned when the server rejected the claimed
	// object identity.
	ErrVerificationFailed = errors.New("verification failed")

	// ErrImageNotFound is returned when an image id was never verified.
	ErrImageNotFound = errors.New("image not found")
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("robobrain: status %d: %s", e.StatusCode, e.Detail)
}

// RobobrainClient is a client for interacting with the RoboBrain API.
type RobobrainClient struct {
	client  *oapi.ClientWithResponses
	baseURL string
}

// NewRobobrainClient creates a new client.
// The baseURL should be the server address (e.g., "http://localhost:8000").
func NewRobobrainClient(baseURL string, httpClient *http.Client) (*RobobrainClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	var opts []oapi.ClientOption
	if httpClient != nil {
		opts = append(opts, oapi.WithHTTPClient(httpClient))
	}

	client, err := oapi.NewClientWithResponses(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &RobobrainClient{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Client returns the underlying oapi-codegen client for direct API access.
func (c *RobobrainClient) Client() *oapi.ClientWithResponses {
	return c.client
}

// Verify uploads an image claimed to show objectID and returns the new
// image id. A rejected claim returns ErrVerificationFailed.
func (c *RobobrainClient) Verify(ctx context.Context, objectID, filename string, image io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("object_id", objectID); err != nil {
		return "", fmt.Errorf("building form: %w", err)
	}
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("building form: %w", err)
	}
	if _, err := io.Copy(fw, image); err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("building form: %w", err)
	}

	resp, err := c.client.VerifyImageWithBodyWithResponse(ctx, mw.FormDataContentType(), &body)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	if resp.JSON404 != nil {
		return "", fmt.Errorf("%w: %s", ErrVerificationFailed, resp.JSON404.Detail)
	}
	if resp.JSON200 == nil {
		return "", newAPIError(resp.StatusCode(), resp.Body)
	}
	return resp.JSON200.ImageId, nil
}

// Prompt asks a pointing question about a verified image.
func (c *RobobrainClient) Prompt(ctx context.Context, imageID, prompt string) (*oapi.PromptResponse, error) {
	resp, err := c.client.PromptImageWithFormdataBodyWithResponse(ctx, oapi.PromptForm{
		ImageId: imageID,
		Prompt:  prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	if resp.JSON404 != nil {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, resp.JSON404.Detail)
	}
	if resp.JSON200 == nil {
		return nil, newAPIError(resp.StatusCode(), resp.Body)
	}
	return resp.JSON200, nil
}

// Infer runs any task against a verified image.
func (c *RobobrainClient) Infer(ctx context.Context, req oapi.InferenceRequest) (*oapi.InferenceResponse, error) {
	resp, err := c.client.RunInferenceWithResponse(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	if resp.JSON404 != nil {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, resp.JSON404.Detail)
	}
	if resp.JSON200 == nil {
		return nil, newAPIError(resp.StatusCode(), resp.Body)
	}
	return resp.JSON200, nil
}

// Image reports whether imageID is verified and how it is stored.
func (c *RobobrainClient) Image(ctx context.Context, imageID string) (*oapi.ImageInfo, error) {
	resp, err := c.client.GetImageWithResponse(ctx, imageID)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	if resp.JSON404 != nil {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, resp.JSON404.Detail)
	}
	if resp.JSON200 == nil {
		return nil, newAPIError(resp.StatusCode(), resp.Body)
	}
	return resp.JSON200, nil
}

// Catalog lists the server's reference keywords.
func (c *RobobrainClient) Catalog(ctx context.Context) ([]string, error) {
	resp, err := c.client.ListCatalogWithResponse(ctx)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	if resp.JSON200 == nil {
		return nil, newAPIError(resp.StatusCode(), resp.Body)
	}
	return resp.JSON200.Keywords, nil
}

// newAPIError prefers the server's detail field over the raw body.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Detail: strings.TrimSpace(string(body))}
	var detail oapi.ErrorResponse
	if sonic.Unmarshal(body, &detail) == nil && detail.Detail != "" {
		apiErr.Detail = detail.Detail
	}
	return apiErr
}
