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

package generation

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/antflydb/antfly-go/libaf/ai"
	"github.com/antflydb/antfly-go/libaf/scraping"
)

// Image is a resolved input image.
type Image struct {
	// Source is what the caller passed: a path or a URL.
	Source string
	// Path is set when the image lives on the local filesystem.
	Path    string
	Content ai.BinaryContent
}

// ImageLoader resolves image references. Plain paths are read from disk;
// anything with a scheme (http, https, data, file, s3) goes through the
// scraping downloader under the configured security policy.
type ImageLoader struct {
	security *scraping.ContentSecurityConfig
}

// NewImageLoader creates a loader. A nil config selects a policy that blocks
// private addresses and caps downloads at 32MB.
func NewImageLoader(security *scraping.ContentSecurityConfig) *ImageLoader {
	if security == nil {
		security = &scraping.ContentSecurityConfig{
			BlockPrivateIps:        true,
			MaxDownloadSizeBytes:   32 << 20,
			DownloadTimeoutSeconds: 30,
		}
	}
	return &ImageLoader{security: security}
}

// Load resolves src.
func (l *ImageLoader) Load(ctx context.Context, src string) (Image, error) {
	if src == "" {
		return Image{}, fmt.Errorf("empty image reference")
	}

	if !strings.Contains(src, "://") && !strings.HasPrefix(src, "data:") {
		data, err := os.ReadFile(src)
		if err != nil {
			return Image{}, fmt.Errorf("reading image %s: %w", src, err)
		}
		abs, err := filepath.Abs(src)
		if err != nil {
			abs = src
		}
		return Image{
			Source:  src,
			Path:    abs,
			Content: ai.BinaryContent{MIMEType: http.DetectContentType(data), Data: data},
		}, nil
	}

	mimeType, data, err := scraping.DownloadContent(ctx, src, l.security, nil)
	if err != nil {
		return Image{}, fmt.Errorf("downloading image %s: %w", src, err)
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	img := Image{
		Source:  src,
		Content: ai.BinaryContent{MIMEType: mimeType, Data: data},
	}
	if path, ok := strings.CutPrefix(src, "file://"); ok {
		img.Path = path
	}
	return img, nil
}
