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

package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// DefaultLongEdge is the serving size of reference images.
const DefaultLongEdge = 480

// EnrollLongEdge is the size used when preparing a new reference image.
const EnrollLongEdge = 512

// Manifest is the on-disk catalog description.
//
//	long_edge: 480
//	entries:
//	  - keyword: kettle
//	    image: dataset/kettle.png
type Manifest struct {
	LongEdge int             `yaml:"long_edge,omitempty"`
	Entries  []ManifestEntry `yaml:"entries"`
}

// ManifestEntry is one keyword line of a manifest.
type ManifestEntry struct {
	Keyword string `yaml:"keyword"`
	Image   string `yaml:"image"`
}

// LoadManifest parses a YAML manifest. Relative image paths are resolved
// against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing catalog manifest %s: %w", path, err)
	}
	base := filepath.Dir(path)
	for i, e := range m.Entries {
		if e.Image == "" {
			return nil, fmt.Errorf("catalog entry %q has no image", e.Keyword)
		}
		if !filepath.IsAbs(e.Image) {
			m.Entries[i].Image = filepath.Join(base, e.Image)
		}
	}
	return &m, nil
}

// Config controls Load.
type Config struct {
	// ManifestFile is the YAML manifest. Empty yields an empty catalog.
	ManifestFile string
	// CacheDir receives the normalized images. Defaults to a
	// "reference" directory next to the manifest.
	CacheDir string
	// LongEdge overrides the manifest's long edge.
	LongEdge int
}

// Load reads the manifest and normalizes every reference image once. It runs
// at startup; the returned catalog is immutable.
func Load(ctx context.Context, config Config, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.ManifestFile == "" {
		logger.Info("No catalog manifest configured, reference matching disabled")
		return Empty(), nil
	}

	m, err := LoadManifest(config.ManifestFile)
	if err != nil {
		return nil, err
	}

	longEdge := config.LongEdge
	if longEdge <= 0 {
		longEdge = m.LongEdge
	}
	if longEdge <= 0 {
		longEdge = DefaultLongEdge
	}
	cacheDir := config.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(filepath.Dir(config.ManifestFile), "reference")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog cache dir: %w", err)
	}

	entries := make([]Entry, len(m.Entries))
	for i, e := range m.Entries {
		entries[i] = Entry{
			Keyword:    e.Keyword,
			SourcePath: e.Image,
			ImagePath:  filepath.Join(cacheDir, cacheName(e.Keyword, longEdge)),
		}
	}
	// Validate keywords before touching any image.
	if _, err := New(entries); err != nil {
		return nil, err
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if fresh(e.SourcePath, e.ImagePath) {
				return nil
			}
			if err := Normalize(e.SourcePath, e.ImagePath, longEdge); err != nil {
				return fmt.Errorf("normalizing reference %q: %w", e.Keyword, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c, err := New(entries)
	if err != nil {
		return nil, err
	}
	logger.Info("Reference catalog loaded",
		zap.String("manifest", config.ManifestFile),
		zap.Int("entries", c.Len()),
		zap.Int("long_edge", longEdge),
		zap.Duration("duration", time.Since(start)))
	return c, nil
}

// fresh reports whether dst exists and is not older than src.
func fresh(src, dst string) bool {
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return false
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false
	}
	return !dstInfo.ModTime().Before(srcInfo.ModTime())
}

// cacheName is unique per keyword: the slug keeps it readable, the hash
// separates keywords that slug alike ("on/off button", "on off button").
func cacheName(keyword string, longEdge int) string {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	return fmt.Sprintf("%s_%08x_%d.png", slug(kw), uint32(xxhash.Sum64String(kw)), longEdge)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(keyword string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(keyword), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "reference"
	}
	return s
}
