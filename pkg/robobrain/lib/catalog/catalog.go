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

// Package catalog holds the curated reference images used for
// retrieval-augmented verification and pointing.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateKeyword is returned when two entries share a keyword after lowercasing.
	ErrDuplicateKeyword = errors.New("duplicate catalog keyword")

	// ErrEmptyKeyword is returned for an entry without keyword.
	ErrEmptyKeyword = errors.New("empty catalog keyword")
)

// Entry maps a lowercase keyword to a pre-resized reference image.
type Entry struct {
	Keyword string `json:"keyword"`
	// ImagePath is the normalized reference image handed to the model.
	ImagePath string `json:"image_path"`
	// SourcePath is the image as listed in the manifest.
	SourcePath string `json:"source_path,omitempty"`
}

// Catalog is an ordered, immutable keyword table. Insertion order decides
// which keyword wins a substring match.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// New builds a catalog from entries in order. Keywords are lowercased.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		kw := strings.ToLower(strings.TrimSpace(e.Keyword))
		if kw == "" {
			return nil, fmt.Errorf("%w (image %s)", ErrEmptyKeyword, e.ImagePath)
		}
		if _, dup := c.index[kw]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKeyword, kw)
		}
		e.Keyword = kw
		c.index[kw] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// Empty returns a catalog without entries; every match misses.
func Empty() *Catalog {
	c, _ := New(nil)
	return c
}

// MatchExact looks objectID up by equality after lowercasing. Used when
// verifying a claimed object identity.
func (c *Catalog) MatchExact(objectID string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	i, ok := c.index[strings.ToLower(objectID)]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// MatchSubstring returns the first keyword, in insertion order, contained in
// the lowercased text. The first hit wins, not the longest.
func (c *Catalog) MatchSubstring(text string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	lower := strings.ToLower(text)
	for _, e := range c.entries {
		if strings.Contains(lower, e.Keyword) {
			return e, true
		}
	}
	return Entry{}, false
}

// Lookup resolves a keyword as given (case-insensitive).
func (c *Catalog) Lookup(keyword string) (Entry, bool) {
	return c.MatchExact(strings.TrimSpace(keyword))
}

// Entries returns a copy of the entries in insertion order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Keywords returns the keywords in insertion order.
func (c *Catalog) Keywords() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Keyword
	}
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
