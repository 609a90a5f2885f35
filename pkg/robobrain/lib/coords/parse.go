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

// Package coords extracts coordinates from model answers and draws them onto
// images for inspection.
//
// Answers are Python-style literals: "[(343, 526)]", "[[10, 20, 30, 40]]".
// Parsing never fails hard; a malformed answer yields no coordinates.
package coords

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bytedance/sonic"
)

// Point is a pixel coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Box is an axis-aligned box [x1, y1, x2, y2].
type Box struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

var trailingComma = regexp.MustCompile(`,\s*\]`)

// decode turns a tuple/list literal into nested []any of float64.
func decode(answer string) ([]any, bool) {
	s := strings.TrimSpace(answer)
	if s == "" || (s[0] != '[' && s[0] != '(') {
		return nil, false
	}
	s = strings.NewReplacer("(", "[", ")", "]").Replace(s)
	s = trailingComma.ReplaceAllString(s, "]")

	var v any
	if err := sonic.UnmarshalString(s, &v); err != nil {
		return nil, false
	}
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	return list, true
}

func numbers(v any, n int) ([]float64, bool) {
	list, ok := v.([]any)
	if !ok || len(list) != n {
		return nil, false
	}
	out := make([]float64, n)
	for i, e := range list {
		f, ok := e.(float64)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// ParsePoints parses a list of (x, y) pairs. A bare pair is one point.
func ParsePoints(answer string) ([]Point, bool) {
	list, ok := decode(answer)
	if !ok {
		return nil, false
	}
	if xy, ok := numbers(list, 2); ok {
		return []Point{{X: xy[0], Y: xy[1]}}, true
	}
	points := make([]Point, 0, len(list))
	for _, e := range list {
		xy, ok := numbers(e, 2)
		if !ok {
			return nil, false
		}
		points = append(points, Point{X: xy[0], Y: xy[1]})
	}
	return points, true
}

// ParseTrajectory parses an ordered list of [x, y] waypoints.
func ParseTrajectory(answer string) ([]Point, bool) {
	return ParsePoints(answer)
}

// ParseBoxes parses a list of [x1, y1, x2, y2] boxes. A bare quad is one box.
func ParseBoxes(answer string) ([]Box, bool) {
	list, ok := decode(answer)
	if !ok {
		return nil, false
	}
	if q, ok := numbers(list, 4); ok {
		return []Box{{X1: q[0], Y1: q[1], X2: q[2], Y2: q[3]}}, true
	}
	boxes := make([]Box, 0, len(list))
	for _, e := range list {
		q, ok := numbers(e, 4)
		if !ok {
			return nil, false
		}
		boxes = append(boxes, Box{X1: q[0], Y1: q[1], X2: q[2], Y2: q[3]})
	}
	return boxes, true
}

// FirstPoint returns the primary point of a pointing answer.
func FirstPoint(answer string) (Point, bool) {
	points, ok := ParsePoints(answer)
	if !ok {
		return Point{}, false
	}
	return points[0], true
}
