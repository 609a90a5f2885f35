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

package coords

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/tasks"
)

// MarkFirstPoint extracts the first point of answer and saves a copy of the
// base image with a marker on it as <outDir>/result_<unix>_<imageID>.png.
// It returns ok=false without error when the answer holds no coordinates.
func MarkFirstPoint(answer, baseImage, outDir, imageID string, now time.Time) (path string, point Point, ok bool, err error) {
	point, ok = FirstPoint(answer)
	if !ok {
		return "", Point{}, false, nil
	}
	img, err := LoadImage(baseImage)
	if err != nil {
		return "", point, true, err
	}
	DrawPoints(img, []Point{point}, MarkerStyle)

	path = filepath.Join(outDir, ResultName(imageID, now))
	if err := Save(img, path); err != nil {
		return "", point, true, fmt.Errorf("saving annotated image: %w", err)
	}
	return path, point, true, nil
}

// ResultName is the timestamped file name of an annotated result.
func ResultName(imageID string, now time.Time) string {
	return fmt.Sprintf("result_%d_%s.png", now.Unix(), imageID)
}

// Overlay holds every shape to draw on one image.
type Overlay struct {
	Points       []Point
	Boxes        []Box
	Trajectories [][]Point
}

// Empty reports whether there is nothing to draw.
func (o Overlay) Empty() bool {
	return len(o.Points) == 0 && len(o.Boxes) == 0 && len(o.Trajectories) == 0
}

// Annotate draws the overlay on a copy of imagePath. An empty outPath
// selects AnnotatedPath(imagePath).
func Annotate(imagePath, outPath string, overlay Overlay) (string, error) {
	img, err := LoadImage(imagePath)
	if err != nil {
		return "", err
	}
	DrawPoints(img, overlay.Points, PointStyle)
	DrawBoxes(img, overlay.Boxes, BoxStyle)
	for _, tr := range overlay.Trajectories {
		DrawTrajectory(img, tr, TrajectoryStyle)
	}
	if outPath == "" {
		outPath = AnnotatedPath(imagePath)
	}
	if err := Save(img, outPath); err != nil {
		return "", fmt.Errorf("saving annotated image: %w", err)
	}
	return outPath, nil
}

// AnnotatedPath returns <name>_annotated<ext> next to path.
func AnnotatedPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_annotated" + ext
}

// OverlayFor parses answer in the shape the task produces. Unknown shapes
// yield an empty overlay.
func OverlayFor(shape Shape, answer string) Overlay {
	var o Overlay
	switch shape {
	case ShapePoints:
		o.Points, _ = ParsePoints(answer)
	case ShapeBoxes:
		o.Boxes, _ = ParseBoxes(answer)
	case ShapeTrajectory:
		if tr, ok := ParseTrajectory(answer); ok {
			o.Trajectories = [][]Point{tr}
		}
	}
	return o
}

// Shape is the structure of an answer.
type Shape int

const (
	ShapeNone Shape = iota
	ShapePoints
	ShapeBoxes
	ShapeTrajectory
)

// ShapeOf maps a task name to the answer shape it produces.
func ShapeOf(task tasks.Task) Shape {
	switch task {
	case tasks.Pointing, tasks.PointingWithinBox, tasks.PointingBasedOnReference:
		return ShapePoints
	case tasks.Affordance, tasks.Grounding:
		return ShapeBoxes
	case tasks.Trajectory:
		return ShapeTrajectory
	}
	return ShapeNone
}
