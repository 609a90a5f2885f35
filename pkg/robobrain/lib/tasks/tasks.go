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

// Package tasks compiles a logical task name and a free-text instruction into
// the prompt the vision-language model was tuned against.
package tasks

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidTask is returned for a task name outside the supported set.
	ErrInvalidTask = errors.New("invalid task")

	// ErrImageCount is returned when the number of images does not match the
	// cardinality the task requires.
	ErrImageCount = errors.New("wrong number of images for task")

	// ErrMissingArgument is returned when a task needs an argument the caller
	// did not supply (the bounding box of pointing_within_box).
	ErrMissingArgument = errors.New("missing task argument")
)

// Task is one of the structured tasks the model supports.
type Task string

const (
	General                  Task = "general"
	Pointing                 Task = "pointing"
	Affordance               Task = "affordance"
	Trajectory               Task = "trajectory"
	Grounding                Task = "grounding"
	Verify                   Task = "verify"
	Object                   Task = "object"
	PointingWithinBox        Task = "pointing_within_box"
	PointingBasedOnReference Task = "pointing_based_on_reference"
	VerifyBasedOnReference   Task = "verify_based_on_reference"
)

// Cardinality is the image-count rule attached to a task.
type Cardinality int

const (
	// AnyImages accepts one or more images.
	AnyImages Cardinality = iota
	// SingleImage requires exactly one image.
	SingleImage
	// TwoImages requires exactly two images: subject first, reference second.
	TwoImages
)

func (c Cardinality) String() string {
	switch c {
	case SingleImage:
		return "exactly 1"
	case TwoImages:
		return "exactly 2"
	default:
		return "at least 1"
	}
}

// Options carries the keyword arguments some templates need.
type Options struct {
	// BBox restricts pointing_within_box to a region.
	BBox *BBox
}

// BBox is an axis-aligned box [x1, y1, x2, y2] in image pixels.
type BBox [4]float64

// String renders the box the way the model saw it during tuning: "[x1, y1, x2, y2]".
func (b BBox) String() string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type template func(text string, opts Options) (string, error)

type definition struct {
	cardinality Cardinality
	render      template
}

// order is the canonical listing order used in error messages and by All.
var order = []Task{
	General,
	Pointing,
	Affordance,
	Trajectory,
	Grounding,
	Verify,
	Object,
	PointingWithinBox,
	PointingBasedOnReference,
	VerifyBasedOnReference,
}

const pointListFormat = "Your answer should be formatted as a list of tuples, i.e. [(x1, y1), (x2, y2), ...]."

var definitions = map[Task]definition{
	General: {AnyImages, passThrough},
	Object:  {SingleImage, passThrough},
	Pointing: {AnyImages, func(text string, _ Options) (string, error) {
		return fmt.Sprintf("%s. %s", text, pointListFormat), nil
	}},
	PointingBasedOnReference: {TwoImages, func(text string, _ Options) (string, error) {
		return fmt.Sprintf("The second image is the image of the feature you need to detect, "+
			"using the second image as reference do the following task : %s in the first image. %s",
			text, pointListFormat), nil
	}},
	Verify: {AnyImages, func(text string, _ Options) (string, error) {
		return fmt.Sprintf("Please identify the object in the image. Compare the identified object "+
			"with the object from the prompt: %s. Your answer should be 'same' or 'different'.", text), nil
	}},
	VerifyBasedOnReference: {TwoImages, func(string, Options) (string, error) {
		return "Is the object in the first image the same as the object in the second image? " +
			"Answer 'same' or 'different'.", nil
	}},
	PointingWithinBox: {SingleImage, func(text string, opts Options) (string, error) {
		if opts.BBox == nil {
			return "", fmt.Errorf("%w: %s requires a bounding box", ErrMissingArgument, PointingWithinBox)
		}
		return fmt.Sprintf("Within the bounding box %s, find the feature described as: '%s'. %s",
			opts.BBox, text, pointListFormat), nil
	}},
	Affordance: {SingleImage, func(text string, _ Options) (string, error) {
		return fmt.Sprintf("You are a robot using the joint control. The task is \"%s\". "+
			"Please predict a possible affordance area of the end effector. "+
			"Your answer MUST be only a bounding box in the format [x1, y1, x2, y2].", text), nil
	}},
	Trajectory: {SingleImage, func(text string, _ Options) (string, error) {
		return fmt.Sprintf("You are a robot using the joint control. The task is \"%s\". "+
			"Please predict up to 10 key trajectory points to complete the task. "+
			"Your answer should be formatted as a list of tuples, i.e. [[x1, y1], [x2, y2], ...].", text), nil
	}},
	Grounding: {SingleImage, func(text string, _ Options) (string, error) {
		return fmt.Sprintf("Provide a bounding box for the area of the object identified as '%s'. "+
			"Your answer MUST be formatted as a list of bounding boxes in the format [[x1, y1, x2, y2], ...].", text), nil
	}},
}

func passThrough(text string, _ Options) (string, error) { return text, nil }

func init() {
	if len(definitions) != len(order) {
		panic(fmt.Sprintf("tasks: %d definitions for %d tasks", len(definitions), len(order)))
	}
	for _, t := range order {
		if _, ok := definitions[t]; !ok {
			panic("tasks: no definition for " + string(t))
		}
	}
}

// All returns every supported task in canonical order.
func All() []Task {
	out := make([]Task, len(order))
	copy(out, order)
	return out
}

// Parse resolves a task name.
func Parse(name string) (Task, error) {
	t := Task(name)
	if _, ok := definitions[t]; !ok {
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrInvalidTask, name, supported())
	}
	return t, nil
}

func supported() string {
	names := make([]string, len(order))
	for i, t := range order {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// Valid reports whether t is a supported task.
func (t Task) Valid() bool {
	_, ok := definitions[t]
	return ok
}

// Cardinality returns the image-count rule of the task.
func (t Task) Cardinality() Cardinality {
	return definitions[t].cardinality
}

// UsesReference reports whether the task expects a reference image in second position.
func (t Task) UsesReference() bool {
	return t.Cardinality() == TwoImages
}

// CheckImageCount validates n against the task's cardinality.
func (t Task) CheckImageCount(n int) error {
	def, ok := definitions[t]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidTask, string(t))
	}
	switch def.cardinality {
	case SingleImage:
		if n == 1 {
			return nil
		}
	case TwoImages:
		if n == 2 {
			return nil
		}
	default:
		if n >= 1 {
			return nil
		}
	}
	return fmt.Errorf("%w: task %q requires %s image(s), got %d", ErrImageCount, string(t), def.cardinality, n)
}

// Compile renders the prompt for t. It is a pure function of its inputs.
func Compile(t Task, text string, opts Options) (string, error) {
	def, ok := definitions[t]
	if !ok {
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrInvalidTask, string(t), supported())
	}
	return def.render(text, opts)
}

// CompileFor checks the image count and then compiles. Handlers use this so a
// cardinality mistake is rejected before any generation is attempted.
func CompileFor(t Task, text string, imageCount int, opts Options) (string, error) {
	if err := t.CheckImageCount(imageCount); err != nil {
		return "", err
	}
	return Compile(t, text, opts)
}
