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

import "strings"

// ChatTemplate turns a task prompt into the model's raw input. imageTags holds
// one placeholder per image, in order.
type ChatTemplate interface {
	Render(prompt string, imageTags []string, enableThinking bool) string
}

// QwenVisionTag is the per-image placeholder the Qwen2.5-VL processor expands
// into patch embeddings.
const QwenVisionTag = "<|vision_start|><|image_pad|><|vision_end|>"

// ImageTags returns the placeholders engine expects for n images.
func ImageTags(engine Engine, n int) []string {
	tags := make([]string, n)
	tagger, ok := engine.(ImageTagger)
	for i := range tags {
		if ok {
			tags[i] = tagger.ImageTag(i)
		} else {
			tags[i] = QwenVisionTag
		}
	}
	return tags
}

// Generation prefixes that force the model to begin inside the expected segment.
const (
	ThinkingPrefix = "<think>"
	AnswerPrefix   = "<think></think><answer>"
)

// QwenVLTemplate is the chat template of the Qwen2.5-VL family RoboBrain is
// built on: one user turn holding every image followed by the text.
type QwenVLTemplate struct {
	// System overrides the default system turn.
	System string
}

const defaultSystemPrompt = "You are a helpful assistant."

func (t QwenVLTemplate) Render(prompt string, imageTags []string, enableThinking bool) string {
	system := t.System
	if system == "" {
		system = defaultSystemPrompt
	}

	var b strings.Builder
	b.WriteString("<|im_start|>system\n")
	b.WriteString(system)
	b.WriteString("<|im_end|>\n<|im_start|>user\n")
	for _, tag := range imageTags {
		b.WriteString(tag)
	}
	b.WriteString(prompt)
	b.WriteString("<|im_end|>\n<|im_start|>assistant\n")
	b.WriteString(GenerationPrefix(enableThinking))
	return b.String()
}

// GenerationPrefix returns the marker appended after the template.
func GenerationPrefix(enableThinking bool) string {
	if enableThinking {
		return ThinkingPrefix
	}
	return AnswerPrefix
}
