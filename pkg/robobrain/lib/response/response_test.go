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

package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		thinking bool
		want     Result
	}{
		{
			name:     "thinking with answer",
			raw:      "<think>reasoning</think><answer>42</answer>",
			thinking: true,
			want:     Result{Thinking: "reasoning", Answer: "42"},
		},
		{
			name:     "thinking prefix already in prompt",
			raw:      "the kettle is on the left\n</think>\n<answer>[(343, 526)]</answer>",
			thinking: true,
			want:     Result{Thinking: "the kettle is on the left", Answer: "[(343, 526)]"},
		},
		{
			name:     "missing closing marker promotes thinking",
			raw:      "<think>the answer is same",
			thinking: true,
			want:     Result{Thinking: "the answer is same", Answer: "the answer is same"},
		},
		{
			name:     "empty answer segment promotes thinking",
			raw:      "<think>same</think><answer></answer>",
			thinking: true,
			want:     Result{Thinking: "same", Answer: "same"},
		},
		{
			name:     "only the first answer segment is kept",
			raw:      "a</think>b</think>c",
			thinking: true,
			want:     Result{Thinking: "a", Answer: "b"},
		},
		{
			name:     "thinking disabled",
			raw:      "same</answer>",
			thinking: false,
			want:     Result{Answer: "same"},
		},
		{
			name:     "thinking disabled with both markers",
			raw:      " <answer> different </answer>\n",
			thinking: false,
			want:     Result{Answer: "different"},
		},
		{
			name:     "thinking disabled strips echoed reasoning markers",
			raw:      "<think></think><answer>same</answer>",
			thinking: false,
			want:     Result{Answer: "same"},
		},
		{
			name:     "empty output",
			raw:      "",
			thinking: true,
			want:     Result{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.raw, tt.thinking))
		})
	}
}

func TestSplit_ThinkingDisabledNeverFillsThinking(t *testing.T) {
	res := Split("<think>x</think>y", false)
	assert.Empty(t, res.Thinking)
	assert.Equal(t, "xy", res.Answer)
}
