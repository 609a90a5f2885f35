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

// Package response separates the reasoning span of a generation from its answer.
package response

import "strings"

// Delimiters emitted by the model around its reasoning and answer spans.
const (
	ThinkOpen   = "<think>"
	ThinkClose  = "</think>"
	AnswerOpen  = "<answer>"
	AnswerClose = "</answer>"
)

// Result is the parsed output of one generation.
type Result struct {
	Thinking string `json:"thinking"`
	Answer   string `json:"answer"`
}

// Split parses raw model output.
//
// With thinking enabled the text before the first ThinkClose is the reasoning
// and the text between the first and second ThinkClose is the answer. With
// thinking disabled the whole output is the answer, with any stray reasoning
// markers removed. Whenever the answer comes
// out empty but reasoning is present, the reasoning is promoted to the answer;
// models sometimes never close the reasoning span.
func Split(raw string, enableThinking bool) Result {
	var res Result
	if enableThinking {
		parts := strings.Split(raw, ThinkClose)
		res.Thinking = strings.TrimSpace(strings.ReplaceAll(parts[0], ThinkOpen, ""))
		if len(parts) > 1 {
			res.Answer = stripAnswerMarkers(parts[1])
		}
	} else {
		raw = strings.ReplaceAll(raw, ThinkOpen, "")
		raw = strings.ReplaceAll(raw, ThinkClose, "")
		res.Answer = stripAnswerMarkers(raw)
	}

	if res.Answer == "" && res.Thinking != "" {
		res.Answer = res.Thinking
	}
	return res
}

func stripAnswerMarkers(s string) string {
	s = strings.ReplaceAll(s, AnswerOpen, "")
	s = strings.ReplaceAll(s, AnswerClose, "")
	return strings.TrimSpace(s)
}
