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

package cmd

import (
	"fmt"
	"time"

	"github.com/Nazha13/Robo-RAG-Setup/pkg/client"
	"github.com/Nazha13/Robo-RAG-Setup/pkg/client/oapi"
	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/coords"
	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/tasks"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var inferCmd = &cobra.Command{
	Use:   "infer",
	Short: "Run one structured task against a verified image",
	Long: `Send a task to /api/infer for an image that has already been verified.
When --image points at a local copy of the verified image, the answer's
points, boxes or trajectory are drawn onto it.

Examples:
  robobrain infer --image-id 3f1c... --task affordance --text "open the drawer"
  robobrain infer --image-id 3f1c... --task pointing_within_box --text "the red button" --bbox 10,20,200,220
  robobrain infer --image-id 3f1c... --task grounding --text "kettle" --image kettle.jpg --deterministic`,
	RunE: runInfer,
}

func init() {
	rootCmd.AddCommand(inferCmd)

	inferCmd.Flags().String("image-id", "", "identifier returned by verification (required)")
	inferCmd.Flags().String("task", string(tasks.General), "task name")
	inferCmd.Flags().String("text", "", "task instruction")
	inferCmd.Flags().Float64Slice("bbox", nil, "bounding box x1,y1,x2,y2 for pointing_within_box")
	inferCmd.Flags().String("reference", "", "catalog keyword whose reference image is appended")
	inferCmd.Flags().Bool("thinking", false, "ask the model to reason before answering")
	inferCmd.Flags().Bool("deterministic", false, "disable sampling")
	inferCmd.Flags().String("image", "", "local copy of the verified image to annotate")
	inferCmd.Flags().String("out", "", "annotated output path (default <image>_annotated<ext>)")
	inferCmd.Flags().Duration("timeout", 10*time.Minute, "overall request timeout")
	_ = inferCmd.MarkFlagRequired("image-id")
}

func runInfer(cmd *cobra.Command, args []string) error {
	imageID, _ := cmd.Flags().GetString("image-id")
	taskName, _ := cmd.Flags().GetString("task")
	text, _ := cmd.Flags().GetString("text")
	bbox, _ := cmd.Flags().GetFloat64Slice("bbox")
	reference, _ := cmd.Flags().GetString("reference")
	imagePath, _ := cmd.Flags().GetString("image")
	outPath, _ := cmd.Flags().GetString("out")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	out := cmd.OutOrStdout()

	task, err := tasks.Parse(taskName)
	if err != nil {
		return err
	}
	req := oapi.InferenceRequest{
		ImageId: imageID,
		Task:    oapi.TaskName(task),
	}
	if text != "" {
		req.Text = &text
	}
	if reference != "" {
		req.Reference = &reference
	}
	if len(bbox) > 0 {
		if len(bbox) != 4 {
			return fmt.Errorf("--bbox needs 4 values, got %d", len(bbox))
		}
		req.Bbox = &bbox
	}
	if cmd.Flags().Changed("thinking") {
		thinking, _ := cmd.Flags().GetBool("thinking")
		req.EnableThinking = &thinking
	}
	if deterministic, _ := cmd.Flags().GetBool("deterministic"); deterministic {
		doSample := false
		req.DoSample = &doSample
	}

	c, err := client.NewRobobrainClient(viper.GetString("api_url"), nil)
	if err != nil {
		return err
	}
	ctx, cancel := contextWithTimeout(cmd, timeout)
	defer cancel()

	res, err := c.Infer(ctx, req)
	if err != nil {
		return err
	}
	if res.Thinking != "" {
		_, _ = fmt.Fprintf(out, "Thinking: %s\n", res.Thinking)
	}
	_, _ = fmt.Fprintf(out, "Answer: %s\n", res.Answer)
	if res.Cached {
		_, _ = fmt.Fprintln(out, "(cached)")
	}

	if imagePath == "" {
		return nil
	}
	overlay := coords.OverlayFor(coords.ShapeOf(task), res.Answer)
	if overlay.Empty() {
		_, _ = fmt.Fprintln(out, "No coordinates in answer, nothing drawn")
		return nil
	}
	saved, err := coords.Annotate(imagePath, outPath, overlay)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Saved %s\n", saved)
	return nil
}
