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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Nazha13/Robo-RAG-Setup/pkg/client"
	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/coords"
	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var tryCmd = &cobra.Command{
	Use:   "try",
	Short: "Verify an image and ask one pointing question against a running server",
	Long: `Run the client side of the workflow: upload an image claimed to show an
object, and on success ask a pointing question about it. When the answer holds
coordinates the first point is marked on a copy of the image.

Examples:
  robobrain try --image kettle.jpg --object kettle --prompt "press the kettle button"
  robobrain try --image desk.png --object "black power bank" --prompt "point at the charging port" --results-dir out`,
	RunE: runTry,
}

func init() {
	rootCmd.AddCommand(tryCmd)

	tryCmd.Flags().String("image", "", "image to verify (required)")
	tryCmd.Flags().String("object", "", "object the image is claimed to show (required)")
	tryCmd.Flags().String("prompt", "", "pointing question to ask after verification (required)")
	tryCmd.Flags().String("results-dir", paths.DefaultResultsDir(), "where annotated results are written")
	tryCmd.Flags().Duration("timeout", 10*time.Minute, "overall request timeout")
	_ = tryCmd.MarkFlagRequired("image")
	_ = tryCmd.MarkFlagRequired("object")
	_ = tryCmd.MarkFlagRequired("prompt")
}

func runTry(cmd *cobra.Command, args []string) error {
	imagePath, _ := cmd.Flags().GetString("image")
	objectID, _ := cmd.Flags().GetString("object")
	prompt, _ := cmd.Flags().GetString("prompt")
	resultsDir, _ := cmd.Flags().GetString("results-dir")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	out := cmd.OutOrStdout()

	c, err := client.NewRobobrainClient(viper.GetString("api_url"), nil)
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout(cmd, timeout)
	defer cancel()

	f, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}
	defer func() { _ = f.Close() }()

	imageID, err := c.Verify(ctx, objectID, filepath.Base(imagePath), f)
	if errors.Is(err, client.ErrVerificationFailed) {
		_, _ = fmt.Fprintf(out, "Verification failed: %v\n", err)
		return err
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Verified %q as %s\n", objectID, imageID)

	res, err := c.Prompt(ctx, imageID, prompt)
	if err != nil {
		return err
	}
	if res.Thinking != "" {
		_, _ = fmt.Fprintf(out, "Thinking: %s\n", res.Thinking)
	}
	_, _ = fmt.Fprintf(out, "Answer: %s\n", res.Answer)

	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}
	saved, point, ok, err := coords.MarkFirstPoint(res.Answer, imagePath, resultsDir, imageID, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		_, _ = fmt.Fprintln(out, "No coordinates in answer, nothing drawn")
		return nil
	}
	_, _ = fmt.Fprintf(out, "Marked %s, saved %s\n", point, saved)
	return nil
}
