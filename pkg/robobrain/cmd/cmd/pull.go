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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/models"
	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newPuller is swapped in tests to avoid the network.
var newPuller = models.NewPuller

var pullCmd = &cobra.Command{
	Use:   "pull <hf-repo> [hf-repo...]",
	Short: "Pull an onnxruntime-genai model from HuggingFace",
	Long: `Download an onnxruntime-genai model for the ortgenai backend.

Only the files of one variant are fetched: the directory holding
genai_config.json plus its ONNX weights, tokenizer and processor configs.
Without --variant the smallest CPU variant is chosen. Models land in
<models-dir>/<owner>/<name>/.

Examples:
  # Pull the smallest CPU variant
  robobrain pull onnxruntime/Qwen2.5-VL-3B-Instruct-ONNX

  # Pull a specific variant of a gated repo
  robobrain pull hf:BAAI/RoboBrain2.0-3B-ONNX --variant cpu-int4 --hf-token hf_...

  # Serve what was pulled
  robobrain run --backend ortgenai --model ~/.robobrain/models/BAAI/RoboBrain2.0-3B-ONNX`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPull,
}

func init() {
	rootCmd.AddCommand(pullCmd)

	pullCmd.Flags().String("models-dir", "", "where models are stored (default <data_dir>/models)")
	pullCmd.Flags().String("variant", "", "variant directory to pull, e.g. cpu-int4 (default: smallest CPU variant)")
	pullCmd.Flags().String("hf-token", "", "HuggingFace API token for gated models (or use HF_TOKEN env var)")
}

func runPull(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	modelsDir, _ := cmd.Flags().GetString("models-dir")
	variant, _ := cmd.Flags().GetString("variant")
	token, _ := cmd.Flags().GetString("hf-token")
	if modelsDir == "" {
		modelsDir = paths.DefaultModelsDir(viper.GetString("data_dir"))
	}
	if token == "" {
		token = os.Getenv("HF_TOKEN")
	}

	for _, ref := range args {
		if _, _, err := models.ParseRepoID(ref); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	puller := newPuller(
		models.WithToken(token),
		models.WithProgressHandler(func(downloaded, total int64, filename string) {
			if total > 0 {
				_, _ = fmt.Fprintf(out, "  %s (%s)\n", filename, formatBytes(total))
			}
		}),
	)
	for _, ref := range args {
		_, _ = fmt.Fprintf(out, "Pulling %s from HuggingFace\n", ref)
		dir, err := puller.Pull(ctx, ref, modelsDir, variant)
		if err != nil {
			return fmt.Errorf("failed to pull %s: %w", ref, err)
		}
		_, _ = fmt.Fprintf(out, "Model pulled to %s\n", dir)
		_, _ = fmt.Fprintf(out, "Serve it with: robobrain run --backend ortgenai --model %s\n", dir)
	}
	return nil
}

// formatBytes formats a size as a human-readable string.
func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
