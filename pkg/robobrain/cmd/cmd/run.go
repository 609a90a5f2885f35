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
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain"
	"github.com/antflydb/antfly-go/libaf/healthserver"
	"github.com/antflydb/antfly-go/libaf/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var healthPort int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the robobrain server",
	Long:  `Load the generation engine and the reference catalog, then serve /verify and /prompt.`,
	RunE:  runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Run command flags
	runCmd.Flags().IntVar(&healthPort, "health-port", 4200, "health/metrics server port")
	runCmd.Flags().String("backend", "ollama", "generation backend (ollama, gemini, ortgenai)")
	runCmd.Flags().String("model", "", "model name (ollama, gemini) or model directory (ortgenai)")
	mustBindPFlag("health_port", runCmd.Flags().Lookup("health-port"))
	mustBindPFlag("generation.backend", runCmd.Flags().Lookup("backend"))
	mustBindPFlag("generation.model", runCmd.Flags().Lookup("model"))
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Create logger from config
	logger := logging.NewLogger(&logging.Config{
		Level: logging.Level(viper.GetString("log.level")),
		Style: logging.Style(viper.GetString("log.style")),
	})
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Running as robobrain")

	geminiKey := viper.GetString("gemini.api_key")
	if geminiKey == "" {
		geminiKey = os.Getenv("GEMINI_API_KEY")
	}

	// Build robobrain config from viper/env
	cfg := robobrain.Config{
		ApiUrl:      viper.GetString("api_url"),
		DataDir:     viper.GetString("data_dir"),
		VerifiedDir: viper.GetString("verified_dir"),
		Catalog: robobrain.CatalogConfig{
			File:     viper.GetString("catalog.file"),
			CacheDir: viper.GetString("catalog.cache_dir"),
			LongEdge: viper.GetInt("catalog.long_edge"),
		},
		Generation: robobrain.GenerationConfig{
			Backend:               viper.GetString("generation.backend"),
			Model:                 viper.GetString("generation.model"),
			MaxNewTokens:          viper.GetInt("generation.max_new_tokens"),
			Temperature:           float32(viper.GetFloat64("generation.temperature")),
			SystemPrompt:          viper.GetString("generation.system_prompt"),
			OllamaHost:            viper.GetString("ollama.host"),
			GeminiAPIKey:          geminiKey,
			OrtgenaiModelPath:     viper.GetString("ortgenai.model_path"),
			OrtgenaiContextLength: viper.GetInt("ortgenai.context_length"),
		},
		MaxConcurrentRequests: viper.GetInt("queue.max_concurrent"),
		MaxQueueSize:          viper.GetInt("queue.max_queue_size"),
		RequestTimeout:        viper.GetString("queue.request_timeout"),
		CacheTTL:              viper.GetString("cache.ttl"),
	}

	// Track readiness state
	ready := &atomic.Bool{}
	ready.Store(false)
	readyC := make(chan struct{})

	// Start health server with readiness checker
	healthserver.Start(logger, viper.GetInt("health_port"), ready.Load)

	// Wait for ready signal in background
	go func() {
		<-readyC
		ready.Store(true)
		logger.Info("RoboBrain is ready")
	}()

	robobrain.RunAsRobobrain(ctx, logger, cfg, readyC)
	return nil
}
