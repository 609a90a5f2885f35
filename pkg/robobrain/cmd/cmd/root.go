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
	"os"
	"strings"

	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/catalog"
	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/generation"
	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/paths"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "robobrain",
	Short: "Run the RoboBrain verify-then-prompt server",
	Long: `Serve a vision-language model behind a two-step workflow: clients first
verify that an image shows a claimed object, then ask pointing questions about
the verified image. Known objects are matched against a reference catalog.

Examples:
  # Run the server against a local Ollama model
  robobrain run --model robobrain2.0-7b

  # Verify an image and point at something in it
  robobrain try --image kettle.jpg --object kettle --prompt "press the kettle button"

  # Normalize a reference image before adding it to the catalog
  robobrain catalog resize timer.jpg --size 512`,
	// Default behavior when no subcommand is provided: run the server
	RunE: runServer,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = Version
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file path (e.g. robobrain.yaml)")
	rootCmd.PersistentFlags().
		String("log-level", "info", "set the logging level (e.g. debug, info, warn, error)")
	rootCmd.PersistentFlags().
		String("log-style", "terminal", "set the logging output style (terminal, json, noop); defaults to json in Kubernetes")
	rootCmd.PersistentFlags().
		String("api-url", "http://localhost:8000", "address the server listens on and clients connect to")
	rootCmd.PersistentFlags().
		String("catalog", "", "reference catalog manifest (YAML)")

	// Bind to viper
	mustBindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	mustBindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	mustBindPFlag("log.style", rootCmd.PersistentFlags().Lookup("log-style"))
	mustBindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	mustBindPFlag("catalog.file", rootCmd.PersistentFlags().Lookup("catalog"))

	// Default values
	viper.SetDefault("api_url", "http://localhost:8000")
	viper.SetDefault("health_port", 4200)
	viper.SetDefault("data_dir", paths.DefaultDataDir())
	viper.SetDefault("catalog.long_edge", catalog.DefaultLongEdge)
	viper.SetDefault("generation.backend", "ollama")
	viper.SetDefault("generation.max_new_tokens", generation.DefaultMaxNewTokens)
	viper.SetDefault("generation.temperature", generation.DefaultSampling().Temperature)
	viper.SetDefault("ollama.host", generation.DefaultOllamaHost)
	viper.SetDefault("queue.max_concurrent", 1)
	viper.SetDefault("cache.ttl", "5m")
	viper.SetDefault("log.level", "info")
	// Default to JSON logging in Kubernetes for structured log aggregation
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		viper.SetDefault("log.style", "json")
	} else {
		viper.SetDefault("log.style", "logfmt")
	}
}

func mustBindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %q: %v", key, err))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			fmt.Fprintf(os.Stderr, "Config file not found: %s\n", cfgFile)
			os.Exit(1)
		}

		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config file in home directory and current directory
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".robobrain")
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("robobrain")
	}

	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("ROBOBRAIN")                        // ROBOBRAIN_ prefix for env vars
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // Replace . with _ in env var names
	viper.AutomaticEnv()                                   // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		// Only error if user explicitly specified a config file
		fmt.Fprintf(os.Stderr, "Error reading config file [%s]: %v\n", viper.ConfigFileUsed(), err)
		os.Exit(1)
	}
}
