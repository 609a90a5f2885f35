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
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Nazha13/Robo-RAG-Setup/pkg/client"
	"github.com/Nazha13/Robo-RAG-Setup/pkg/robobrain/lib/catalog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and prepare the reference catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reference keywords",
	Long: `List the keywords of the local catalog manifest, or of a running server
with --remote.

Examples:
  robobrain catalog list --catalog catalog.yaml
  robobrain catalog list --remote`,
	RunE: runCatalogList,
}

var catalogResizeCmd = &cobra.Command{
	Use:   "resize <image>",
	Short: "Normalize a reference image before enrolling it",
	Long: `Scale an image so its longer edge is at most --size pixels and write it
as PNG. Reference images are enrolled at 512 pixels; the server normalizes them
again to catalog.long_edge at startup.

Examples:
  robobrain catalog resize timer.jpg
  robobrain catalog resize timer.jpg --size 512 --out reference/timer_button.png`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogResize,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogResizeCmd)

	catalogListCmd.Flags().Bool("remote", false, "List the catalog of the server at --api-url")
	catalogResizeCmd.Flags().Int("size", catalog.EnrollLongEdge, "long edge in pixels")
	catalogResizeCmd.Flags().String("out", "", "output path (default <name>_<size>.png next to the input)")
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	remote, _ := cmd.Flags().GetBool("remote")

	if remote {
		c, err := client.NewRobobrainClient(viper.GetString("api_url"), nil)
		if err != nil {
			return err
		}
		ctx, cancel := contextWithTimeout(cmd, 30*time.Second)
		defer cancel()
		keywords, err := c.Catalog(ctx)
		if err != nil {
			return err
		}
		for _, kw := range keywords {
			_, _ = fmt.Fprintln(out, kw)
		}
		return nil
	}

	file := viper.GetString("catalog.file")
	if file == "" {
		return fmt.Errorf("no catalog manifest: pass --catalog or set catalog.file")
	}
	manifest, err := catalog.LoadManifest(file)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KEYWORD\tIMAGE")
	for _, e := range manifest.Entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", strings.ToLower(strings.TrimSpace(e.Keyword)), e.Image)
	}
	return tw.Flush()
}

func runCatalogResize(cmd *cobra.Command, args []string) error {
	src := args[0]
	size, _ := cmd.Flags().GetInt("size")
	dst, _ := cmd.Flags().GetString("out")
	if size <= 0 {
		return fmt.Errorf("--size must be positive, got %d", size)
	}
	if dst == "" {
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		dst = filepath.Join(filepath.Dir(src), fmt.Sprintf("%s_%d.png", base, size))
	}
	if err := catalog.Normalize(src, dst, size); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", dst)
	return nil
}

// contextWithTimeout derives a request context from the command context.
func contextWithTimeout(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}
