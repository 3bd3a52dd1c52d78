// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/amaziapp/shiftsheet/internal/api"
	"github.com/amaziapp/shiftsheet/internal/config"
	"github.com/amaziapp/shiftsheet/internal/confirm"
	"github.com/amaziapp/shiftsheet/internal/extract/extractors"
	"github.com/amaziapp/shiftsheet/internal/job"
	"github.com/amaziapp/shiftsheet/internal/store"
	"github.com/amaziapp/shiftsheet/internal/tool"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "shiftsheet",
		Short: "Timesheet extraction service",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "shiftsheet.yaml", "path to config file")
	root.AddCommand(serveCmd(), mcpCmd(), extractCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}

			pipeline := extractors.DefaultPipeline()
			pipeline.SetMaxBytes(cfg.MaxUploadBytes())
			pipeline.SetParseTimeout(cfg.ParseTimeout())

			reconciler := confirm.NewReconciler(st)
			handler := api.NewHandler(pipeline, st, reconciler, cfg.MaxUploadBytes())
			router := api.NewRouter(handler, cfg.Metrics)

			retention := job.StartRetention(st, cfg.RetentionDays)
			defer retention.Stop()

			log.Printf("listening on %s", cfg.Listen)
			return router.Run(cfg.Listen)
		},
	}
}

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := mcp.NewServer(&mcp.Implementation{
				Name:    "shiftsheet",
				Version: "0.1.0",
			}, nil)
			mcp.AddTool(server, tool.MetadataExtractTimesheet, tool.ExtractTimesheet)
			return server.Run(context.Background(), &mcp.StdioTransport{})
		},
	}
}

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract a single timesheet file and print the preview as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			pipeline := extractors.DefaultPipeline()
			preview, err := pipeline.Run(cmd.Context(), content, filepath.Base(args[0]))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(preview)
		},
	}
}
