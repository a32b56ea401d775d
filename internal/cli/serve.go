// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/threadchat/internal/logger"
	"github.com/jeranaias/threadchat/internal/ollama"
	"github.com/jeranaias/threadchat/internal/server"
	"github.com/jeranaias/threadchat/internal/storage"
)

func newServeCmd(a *app) *cobra.Command {
	var addr, responder, dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development backend",
		Long: `Run a local backend implementing GET /history and GET /chat.

Threads are stored in sqlite (server.db_path). Replies come from the echo
responder, or from a local Ollama server with --responder ollama.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}
			if responder != "" {
				cfg.Responder = responder
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			defer logger.Sync()

			store, err := storage.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			resp, err := server.NewResponder(cfg)
			if err != nil {
				return err
			}
			if cfg.Responder == "ollama" {
				checkOllama(cmd.Context(), cfg.OllamaURL, cfg.OllamaModel)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.NewServer(server.OptionsFromConfig(cfg, store, resp))
			fmt.Fprintf(cmd.OutOrStdout(), "threadchat backend listening on http://%s (responder %s, db %s)\n",
				srv.Addr(), resp.Name(), store.Path())
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&responder, "responder", "", "echo or ollama (overrides server.responder)")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (overrides server.db_path)")
	return cmd
}

// checkOllama warns when the Ollama server or model is unavailable. The
// backend still starts; chats fail with 502 until Ollama is up.
func checkOllama(ctx context.Context, url, modelName string) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	client := ollama.NewClientWithConfig(&ollama.ClientConfig{BaseURL: url})
	models, err := client.ListModels(ctx)
	if err != nil {
		logger.Warnw("OLLAMA_UNAVAILABLE", "url", url, "error", err)
		return
	}
	for _, m := range models {
		if m.Name == modelName || m.Name == modelName+":latest" {
			return
		}
	}
	logger.Warnw("OLLAMA_MODEL_MISSING", "model", modelName, "installed", len(models))
}
