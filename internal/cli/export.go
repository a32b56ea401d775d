// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/threadchat/internal/export"
	"github.com/jeranaias/threadchat/internal/logger"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format     string
		outputDir  string
		theme      string
		timestamps bool
	)

	cmd := &cobra.Command{
		Use:   "export THREAD_ID",
		Short: "Write one thread to a Markdown, HTML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			s := newSession(newBackend(a.cfg))
			if err := s.loadHistory(cmd.Context()); err != nil {
				return fmt.Errorf("load history: %w", err)
			}
			thread, ok := s.store.Thread(args[0])
			if !ok {
				return fmt.Errorf("thread %q not found", args[0])
			}

			opts := export.DefaultOptions()
			opts.OutputDir = outputDir
			opts.Theme = theme
			opts.IncludeTimestamps = timestamps

			exporter, err := export.New(f, opts)
			if err != nil {
				return err
			}
			path, err := export.ExportToFile(thread, exporter, opts)
			if err != nil {
				return err
			}
			logger.Infow("THREAD_EXPORTED", "thread", thread.ID, "format", string(f), "path", path)

			p := newPrinter(cmd.OutOrStdout(), a.cfg)
			p.println(p.st.Success.Render("Exported") + " " + p.st.Value.Render(path))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&format, "format", "f", "md", "output format: "+strings.Join(export.Formats, ", "))
	flags.StringVarP(&outputDir, "output", "o", ".", "output directory")
	flags.StringVar(&theme, "theme", "dark", "HTML theme: dark or light")
	flags.BoolVar(&timestamps, "timestamps", true, "include conversation timestamps")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return export.Formats, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
