// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history [THREAD_ID]",
		Short: "List threads or print one thread's transcript",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSession(newBackend(a.cfg))
			if err := s.loadHistory(cmd.Context()); err != nil {
				return fmt.Errorf("load history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				threads := s.store.Threads()
				if asJSON {
					return writeIndentedJSON(out, threads)
				}
				p := newPrinter(out, a.cfg)
				if len(threads) == 0 {
					p.println(p.st.Muted.Render("No threads yet."))
					return nil
				}
				p.println(p.threadTable(threads, ""))
				return nil
			}

			thread, ok := s.store.Thread(args[0])
			if !ok {
				return fmt.Errorf("thread %q not found", args[0])
			}
			if asJSON {
				return writeIndentedJSON(out, thread)
			}
			p := newPrinter(out, a.cfg)
			p.println(p.st.Title.Render(thread.ID))
			p.transcript(thread)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

func writeIndentedJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
