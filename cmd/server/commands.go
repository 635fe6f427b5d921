package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"layerlabs.io/support-chat/internal/intent"
	"layerlabs.io/support-chat/internal/store"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "support-chat",
		Short:         "Customer support chat proxy for a Shopify store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newClassifyCmd(), newStatsCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <message...>",
		Short: "Print the keyword classification of a message",
		Long: `Print the keyword classification of a message as JSON.

Only the offline rules are used; no network calls are made.

Example:
  support-chat classify "where is my order #12345"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := intent.ClassifyRules(strings.Join(args, " "))
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise the interaction log by intent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("db")
			if path == "" {
				path = os.Getenv("CHAT_LOG_DB")
			}
			if path == "" {
				return errors.New("--db or CHAT_LOG_DB is required")
			}

			db, err := store.NewSQLiteStore(path)
			if err != nil {
				return err
			}
			defer db.Close()

			counts, err := db.CountByIntent(cmd.Context())
			if err != nil {
				return err
			}
			intents := make([]string, 0, len(counts))
			for k := range counts {
				intents = append(intents, k)
			}
			sort.Strings(intents)

			out := cmd.OutOrStdout()
			for _, k := range intents {
				fmt.Fprintf(out, "%-16s %d\n", k, counts[k])
			}
			return nil
		},
	}
	cmd.Flags().String("db", "", "path to the SQLite interaction log (defaults to CHAT_LOG_DB)")
	return cmd
}
