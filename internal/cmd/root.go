package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the bookhub command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bookhub",
		Short: "BookHub Dashboard - bookstore administration",
		Long: `BookHub Dashboard serves the administration pages of the bookstore:
books, orders and order lines, and book copies. All data lives in the
bookstore REST API configured with API_BASE_URL.`,
		SilenceUsage: true,
		// Without a subcommand the binary serves
		RunE: runServe,
	}

	root.PersistentFlags().String("port", "", "HTTP port to listen on (overrides PORT)")
	root.PersistentFlags().String("api-base-url", "", "Bookstore API base URL (overrides API_BASE_URL)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides LOG_LEVEL)")

	root.AddCommand(newServeCmd(), newCheckCmd())
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
