package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bookhub-dashboard/internal/client"
	"bookhub-dashboard/internal/config"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the bookstore API is reachable",
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	api := client.NewBookstoreClient(client.Options{
		BaseURL: cfg.APIBaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.APITimeout,
	})

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.APITimeout)
	defer cancel()

	if err := api.Ping(ctx); err != nil {
		return fmt.Errorf("bookstore API at %s is not reachable: %w", api.BaseURL(), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Bookstore API at %s is reachable\n", api.BaseURL())
	return nil
}
