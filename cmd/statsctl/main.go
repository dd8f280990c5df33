package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ethanbaker/refbot/pkg/sdk"
	"github.com/ethanbaker/refbot/pkg/utils"
)

// REQUEST_TIMEOUT bounds each call to the stats API
const REQUEST_TIMEOUT = 30 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	// Load global config
	cfg := utils.NewConfigFromEnv(utils.EnvFile())

	var baseURL string

	root := &cobra.Command{
		Use:           "statsctl",
		Short:         "Query a running reference bot's stats API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "url", fmt.Sprintf("http://localhost:%d", cfg.GetIntWithDefault("API_PORT", 8081)), "base URL of the stats API")

	root.AddCommand(newShowCmd(&baseURL))
	root.AddCommand(newHealthCmd(&baseURL))
	return root
}

func newShowCmd(baseURL *string) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print total and daily counts per destination",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), REQUEST_TIMEOUT)
			defer cancel()
			return run(ctx, sdk.NewClient(*baseURL), date, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to report (YYYY-MM-DD), defaults to today")
	return cmd
}

func newHealthCmd(baseURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the stats API is up",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), REQUEST_TIMEOUT)
			defer cancel()

			if err := sdk.NewClient(*baseURL).Health(ctx); err != nil {
				return fmt.Errorf("stats API is unavailable: %w", err)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return err
		},
	}
}

// run fetches and prints one day of counts
func run(ctx context.Context, client *sdk.Client, date string, out io.Writer) error {
	res, err := client.GetStats(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}

	fmt.Fprintf(out, "Stats for %s\n", res.Date)
	for _, line := range res.Destinations {
		fmt.Fprintf(out, "  %-30s %6d today %8d total\n", line.Name, line.Today, line.Total)
	}
	return nil
}
