// Command canopyctl is an operator CLI for a canopyhub server: it saves
// surveys from state files with a read-back check, walks and extends the
// areas of a collection, and moves the price list in and out.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dalemusser/canopyhub/internal/surveyclient"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	baseURL string
	timeout time.Duration
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "canopyctl",
	Short: "Operate a canopyhub server from the command line",
	Long: `canopyctl talks to the canopyhub JSON API.

Survey state files are JSON, or YAML when the file name ends in .yaml or .yml.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", envOr("CANOPYHUB_URL", "http://localhost:8080"), "canopyhub server URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", surveyclient.DefaultTimeout, "per-request timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests and read-back warnings")

	rootCmd.AddCommand(surveyCmd, areaCmd, priceListCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newClient builds the API client from the persistent flags.
func newClient() (*surveyclient.Client, error) {
	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		logger = l
	}
	return surveyclient.New(baseURL, timeout, logger), nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
