// Command jobsuche queries the Bundesagentur für Arbeit job board from the
// command line.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wunderfrucht/jobsuche/internal/config"
	"github.com/wunderfrucht/jobsuche/internal/domain/job"
	"github.com/wunderfrucht/jobsuche/pkg/jobsuche"
	"github.com/wunderfrucht/jobsuche/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:           "jobsuche",
	Short:         "Search the Bundesagentur für Arbeit job board",
	Long:          "jobsuche searches the public Jobsuche API, fetches listing details and employer logos, and decodes reference numbers.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests and retries to stderr")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newService builds a job service without a repository from the environment.
func newService() (job.Service, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	logger := logging.New(level, "console")

	client, err := jobsuche.NewClient(jobsuche.Config{
		BaseURL: cfg.Jobsuche.BaseURL,
		APIKey:  cfg.Jobsuche.APIKey,
		Timeout: cfg.Jobsuche.Timeout,
		Retry:   jobsuche.RetryPolicy{MaxAttempts: cfg.Jobsuche.MaxAttempts},
		Logger:  logger.Named("jobsuche").Zap(),
	})
	if err != nil {
		return nil, nil, err
	}

	svc, err := job.NewService(job.WithClient(client), job.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return svc, logger, nil
}
