package main

import (
	"fmt"
	"os"

	"listkit/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cfg = config.LoadClient()

var (
	baseURL  string
	apiToken string
	domain   string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "listctl",
	Short: "Page through list endpoints and walk drilldown filters",
	Long: `listctl drives the paginated list and drilldown controllers from the
command line, against a running listkit API or a drilldown map file.

Examples:
  listctl workers --domain demo --page 2
  listctl workers --domain demo --query asha --limit 25
  listctl drilldown --map locations.yaml --select s1,d1
  listctl drilldown --domain demo --select s1`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	},
}

func init() {
	defaultURL := "http://localhost:" + cfg.App.Port
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", defaultURL, "Base URL of the listkit API")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", cfg.App.APIToken, "API bearer token")
	rootCmd.PersistentFlags().StringVarP(&domain, "domain", "d", "", "Project domain")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
