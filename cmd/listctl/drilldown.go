package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"listkit/internal/drilldown"
	"listkit/internal/transport"

	"github.com/spf13/cobra"
)

var (
	mapPath       string
	selections    []string
	labels        []string
	notifications map[string]string
)

var drilldownCmd = &cobra.Command{
	Use:   "drilldown",
	Short: "Walk a drilldown filter",
	Long: `Load a drilldown map from a YAML/JSON file (--map) or from the API's
location hierarchy (--domain), apply the given selections level by level
and print every level with its options.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadDrilldownMap(cmd.Context())
		if err != nil {
			return err
		}

		c := drilldown.New(drilldown.Config{Labels: labels, Notifications: notifications})
		c.Initialize(m, selections)

		printLevels(cmd.OutOrStdout(), c)
		return nil
	},
}

func loadDrilldownMap(ctx context.Context) (drilldown.Map, error) {
	if mapPath != "" {
		f, err := os.Open(mapPath)
		if err != nil {
			return nil, fmt.Errorf("open drilldown map: %w", err)
		}
		defer f.Close()
		return drilldown.LoadMap(f)
	}
	if domain == "" {
		return nil, errors.New("either --map or --domain is required")
	}

	client := transport.NewHTTPClient("listctl", cfg.List.FetchTimeout)
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetBearerToken(apiToken)

	resp, err := client.Get(ctx, "/api/v1/domains/"+domain+"/locations/drilldown", nil)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("load locations: status %d", resp.StatusCode)
	}
	var body struct {
		Map drilldown.Map `json:"map"`
	}
	if err := resp.UnmarshalJSON(&body); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}
	return body.Map, nil
}

func printLevels(out io.Writer, c *drilldown.Controller) {
	for _, l := range c.Levels() {
		if !c.IsLevelVisible(l.Index) {
			continue
		}
		name := l.Label
		if name == "" {
			name = fmt.Sprintf("Level %d", l.Index+1)
		}
		opts := make([]string, 0, len(l.Options))
		for _, n := range l.Options {
			mark := " "
			if n.Value == l.Selected {
				mark = "*"
			}
			opts = append(opts, fmt.Sprintf("%s%s (%s)", mark, n.Label, n.Value))
		}
		fmt.Fprintf(out, "%s:\n  %s\n", name, strings.Join(opts, "\n  "))
	}
	if msg := c.FinalSelectionMessage(); msg != "" {
		fmt.Fprintf(out, "\n%s\n", msg)
	}
}

func init() {
	drilldownCmd.Flags().StringVar(&mapPath, "map", cfg.Drilldown.MapPath, "Drilldown map file (YAML or JSON)")
	drilldownCmd.Flags().StringSliceVarP(&selections, "select", "s", nil, "Values to select, one per level")
	drilldownCmd.Flags().StringSliceVar(&labels, "labels", nil, "Caption for each level")
	drilldownCmd.Flags().StringToStringVar(&notifications, "notify", nil, "Message shown when a last-level value is selected (value=message)")
	rootCmd.AddCommand(drilldownCmd)
}
