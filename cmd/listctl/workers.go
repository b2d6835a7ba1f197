package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"listkit/internal/domain/worker"
	"listkit/internal/listing"
	"listkit/internal/store/redis"
	"listkit/internal/transport"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	page        int
	limit       int
	query       string
	deactivated bool
	redisAddr   string
)

var workersCmd = &cobra.Command{
	Use:   "workers",
	Short: "Show one page of the mobile worker list",
	Long: `Fetch one page of mobile workers for a domain.

The chosen page size is remembered per domain when --redis (or REDIS_ADDR)
points at a redis server, and restored on the next run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if domain == "" {
			return errors.New("--domain is required")
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.List.FetchTimeout)
		defer cancel()

		c, err := newWorkerList(ctx)
		if err != nil {
			return err
		}

		outcome := <-c.Start(ctx)
		if cmd.Flags().Changed("limit") {
			outcome = <-c.SetItemsPerPage(ctx, limit)
		}
		if deactivated {
			outcome = <-c.SetFilter(ctx, "showDeactivatedUsers", "true")
		}
		if cmd.Flags().Changed("query") {
			outcome = <-c.Search(ctx, query)
		}
		if page > 1 {
			outcome = <-c.GoToPage(ctx, page)
		}
		if outcome.Err != nil {
			log.Debug().Err(outcome.Err).Msg("last fetch failed")
		}

		return printWorkers(cmd.OutOrStdout(), c.State(), c.PageWindow())
	},
}

func newWorkerList(ctx context.Context) (*listing.Controller[worker.MobileWorker], error) {
	client := transport.NewHTTPClient("listctl", cfg.List.FetchTimeout)
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetBearerToken(apiToken)

	fetcher, err := listing.NewHTTPFetcher[worker.MobileWorker](client, listing.EndpointConfig{
		Path:     "/api/v1/domains/" + domain + "/mobile-workers",
		ItemsKey: "users",
	})
	if err != nil {
		return nil, err
	}

	var opts []listing.Option
	if redisAddr != "" {
		rdb, err := redis.Connect(ctx, redisAddr)
		if err != nil {
			log.Warn().Err(err).Msg("page size preferences disabled")
		} else {
			opts = append(opts, listing.WithLimitStore(redis.NewLimitStore(rdb, domain, 0)))
		}
	}

	return listing.New[worker.MobileWorker](listing.Config{
		Name:          "mobile_workers",
		DefaultLimit:  cfg.List.DefaultLimit,
		MaxLimit:      cfg.List.MaxLimit,
		MaxPagesShown: cfg.List.MaxPagesShown,
	}, fetcher, opts...)
}

func printWorkers(out io.Writer, s listing.State[worker.MobileWorker], window []int) error {
	switch {
	case s.Phase == listing.PhaseError:
		return errors.New(s.ErrorMessage)
	case s.IsEmpty():
		fmt.Fprintln(out, "No mobile workers found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tFIRST NAME\tLAST NAME\tREGISTERED\tACTIVE")
	for _, w := range s.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", w.Username, w.FirstName, w.LastName, w.DateRegistered, w.IsActive)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	pages := make([]string, 0, len(window))
	for _, p := range window {
		if p == s.CurrentPage {
			pages = append(pages, fmt.Sprintf("[%d]", p))
		} else {
			pages = append(pages, fmt.Sprint(p))
		}
	}
	fmt.Fprintf(out, "\npage %d of %d (%d workers, %d per page)  %s\n",
		s.CurrentPage, s.TotalPages(), s.TotalItems, s.ItemsPerPage, strings.Join(pages, " "))
	return nil
}

func init() {
	workersCmd.Flags().IntVarP(&page, "page", "p", 1, "Page to show")
	workersCmd.Flags().IntVarP(&limit, "limit", "l", 0, "Workers per page (remembered with --redis)")
	workersCmd.Flags().StringVarP(&query, "query", "q", "", "Search text")
	workersCmd.Flags().BoolVar(&deactivated, "deactivated", false, "Show deactivated workers only")
	workersCmd.Flags().StringVar(&redisAddr, "redis", cfg.Redis.Addr, "Redis address for page size preferences")
	rootCmd.AddCommand(workersCmd)
}
