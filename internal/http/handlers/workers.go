package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"listkit/internal/domain/worker"
	"listkit/internal/drilldown"
	middlewarex "listkit/internal/http/middleware"
	"listkit/internal/listing"
	"listkit/internal/metrics"
	"listkit/internal/services/directory"

	"github.com/rs/zerolog/log"
)

// Directory is the part of directory.Service the handlers use.
type Directory interface {
	ListWorkers(ctx context.Context, domain string, req directory.ListRequest) (listing.PageResult[worker.MobileWorker], error)
	LocationDrilldown(ctx context.Context, domain string) (drilldown.Map, error)
}

type workerPage struct {
	Users []worker.MobileWorker `json:"users"`
	Total int                   `json:"total"`
}

type errorBody struct {
	Error string `json:"error"`
}

// ListMobileWorkers answers one page of the mobile worker list as
// {"users": [...], "total": n}. Lookup failures are reported in the body as
// {"error": "..."} with a 200 status, which list widgets treat as a server
// reported error.
func ListMobileWorkers(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		domain, ok := middlewarex.Domain(r.Context())
		if !ok {
			http.Error(w, "domain not found", http.StatusNotFound)
			return
		}

		req := parseListRequest(r)

		page, err := dir.ListWorkers(r.Context(), domain, req)
		metrics.ObserveListPage("mobile_workers", err)
		if err != nil {
			log.Error().Err(err).Str("domain", domain).Int("page", req.Page).Msg("list mobile workers failed")
			writeJSON(w, http.StatusOK, errorBody{Error: "Could not load mobile workers."})
			return
		}

		writeJSON(w, http.StatusOK, workerPage{Users: page.Items, Total: page.Total})
	}
}

// parseListRequest reads page, limit, query and showDeactivatedUsers.
// Values that do not parse fall back to defaults.
func parseListRequest(r *http.Request) directory.ListRequest {
	q := r.URL.Query()
	req := directory.ListRequest{Query: q.Get("query")}

	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Page = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Limit = n
		}
	}
	if v := q.Get("showDeactivatedUsers"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			req.DeactivatedOnly = b
		}
	}
	return req
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}
