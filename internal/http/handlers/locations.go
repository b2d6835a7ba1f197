package handlers

import (
	"net/http"

	"listkit/internal/drilldown"
	middlewarex "listkit/internal/http/middleware"

	"github.com/rs/zerolog/log"
)

type drilldownBody struct {
	Map   drilldown.Map `json:"map"`
	Depth int           `json:"depth"`
}

// LocationDrilldown answers the location hierarchy of the domain as a
// drilldown tree.
func LocationDrilldown(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		domain, ok := middlewarex.Domain(r.Context())
		if !ok {
			http.Error(w, "domain not found", http.StatusNotFound)
			return
		}

		m, err := dir.LocationDrilldown(r.Context(), domain)
		if err != nil {
			log.Error().Err(err).Str("domain", domain).Msg("location drilldown failed")
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Could not load locations."})
			return
		}

		writeJSON(w, http.StatusOK, drilldownBody{Map: m, Depth: m.Depth()})
	}
}
