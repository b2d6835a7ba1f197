package listing

import "maps"

// PageRequest is the set of parameters sent to a list endpoint for one
// fetch. A new value is built for every fetch and never mutated after.
type PageRequest struct {
	Page         int               `json:"page"`
	Query        string            `json:"query"`
	Limit        int               `json:"limit"`
	ExtraFilters map[string]string `json:"-"`
}

// PageResult is one page of items plus the total number of matching items
// on the server (not len(Items)).
type PageResult[T any] struct {
	Items []T
	Total int
}

func newPageRequest(page int, query string, limit int, filters map[string]string) PageRequest {
	return PageRequest{
		Page:         page,
		Query:        query,
		Limit:        limit,
		ExtraFilters: maps.Clone(filters),
	}
}
