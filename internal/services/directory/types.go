package directory

// ListRequest is a page request for the mobile worker directory. Page is
// 1-based.
type ListRequest struct {
	Page            int
	Limit           int
	Query           string
	DeactivatedOnly bool
}

// Limits bound the page size accepted from clients.
type Limits struct {
	Default int
	Max     int
}

// Normalize applies defaults and clamps the request to the given limits.
func (req *ListRequest) Normalize(l Limits) {
	if l.Max <= 0 {
		l.Max = 100
	}
	if l.Default <= 0 || l.Default > l.Max {
		l.Default = min(10, l.Max)
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = l.Default
	}
	if req.Limit > l.Max {
		req.Limit = l.Max
	}
}

// Offset is the number of rows before the requested page.
func (req ListRequest) Offset() int {
	return (req.Page - 1) * req.Limit
}
