package listing

// Phase is the loading lifecycle of a list.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseError   Phase = "error"
)

// State is a snapshot of everything a view renders for a list.
type State[T any] struct {
	Items        []T
	CurrentPage  int
	ItemsPerPage int
	TotalItems   int
	Query        string
	Filters      map[string]string
	Phase        Phase
	ErrorMessage string
	Generation   uint64
}

// TotalPages is the number of pages needed for TotalItems.
func (s State[T]) TotalPages() int {
	if s.ItemsPerPage <= 0 || s.TotalItems <= 0 {
		return 0
	}
	return (s.TotalItems + s.ItemsPerPage - 1) / s.ItemsPerPage
}

// IsEmpty reports a completed fetch that matched nothing.
func (s State[T]) IsEmpty() bool {
	return s.Phase == PhaseLoaded && s.TotalItems == 0
}

// PageWindow returns at most maxShown consecutive page numbers around the
// current page, clamped to [1, TotalPages]. maxShown <= 0 means all pages.
func (s State[T]) PageWindow(maxShown int) []int {
	total := s.TotalPages()
	if total == 0 {
		return nil
	}
	if maxShown <= 0 || maxShown > total {
		maxShown = total
	}

	start := max(s.CurrentPage-maxShown/2, 1)
	end := start + maxShown - 1
	if end > total {
		end = total
		start = end - maxShown + 1
	}

	pages := make([]int, 0, maxShown)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
