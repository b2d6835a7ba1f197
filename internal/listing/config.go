package listing

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const (
	defaultMaxLimit      = 100
	defaultMaxPagesShown = 9
)

// Config describes one list widget.
//
// Name and DefaultLimit are required. MaxLimit defaults to 100 and
// MaxPagesShown to 9. Filters seeds the extra request filters.
type Config struct {
	Name          string
	DefaultLimit  int
	MaxLimit      int
	MaxPagesShown int
	Filters       map[string]string
}

// ConfigError lists every problem found in a Config.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid list config: " + strings.Join(e.Problems, "; ")
}

// Validate checks required fields and fills in optional ones.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Name) == "" {
		problems = append(problems, "name is required")
	}
	if c.DefaultLimit <= 0 {
		problems = append(problems, fmt.Sprintf("default limit must be positive, got %d", c.DefaultLimit))
	}
	if c.MaxLimit < 0 {
		problems = append(problems, fmt.Sprintf("max limit must not be negative, got %d", c.MaxLimit))
	}
	if c.MaxLimit == 0 {
		c.MaxLimit = max(defaultMaxLimit, c.DefaultLimit)
	}
	if c.DefaultLimit > c.MaxLimit {
		problems = append(problems, fmt.Sprintf("default limit %d exceeds max limit %d", c.DefaultLimit, c.MaxLimit))
	}
	if c.MaxPagesShown <= 0 {
		c.MaxPagesShown = defaultMaxPagesShown
	}
	for key := range c.Filters {
		if isReservedParam(key) {
			problems = append(problems, fmt.Sprintf("filter %q collides with a paging parameter", key))
		}
	}

	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

func isReservedParam(key string) bool {
	switch key {
	case "page", "query", "limit":
		return true
	}
	return false
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	logger *zerolog.Logger
	limits LimitStore
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// WithLimitStore persists page size changes and restores them on Start.
func WithLimitStore(s LimitStore) Option {
	return func(o *options) { o.limits = s }
}
