package drilldown

import (
	"slices"
	"sync"
)

// Config describes a drilldown widget. Depth is the number of levels; when
// zero it is taken from len(Labels), then from the height of the map.
// Notifications maps a value selected at the last level to a message for
// the user.
type Config struct {
	Depth         int
	Labels        []string
	Notifications map[string]string
}

// Level is the state of one select control.
type Level struct {
	Index    int
	Label    string
	Options  []Node
	Selected string
}

// Controller keeps N dependent selections in step: the options at level k
// are always the children of the node selected at level k-1.
type Controller struct {
	cfg Config

	mu     sync.Mutex
	levels []Level
}

func New(cfg Config) *Controller {
	return &Controller{cfg: cfg}
}

// Initialize seeds level 0 with the roots of m and applies the initial
// selections from level 0 downward, stopping at the first value that is
// not among the options of its level.
func (c *Controller) Initialize(m Map, initial []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	depth := c.cfg.Depth
	if depth <= 0 {
		depth = len(c.cfg.Labels)
	}
	if depth <= 0 {
		depth = m.Depth()
	}
	depth = max(depth, 1)

	c.levels = make([]Level, depth)
	for i := range c.levels {
		c.levels[i].Index = i
		if i < len(c.cfg.Labels) {
			c.levels[i].Label = c.cfg.Labels[i]
		}
	}
	c.levels[0].Options = m

	for i, value := range initial {
		if !c.selectLocked(i, value) {
			break
		}
	}
}

// Select sets the value at level and rebuilds every level below it. A value
// that is empty or not among the level's options clears the level. An out
// of range level is ignored.
func (c *Controller) Select(level int, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectLocked(level, value)
}

func (c *Controller) selectLocked(level int, value string) bool {
	if level < 0 || level >= len(c.levels) {
		return false
	}

	node, found := find(c.levels[level].Options, value)
	c.levels[level].Selected = ""
	if found {
		c.levels[level].Selected = value
	}

	for k := level + 1; k < len(c.levels); k++ {
		c.levels[k].Options = nil
		c.levels[k].Selected = ""
	}
	if found && level+1 < len(c.levels) {
		c.levels[level+1].Options = node.Children
	}
	return found
}

func find(options []Node, value string) (Node, bool) {
	if value == "" {
		return Node{}, false
	}
	for _, n := range options {
		if n.Value == value {
			return n, true
		}
	}
	return Node{}, false
}

// IsLevelVisible reports whether a level has options to choose from or
// already holds a selection.
func (c *Controller) IsLevelVisible(level int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if level < 0 || level >= len(c.levels) {
		return false
	}
	l := c.levels[level]
	return len(l.Options) > 0 || l.Selected != ""
}

// FinalSelectionMessage returns the notification configured for the value
// selected at the last level, or "".
func (c *Controller) FinalSelectionMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.levels) == 0 {
		return ""
	}
	last := c.levels[len(c.levels)-1]
	if last.Selected == "" {
		return ""
	}
	return c.cfg.Notifications[last.Selected]
}

// Levels returns a copy of every level.
func (c *Controller) Levels() []Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	levels := make([]Level, len(c.levels))
	for i, l := range c.levels {
		l.Options = slices.Clone(l.Options)
		levels[i] = l
	}
	return levels
}

// Selections returns the selected values from level 0 down to the first
// level without a selection. Callers persist this to restore the widget
// later through Initialize.
func (c *Controller) Selections() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, l := range c.levels {
		if l.Selected == "" {
			break
		}
		out = append(out, l.Selected)
	}
	return out
}
