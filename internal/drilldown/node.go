package drilldown

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Node is one choice in a drilldown tree. Children are the choices offered
// at the next level once this node is selected.
type Node struct {
	Value    string `yaml:"value" json:"value"`
	Label    string `yaml:"label" json:"label"`
	Children []Node `yaml:"children,omitempty" json:"children,omitempty"`
}

// Map is the list of root nodes of a drilldown tree. It is never modified
// after it is built.
type Map []Node

// Depth returns the height of the tree.
func (m Map) Depth() int {
	depth := 0
	for _, n := range m {
		depth = max(depth, 1+Map(n.Children).Depth())
	}
	return depth
}

// LoadMap decodes a YAML (or JSON) list of nodes and checks that every
// value is set and unique among its siblings.
func LoadMap(r io.Reader) (Map, error) {
	var m Map
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return Map{}, nil
		}
		return nil, fmt.Errorf("decode drilldown map: %w", err)
	}
	if err := validate(m, nil); err != nil {
		return nil, err
	}
	return m, nil
}

func validate(nodes []Node, path []string) error {
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if strings.TrimSpace(n.Value) == "" {
			return fmt.Errorf("drilldown node under %q has an empty value", strings.Join(path, "/"))
		}
		if seen[n.Value] {
			return fmt.Errorf("duplicate drilldown value %q under %q", n.Value, strings.Join(path, "/"))
		}
		seen[n.Value] = true
		if err := validate(n.Children, append(path, n.Value)); err != nil {
			return err
		}
	}
	return nil
}

// FlatNode is one row of a parent-linked hierarchy such as a location
// table. An empty ParentID marks a root.
type FlatNode struct {
	ID       string
	ParentID string
	Label    string
}

// BuildMap assembles a tree from parent-linked rows. Rows whose parent is
// unknown become roots; rows that are part of a parent cycle are dropped.
// Siblings are ordered by label, then ID.
func BuildMap(rows []FlatNode) Map {
	known := make(map[string]bool, len(rows))
	for _, r := range rows {
		known[r.ID] = true
	}

	children := make(map[string][]FlatNode)
	var roots []FlatNode
	for _, r := range rows {
		if r.ParentID == "" || !known[r.ParentID] {
			roots = append(roots, r)
			continue
		}
		children[r.ParentID] = append(children[r.ParentID], r)
	}

	var build func([]FlatNode) []Node
	build = func(level []FlatNode) []Node {
		if len(level) == 0 {
			return nil
		}
		slices.SortFunc(level, func(a, b FlatNode) int {
			return cmp.Or(cmp.Compare(a.Label, b.Label), cmp.Compare(a.ID, b.ID))
		})
		nodes := make([]Node, 0, len(level))
		for _, r := range level {
			nodes = append(nodes, Node{Value: r.ID, Label: r.Label, Children: build(children[r.ID])})
		}
		return nodes
	}

	m := Map(build(roots))
	if m == nil {
		return Map{}
	}
	return m
}
