package dialoguetree

import (
	"encoding/json"
	"fmt"
)

// Node is one dialogue option in the generated tree, as the model emits it.
type Node struct {
	Speaker             string `json:"speaker"`
	Line                string `json:"line"`
	Level               int    `json:"level"`
	ReflectsPersonality string `json:"reflects_personality"`
	Responses           []Node `json:"responses"`
}

// ScenarioTree is the provider's JSON envelope around the root node.
type ScenarioTree struct {
	Root Node `json:"scenarios_tree"`
}

// Result is what a generation round returns to callers. On total failure
// Error and RawResponse are set and Tree carries the sentinel; the round
// itself still succeeds.
type Result struct {
	Tree        ScenarioTree `json:"-"`
	Error       string       `json:"error,omitempty"`
	RawResponse string       `json:"raw_response,omitempty"`
}

// MarshalJSON flattens the envelope so the payload keeps the provider shape:
// scenarios_tree at top level next to the optional error fields.
func (r Result) MarshalJSON() ([]byte, error) {
	type payload struct {
		Error       string `json:"error,omitempty"`
		RawResponse string `json:"raw_response,omitempty"`
		Root        Node   `json:"scenarios_tree"`
	}
	return json.Marshal(payload{
		Error:       r.Error,
		RawResponse: r.RawResponse,
		Root:        r.Tree.Root,
	})
}

const (
	levelTwoWidth   = 3
	levelThreeWidth = 3
)

// Parse decodes a raw model response into the envelope and checks its
// structure. The winning attempt of a race is the first one that passes.
func Parse(raw string) (*ScenarioTree, error) {
	var tree ScenarioTree
	if err := json.Unmarshal([]byte(raw), &tree); err != nil {
		return nil, fmt.Errorf("decode scenarios tree: %w", err)
	}
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	return &tree, nil
}

// Validate checks the structural contract: a level-1 root with a non-empty
// line, exactly three level-2 responses, each with exactly three level-3
// leaves. Speaker values are not policed; the store accepts any known role.
func (t *ScenarioTree) Validate() error {
	root := &t.Root
	if root.Line == "" {
		return fmt.Errorf("root line is empty")
	}
	if root.Level != 1 {
		return fmt.Errorf("root level is %d, want 1", root.Level)
	}
	if len(root.Responses) != levelTwoWidth {
		return fmt.Errorf("root has %d responses, want %d", len(root.Responses), levelTwoWidth)
	}
	for i := range root.Responses {
		l2 := &root.Responses[i]
		if l2.Line == "" {
			return fmt.Errorf("level 2 response %d line is empty", i)
		}
		if l2.Level != 2 {
			return fmt.Errorf("level 2 response %d has level %d", i, l2.Level)
		}
		if len(l2.Responses) != levelThreeWidth {
			return fmt.Errorf("level 2 response %d has %d follow-ups, want %d", i, len(l2.Responses), levelThreeWidth)
		}
		for j := range l2.Responses {
			l3 := &l2.Responses[j]
			if l3.Line == "" {
				return fmt.Errorf("level 3 response %d/%d line is empty", i, j)
			}
			if l3.Level != 3 {
				return fmt.Errorf("level 3 response %d/%d has level %d", i, j, l3.Level)
			}
			if len(l3.Responses) != 0 {
				return fmt.Errorf("level 3 response %d/%d must be a leaf", i, j)
			}
		}
	}
	return nil
}

// NodeCount returns the number of nodes in the tree. A valid fresh tree has
// 13: one root, three level-2, nine level-3.
func (t *ScenarioTree) NodeCount() int {
	var count func(n *Node) int
	count = func(n *Node) int {
		total := 1
		for i := range n.Responses {
			total += count(&n.Responses[i])
		}
		return total
	}
	return count(&t.Root)
}

// Sentinel is the soft-fail tree returned when every attempt of a race
// failed. Callers still get a success-class response carrying it.
func Sentinel() ScenarioTree {
	return ScenarioTree{Root: Node{
		Speaker:             "A",
		Line:                "Error: Could not generate proper dialogue tree",
		Level:               1,
		ReflectsPersonality: "System error occurred",
		Responses:           []Node{},
	}}
}
