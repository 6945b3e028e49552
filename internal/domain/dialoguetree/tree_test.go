package dialoguetree

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTree() ScenarioTree {
	root := Node{Speaker: "A", Line: "We propose a settlement.", Level: 1, ReflectsPersonality: "Direct opener"}
	for i := 0; i < 3; i++ {
		l2 := Node{Speaker: "B", Line: fmt.Sprintf("Counter %d", i), Level: 2, ReflectsPersonality: "Pushback"}
		for j := 0; j < 3; j++ {
			l2.Responses = append(l2.Responses, Node{
				Speaker: "A", Line: fmt.Sprintf("Follow-up %d.%d", i, j), Level: 3,
				ReflectsPersonality: "Holds position", Responses: []Node{},
			})
		}
		root.Responses = append(root.Responses, l2)
	}
	return ScenarioTree{Root: root}
}

func validTreeJSON(t *testing.T) string {
	t.Helper()
	tree := validTree()
	raw, err := json.Marshal(tree)
	require.NoError(t, err)
	return string(raw)
}

func TestParseValidTree(t *testing.T) {
	tree, err := Parse(validTreeJSON(t))
	require.NoError(t, err)
	assert.Equal(t, 13, tree.NodeCount())
	assert.Equal(t, "A", tree.Root.Speaker)
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ScenarioTree)
	}{
		{"empty root line", func(tr *ScenarioTree) { tr.Root.Line = "" }},
		{"wrong root level", func(tr *ScenarioTree) { tr.Root.Level = 2 }},
		{"two level-2 branches", func(tr *ScenarioTree) { tr.Root.Responses = tr.Root.Responses[:2] }},
		{"four level-2 branches", func(tr *ScenarioTree) {
			tr.Root.Responses = append(tr.Root.Responses, tr.Root.Responses[0])
		}},
		{"short level-3 fan", func(tr *ScenarioTree) {
			tr.Root.Responses[1].Responses = tr.Root.Responses[1].Responses[:1]
		}},
		{"level-3 not leaf", func(tr *ScenarioTree) {
			tr.Root.Responses[0].Responses[0].Responses = []Node{{Line: "too deep", Level: 4}}
		}},
		{"wrong level-2 depth", func(tr *ScenarioTree) { tr.Root.Responses[2].Level = 3 }},
		{"empty level-3 line", func(tr *ScenarioTree) { tr.Root.Responses[0].Responses[2].Line = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree := validTree()
			tc.mutate(&tree)
			raw, err := json.Marshal(tree)
			require.NoError(t, err)
			_, err = Parse(string(raw))
			assert.Error(t, err)
		})
	}
}

func TestParseRejectsNonJSON(t *testing.T) {
	_, err := Parse("Sure! Here is your tree: {...}")
	assert.Error(t, err)
}

func TestSentinelShape(t *testing.T) {
	s := Sentinel()
	assert.Equal(t, "A", s.Root.Speaker)
	assert.Equal(t, "Error: Could not generate proper dialogue tree", s.Root.Line)
	assert.Equal(t, 1, s.Root.Level)
	assert.Equal(t, "System error occurred", s.Root.ReflectsPersonality)
	assert.Empty(t, s.Root.Responses)
	assert.Equal(t, 1, s.NodeCount())

	// The sentinel deliberately fails the structural contract.
	assert.Error(t, s.Validate())
}

func TestResultMarshalKeepsProviderShape(t *testing.T) {
	res := Result{
		Tree:        Sentinel(),
		Error:       "All 3 parallel attempts failed to generate valid response",
		RawResponse: "Failed to parse JSON from all 3 API calls",
	}
	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Contains(t, payload, "scenarios_tree")
	assert.Contains(t, payload, "error")
	assert.Contains(t, payload, "raw_response")

	// A winning result drops the failure fields entirely.
	raw, err = json.Marshal(Result{Tree: validTree()})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Contains(t, payload, "scenarios_tree")
	assert.NotContains(t, payload, "error")
	assert.NotContains(t, payload, "raw_response")
}

func TestBuildSystemMessageFreshTree(t *testing.T) {
	prompt := BuildSystemMessage(PromptInput{
		CaseBackground:     "Case Background:\n\nParties:\n  Party A: Acme\n  Party B: Bolt\n",
		PreviousStatements: "",
		SimulationGoal:     "Settle below $100k",
	})

	assert.Contains(t, prompt, "determine who should initiate the negotiation")
	assert.Contains(t, prompt, "[SIMULATION_GOAL] Settle below $100k")
	assert.Contains(t, prompt, "Party A: Acme")
	assert.NotContains(t, prompt, "IMPORTANT: The Level 1 node must use exactly this text")
}

func TestBuildSystemMessageContinuation(t *testing.T) {
	prompt := BuildSystemMessage(PromptInput{
		CaseBackground:     "background",
		PreviousStatements: "history",
		SimulationGoal:     "goal",
		LastMessage:        "Your client owes us damages.",
	})

	assert.Contains(t, prompt, `Use the provided last message as the Level 1 statement: "Your client owes us damages."`)
	assert.Contains(t, prompt, `IMPORTANT: The Level 1 node must use exactly this text: "Your client owes us damages."`)
	// "Your client..." reads as side A speaking, so B answers next.
	assert.Contains(t, prompt, `Three possible responses from "B"`)
	assert.True(t, strings.Contains(prompt, `follow-up replies from "A"`))
}
