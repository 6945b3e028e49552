package legalcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDefaultContextRoundTrip(t *testing.T) {
	doc := DefaultContext("Mr. Sterling", "Ms. Sterling")

	bg := ParseBackground(doc)
	assert.Equal(t, "Mr. Sterling", bg.PartyA)
	assert.Equal(t, "Ms. Sterling", bg.PartyB)
	assert.Empty(t, bg.KeyIssues)
	assert.Empty(t, bg.GeneralNotes)
}

func TestParseBackgroundMalformedContext(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"parties": 42}`} {
		bg := ParseBackground(raw)
		assert.Empty(t, bg.PartyA)
		assert.Empty(t, bg.PartyB)
	}
}

func TestApplyPatchMergesOnlyGivenFields(t *testing.T) {
	doc := DefaultContext("Alice", "Bob")

	doc = applyPatch(doc, BackgroundPatch{
		PartyB:    strPtr("Robert"),
		KeyIssues: strPtr("Custody of the family dog"),
	})

	bg := ParseBackground(doc)
	assert.Equal(t, "Alice", bg.PartyA)
	assert.Equal(t, "Robert", bg.PartyB)
	assert.Equal(t, "Custody of the family dog", bg.KeyIssues)
	assert.Empty(t, bg.GeneralNotes)
}

func TestApplyPatchOnMalformedContextStartsFresh(t *testing.T) {
	doc := applyPatch("not json", BackgroundPatch{PartyA: strPtr("Alice")})

	bg := ParseBackground(doc)
	assert.Equal(t, "Alice", bg.PartyA)
	assert.Empty(t, bg.PartyB)
}

func TestFormatBackground(t *testing.T) {
	doc := DefaultContext("Alice", "Bob")
	doc = applyPatch(doc, BackgroundPatch{
		KeyIssues:    strPtr("Severance terms"),
		GeneralNotes: strPtr("Amicable so far"),
	})

	text := FormatBackground(doc)
	require.Equal(t,
		"Case Background:\n\nParties:\n  Party A: Alice\n  Party B: Bob\n\nKey Issues:\nSeverance terms\n\nGeneral Notes:\nAmicable so far\n",
		text)
}

func TestFormatBackgroundFillsMissingSections(t *testing.T) {
	text := FormatBackground("")

	assert.Contains(t, text, "Party A: Unknown Party")
	assert.Contains(t, text, "Party B: Unknown Party")
	assert.Contains(t, text, "Key Issues:\nNot specified")
	assert.Contains(t, text, "General Notes:\nNot specified")
}
