package legalcase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Case is a legal matter between two parties. Context holds the structured
// background as a JSON string; Summary is LLM-generated from it.
type Case struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	PartyA       string    `json:"party_a"`
	PartyB       string    `json:"party_b"`
	Context      string    `json:"context"`
	Summary      string    `json:"summary"`
	LastModified time.Time `json:"last_modified"`
}

// Background is the parsed shape of the case context.
type Background struct {
	PartyA       string `json:"party_a"`
	PartyB       string `json:"party_b"`
	KeyIssues    string `json:"key_issues"`
	GeneralNotes string `json:"general_notes"`
}

// BackgroundPatch carries partial background updates; nil fields are left
// untouched.
type BackgroundPatch struct {
	PartyA       *string `json:"party_a"`
	PartyB       *string `json:"party_b"`
	KeyIssues    *string `json:"key_issues"`
	GeneralNotes *string `json:"general_notes"`
}

// Repository is the persistence surface for cases.
type Repository interface {
	Create(ctx context.Context, c *Case) error
	FindByID(ctx context.Context, id uint) (*Case, error)
	FindAll(ctx context.Context) ([]*Case, error)
	Update(ctx context.Context, c *Case) error
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
}

// contextDocument is the stored wire shape of the background JSON. The party
// names sit one level deeper than in Background so the document can later
// grow per-party detail without a migration.
type contextDocument struct {
	Parties struct {
		PartyA struct {
			Name string `json:"name"`
		} `json:"party_A"`
		PartyB struct {
			Name string `json:"name"`
		} `json:"party_B"`
	} `json:"parties"`
	KeyIssues    string `json:"key_issues"`
	GeneralNotes string `json:"general_notes"`
}

// DefaultContext builds the initial background document for a new case.
func DefaultContext(partyA, partyB string) string {
	var doc contextDocument
	doc.Parties.PartyA.Name = partyA
	doc.Parties.PartyB.Name = partyB
	raw, _ := json.Marshal(doc)
	return string(raw)
}

// ParseBackground reads the context JSON into a flat Background. Malformed
// or empty context yields zero values rather than an error; old rows may
// predate the document shape.
func ParseBackground(contextJSON string) Background {
	var doc contextDocument
	_ = json.Unmarshal([]byte(contextJSON), &doc)
	return Background{
		PartyA:       doc.Parties.PartyA.Name,
		PartyB:       doc.Parties.PartyB.Name,
		KeyIssues:    doc.KeyIssues,
		GeneralNotes: doc.GeneralNotes,
	}
}

// applyPatch merges a partial update into the context JSON and returns the
// new document.
func applyPatch(contextJSON string, patch BackgroundPatch) string {
	var doc contextDocument
	_ = json.Unmarshal([]byte(contextJSON), &doc)
	if patch.PartyA != nil {
		doc.Parties.PartyA.Name = *patch.PartyA
	}
	if patch.PartyB != nil {
		doc.Parties.PartyB.Name = *patch.PartyB
	}
	if patch.KeyIssues != nil {
		doc.KeyIssues = *patch.KeyIssues
	}
	if patch.GeneralNotes != nil {
		doc.GeneralNotes = *patch.GeneralNotes
	}
	raw, _ := json.Marshal(doc)
	return string(raw)
}

// FormatBackground renders the context JSON as the plain-text block fed to
// the model prompts. Every section is always present so prompts keep a
// stable shape.
func FormatBackground(contextJSON string) string {
	bg := ParseBackground(contextJSON)
	partyA := bg.PartyA
	if partyA == "" {
		partyA = "Unknown Party"
	}
	partyB := bg.PartyB
	if partyB == "" {
		partyB = "Unknown Party"
	}
	keyIssues := bg.KeyIssues
	if keyIssues == "" {
		keyIssues = "Not specified"
	}
	generalNotes := bg.GeneralNotes
	if generalNotes == "" {
		generalNotes = "Not specified"
	}

	return fmt.Sprintf(
		"Case Background:\n\nParties:\n  Party A: %s\n  Party B: %s\n\nKey Issues:\n%s\n\nGeneral Notes:\n%s\n",
		partyA, partyB, keyIssues, generalNotes)
}
