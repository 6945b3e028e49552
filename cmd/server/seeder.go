package main

import (
	"context"
	"encoding/json"
	"fmt"

	_ "embed"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"parley-server/services/negotiation-api/internal/config"
	"parley-server/services/negotiation-api/internal/domain/legalcase"
	"parley-server/services/negotiation-api/internal/domain/message"
	"parley-server/services/negotiation-api/internal/domain/simulation"
)

//go:embed seed/demo_case.yaml
var demoCaseYAML []byte

// DemoSeeder installs a ready-made case with one simulated negotiation so a
// fresh deployment has something to click through. Enabled via SEED_DEMO_CASE
// and skipped entirely once any case exists.
type DemoSeeder struct {
	cfg      *config.Config
	cases    legalcase.Repository
	sims     simulation.Repository
	messages message.Repository
	log      zerolog.Logger
}

func NewDemoSeeder(
	cfg *config.Config,
	cases legalcase.Repository,
	sims simulation.Repository,
	messages message.Repository,
	log zerolog.Logger,
) *DemoSeeder {
	return &DemoSeeder{
		cfg:      cfg,
		cases:    cases,
		sims:     sims,
		messages: messages,
		log:      log.With().Str("component", "demo-seeder").Logger(),
	}
}

type seedMessage struct {
	Content  string        `yaml:"content"`
	Role     string        `yaml:"role"`
	Selected bool          `yaml:"selected"`
	Replies  []seedMessage `yaml:"replies"`
}

type seedFile struct {
	Case struct {
		Name    string         `yaml:"name"`
		PartyA  string         `yaml:"party_a"`
		PartyB  string         `yaml:"party_b"`
		Summary string         `yaml:"summary"`
		Context map[string]any `yaml:"context"`
	} `yaml:"case"`
	Simulation struct {
		Headline string `yaml:"headline"`
		Brief    string `yaml:"brief"`
	} `yaml:"simulation"`
	Root *seedMessage `yaml:"root"`
}

func (s *DemoSeeder) Install(ctx context.Context) error {
	if !s.cfg.SeedDemoCase {
		return nil
	}

	existing, err := s.cases.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("check existing cases: %w", err)
	}
	if len(existing) > 0 {
		s.log.Debug().Int("cases", len(existing)).Msg("cases already present, skipping demo seed")
		return nil
	}

	var seed seedFile
	if err := yaml.Unmarshal(demoCaseYAML, &seed); err != nil {
		return fmt.Errorf("parse demo seed: %w", err)
	}

	contextJSON, err := json.MarshalIndent(seed.Case.Context, "", "  ")
	if err != nil {
		return fmt.Errorf("encode demo case context: %w", err)
	}

	demoCase := &legalcase.Case{
		Name:    seed.Case.Name,
		PartyA:  seed.Case.PartyA,
		PartyB:  seed.Case.PartyB,
		Context: string(contextJSON),
		Summary: seed.Case.Summary,
	}
	if err := s.cases.Create(ctx, demoCase); err != nil {
		return fmt.Errorf("create demo case: %w", err)
	}

	sim := &simulation.Simulation{
		CaseID:   demoCase.ID,
		Headline: seed.Simulation.Headline,
		Brief:    seed.Simulation.Brief,
	}
	if err := s.sims.Create(ctx, sim); err != nil {
		return fmt.Errorf("create demo simulation: %w", err)
	}

	if seed.Root != nil {
		if err := s.insertMessage(ctx, sim.ID, nil, *seed.Root); err != nil {
			return err
		}
	}

	s.log.Info().
		Uint("case_id", demoCase.ID).
		Uint("simulation_id", sim.ID).
		Msg("demo case seeded")
	return nil
}

func (s *DemoSeeder) insertMessage(ctx context.Context, simulationID uint, parentID *uint, node seedMessage) error {
	msg := &message.Message{
		ParentID:     parentID,
		Role:         message.Role(node.Role),
		Content:      node.Content,
		Selected:     node.Selected,
		SimulationID: simulationID,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return fmt.Errorf("create demo message: %w", err)
	}
	for _, reply := range node.Replies {
		if err := s.insertMessage(ctx, simulationID, &msg.ID, reply); err != nil {
			return err
		}
	}
	return nil
}
