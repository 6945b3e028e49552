package legalcase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley-server/services/negotiation-api/internal/domain/simulation"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

type stubCaseRepo struct {
	cases  map[uint]*Case
	nextID uint
}

func newStubCaseRepo() *stubCaseRepo {
	return &stubCaseRepo{cases: map[uint]*Case{}, nextID: 1}
}

func (r *stubCaseRepo) Create(_ context.Context, c *Case) error {
	c.ID = r.nextID
	r.nextID++
	clone := *c
	r.cases[c.ID] = &clone
	return nil
}

func (r *stubCaseRepo) FindByID(ctx context.Context, id uint) (*Case, error) {
	c, ok := r.cases[id]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("case %d not found", id), nil, "")
	}
	clone := *c
	return &clone, nil
}

func (r *stubCaseRepo) FindAll(_ context.Context) ([]*Case, error) {
	out := make([]*Case, 0, len(r.cases))
	for id := uint(1); id < r.nextID; id++ {
		if c, ok := r.cases[id]; ok {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubCaseRepo) Update(_ context.Context, c *Case) error {
	clone := *c
	r.cases[c.ID] = &clone
	return nil
}

func (r *stubCaseRepo) Delete(_ context.Context, id uint) error {
	delete(r.cases, id)
	return nil
}

func (r *stubCaseRepo) Exists(_ context.Context, id uint) (bool, error) {
	_, ok := r.cases[id]
	return ok, nil
}

type stubSimSource struct {
	byCase map[uint][]*simulation.Simulation
}

func (s *stubSimSource) FindByCase(_ context.Context, caseID uint) ([]*simulation.Simulation, error) {
	return s.byCase[caseID], nil
}

func (s *stubSimSource) CountByCase(_ context.Context, caseID uint) (int64, error) {
	return int64(len(s.byCase[caseID])), nil
}

type stubMessageCounter struct {
	counts map[uint]int64
}

func (s *stubMessageCounter) CountBySimulation(_ context.Context, simulationID uint) (int64, error) {
	return s.counts[simulationID], nil
}

type stubSummarizer struct {
	summary string
	err     error
	gotText string
}

func (s *stubSummarizer) SummarizeBackground(_ context.Context, background string, _ int) (string, error) {
	s.gotText = background
	return s.summary, s.err
}

func newCaseFixture() (*Service, *stubCaseRepo, *stubSimSource, *stubSummarizer) {
	repo := newStubCaseRepo()
	sims := &stubSimSource{byCase: map[uint][]*simulation.Simulation{}}
	counter := &stubMessageCounter{counts: map[uint]int64{}}
	summarizer := &stubSummarizer{summary: "a short summary"}
	svc := NewService(repo, sims, counter, summarizer, zerolog.Nop())
	return svc, repo, sims, summarizer
}

func TestCreateBuildsDefaultContext(t *testing.T) {
	svc, repo, _, _ := newCaseFixture()

	created, err := svc.Create(context.Background(), "Sterling v. Sterling", "Alexander", "Clara", nil)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	stored := repo.cases[created.ID]
	bg := ParseBackground(stored.Context)
	assert.Equal(t, "Alexander", bg.PartyA)
	assert.Equal(t, "Clara", bg.PartyB)
}

func TestCreateKeepsProvidedContext(t *testing.T) {
	svc, repo, _, _ := newCaseFixture()

	doc := DefaultContext("A", "B")
	created, err := svc.Create(context.Background(), "Case", "A", "B", &doc)
	require.NoError(t, err)
	assert.Equal(t, doc, repo.cases[created.ID].Context)
}

func TestCreateRejectsEmptyName(t *testing.T) {
	svc, _, _, _ := newCaseFixture()

	_, err := svc.Create(context.Background(), "", "A", "B", nil)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestListCountsSimulations(t *testing.T) {
	svc, _, sims, _ := newCaseFixture()

	first, err := svc.Create(context.Background(), "first", "A", "B", nil)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "second", "A", "B", nil)
	require.NoError(t, err)

	sims.byCase[first.ID] = []*simulation.Simulation{
		{ID: 10, CaseID: first.ID},
		{ID: 11, CaseID: first.ID},
	}

	overviews, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, overviews, 2)
	assert.Equal(t, int64(2), overviews[0].SimulationCount)
	assert.Equal(t, int64(0), overviews[1].SimulationCount)
}

func TestDetailIncludesBackgroundAndTreeSizes(t *testing.T) {
	svc, _, sims, _ := newCaseFixture()

	created, err := svc.Create(context.Background(), "Case", "Alice", "Bob", nil)
	require.NoError(t, err)

	sims.byCase[created.ID] = []*simulation.Simulation{{ID: 7, CaseID: created.ID, Headline: "round one"}}
	counter := svc.messages.(*stubMessageCounter)
	counter.counts[7] = 13

	detail, err := svc.Detail(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", detail.Background.PartyA)
	require.Len(t, detail.Simulations, 1)
	assert.Equal(t, int64(13), detail.Simulations[0].NodeCount)
}

func TestDetailUnknownCase(t *testing.T) {
	svc, _, _, _ := newCaseFixture()

	_, err := svc.Detail(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestUpdateBackgroundRefreshesSummary(t *testing.T) {
	svc, repo, _, summarizer := newCaseFixture()

	created, err := svc.Create(context.Background(), "Case", "Alice", "Bob", nil)
	require.NoError(t, err)

	updated, err := svc.UpdateBackground(context.Background(), created.ID, BackgroundPatch{
		PartyB:    strPtr("Robert"),
		KeyIssues: strPtr("Pension split"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Robert", updated.PartyB)
	assert.Equal(t, "a short summary", updated.Summary)
	assert.Contains(t, summarizer.gotText, "Pension split")

	bg := ParseBackground(repo.cases[created.ID].Context)
	assert.Equal(t, "Alice", bg.PartyA)
	assert.Equal(t, "Robert", bg.PartyB)
}

func TestUpdateBackgroundSummaryFailureStillCommits(t *testing.T) {
	svc, repo, _, summarizer := newCaseFixture()
	summarizer.err = errors.New("model unavailable")

	created, err := svc.Create(context.Background(), "Case", "Alice", "Bob", nil)
	require.NoError(t, err)

	updated, err := svc.UpdateBackground(context.Background(), created.ID, BackgroundPatch{
		GeneralNotes: strPtr("parties remain civil"),
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Summary)

	bg := ParseBackground(repo.cases[created.ID].Context)
	assert.Equal(t, "parties remain civil", bg.GeneralNotes)
}

func TestDeleteUnknownCase(t *testing.T) {
	svc, _, _, _ := newCaseFixture()

	err := svc.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}
