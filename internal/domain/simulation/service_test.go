package simulation

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

type stubSimRepo struct {
	sims   map[uint]*Simulation
	nextID uint
}

func newStubSimRepo() *stubSimRepo {
	return &stubSimRepo{sims: map[uint]*Simulation{}, nextID: 1}
}

func (r *stubSimRepo) Create(_ context.Context, sim *Simulation) error {
	sim.ID = r.nextID
	r.nextID++
	clone := *sim
	r.sims[sim.ID] = &clone
	return nil
}

func (r *stubSimRepo) FindByID(ctx context.Context, id uint) (*Simulation, error) {
	sim, ok := r.sims[id]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("simulation %d not found", id), nil, "")
	}
	clone := *sim
	return &clone, nil
}

func (r *stubSimRepo) FindByCase(_ context.Context, caseID uint) ([]*Simulation, error) {
	var out []*Simulation
	for id := uint(1); id < r.nextID; id++ {
		if sim, ok := r.sims[id]; ok && sim.CaseID == caseID {
			clone := *sim
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubSimRepo) CountByCase(_ context.Context, caseID uint) (int64, error) {
	var n int64
	for _, sim := range r.sims {
		if sim.CaseID == caseID {
			n++
		}
	}
	return n, nil
}

func (r *stubSimRepo) Delete(_ context.Context, id uint) error {
	delete(r.sims, id)
	return nil
}

type stubCaseDirectory struct {
	known map[uint]bool
}

func (s *stubCaseDirectory) Exists(_ context.Context, id uint) (bool, error) {
	return s.known[id], nil
}

type recordingScrubber struct {
	forgotten []uint
}

func (s *recordingScrubber) ForgetTree(simulationID uint) {
	s.forgotten = append(s.forgotten, simulationID)
}

func newSimFixture() (*Service, *stubSimRepo, *recordingScrubber) {
	repo := newStubSimRepo()
	cases := &stubCaseDirectory{known: map[uint]bool{1: true}}
	scrubber := &recordingScrubber{}
	svc := NewService(repo, cases, scrubber, zerolog.Nop())
	return svc, repo, scrubber
}

func TestCreateSimulation(t *testing.T) {
	svc, _, _ := newSimFixture()

	sim, err := svc.Create(context.Background(), "Opening round", "First exchange of positions", 1)
	require.NoError(t, err)
	assert.NotZero(t, sim.ID)
	assert.Equal(t, uint(1), sim.CaseID)
}

func TestCreateSimulationUnknownCase(t *testing.T) {
	svc, _, _ := newSimFixture()

	_, err := svc.Create(context.Background(), "h", "b", 42)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestDeleteSimulationScrubsTreeState(t *testing.T) {
	svc, repo, scrubber := newSimFixture()

	sim, err := svc.Create(context.Background(), "h", "b", 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), sim.ID))
	assert.Empty(t, repo.sims)
	assert.Equal(t, []uint{sim.ID}, scrubber.forgotten)
}

func TestDeleteSimulationUnknown(t *testing.T) {
	svc, _, scrubber := newSimFixture()

	err := svc.Delete(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	assert.Empty(t, scrubber.forgotten)
}
