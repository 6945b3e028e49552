package dialoguetree

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley-server/services/negotiation-api/internal/domain/legalcase"
	"parley-server/services/negotiation-api/internal/domain/message"
	"parley-server/services/negotiation-api/internal/domain/simulation"
	"parley-server/services/negotiation-api/internal/infrastructure/repository/messagerepo"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

// scriptedCompleter hands out canned responses, one per call, in order.
type scriptedCompleter struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
}

func (c *scriptedCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.calls
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return "", c.errs[i]
	}
	if i < len(c.responses) {
		return c.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

type stubCaseRepo struct {
	cases map[uint]*legalcase.Case
}

func (r *stubCaseRepo) Create(context.Context, *legalcase.Case) error { return nil }
func (r *stubCaseRepo) FindByID(_ context.Context, id uint) (*legalcase.Case, error) {
	if c, ok := r.cases[id]; ok {
		return c, nil
	}
	return nil, errors.New("case not found")
}
func (r *stubCaseRepo) FindAll(context.Context) ([]*legalcase.Case, error) { return nil, nil }
func (r *stubCaseRepo) Update(context.Context, *legalcase.Case) error      { return nil }
func (r *stubCaseRepo) Delete(context.Context, uint) error                 { return nil }
func (r *stubCaseRepo) Exists(_ context.Context, id uint) (bool, error) {
	_, ok := r.cases[id]
	return ok, nil
}

type stubSimRepo struct {
	sims map[uint]*simulation.Simulation
}

func (r *stubSimRepo) Create(context.Context, *simulation.Simulation) error { return nil }
func (r *stubSimRepo) FindByID(_ context.Context, id uint) (*simulation.Simulation, error) {
	if s, ok := r.sims[id]; ok {
		return s, nil
	}
	return nil, errors.New("simulation not found")
}
func (r *stubSimRepo) FindByCase(context.Context, uint) ([]*simulation.Simulation, error) {
	return nil, nil
}
func (r *stubSimRepo) CountByCase(context.Context, uint) (int64, error) { return 0, nil }
func (r *stubSimRepo) Delete(context.Context, uint) error               { return nil }

func newGenerationFixture(t *testing.T, completer Completer) (*Service, *messagerepo.InMemoryRepository) {
	t.Helper()
	repo := messagerepo.NewInMemoryRepository()
	tx := messagerepo.NewInMemoryTransactor(repo)
	trees := message.NewService(repo, tx, zerolog.Nop())

	cases := &stubCaseRepo{cases: map[uint]*legalcase.Case{
		1: {ID: 1, Name: "Acme v Bolt", Context: legalcase.DefaultContext("Acme", "Bolt")},
	}}
	sims := &stubSimRepo{sims: map[uint]*simulation.Simulation{
		1: {ID: 1, Headline: "Settlement talks", Brief: "Settle below $100k", CaseID: 1},
	}}

	svc := NewService(completer, trees, repo, cases, sims,
		Options{Attempts: 3, AttemptTimeout: time.Second}, zerolog.Nop())
	return svc, repo
}

func TestGenerateFirstValidWins(t *testing.T) {
	completer := &scriptedCompleter{
		responses: []string{"not json", `{"scenarios_tree":{}}`, validTreeJSON(t)},
	}
	svc, _ := newGenerationFixture(t, completer)

	result := svc.Generate(context.Background(), PromptInput{CaseBackground: "bg", SimulationGoal: "goal"})
	require.Empty(t, result.Error)
	assert.Equal(t, 13, result.Tree.NodeCount())
}

func TestGenerateAllFailReturnsSentinel(t *testing.T) {
	completer := &scriptedCompleter{
		responses: []string{"garbage", "also garbage", `{"scenarios_tree":{"line":"x","level":1}}`},
	}
	svc, _ := newGenerationFixture(t, completer)

	result := svc.Generate(context.Background(), PromptInput{CaseBackground: "bg", SimulationGoal: "goal"})
	assert.Equal(t, "All 3 parallel attempts failed to generate valid response", result.Error)
	assert.Equal(t, "Failed to parse JSON from all 3 API calls", result.RawResponse)
	assert.Equal(t, Sentinel().Root.Line, result.Tree.Root.Line)
}

func TestGenerateToleratesCallErrors(t *testing.T) {
	completer := &scriptedCompleter{
		errs:      []error{errors.New("upstream 500"), errors.New("timeout"), nil},
		responses: []string{"", "", validTreeJSON(t)},
	}
	svc, _ := newGenerationFixture(t, completer)

	result := svc.Generate(context.Background(), PromptInput{CaseBackground: "bg", SimulationGoal: "goal"})
	assert.Empty(t, result.Error)
	assert.Equal(t, 13, result.Tree.NodeCount())
}

func TestPersistFreshTree(t *testing.T) {
	svc, repo := newGenerationFixture(t, &scriptedCompleter{})
	ctx := context.Background()

	tree := validTree()
	require.NoError(t, svc.Persist(ctx, 1, &tree, nil))

	all, err := repo.FindBySimulation(ctx, 1)
	require.NoError(t, err)
	require.Len(t, all, 13)

	// Root is the selected opening; everything else starts unselected.
	root := all[0]
	assert.Nil(t, root.ParentID)
	assert.True(t, root.Selected)
	assert.Equal(t, message.RolePartyA, root.Role)
	for _, msg := range all[1:] {
		assert.False(t, msg.Selected)
		require.NotNil(t, msg.ParentID)
	}

	// Three children under the root, three under each of those.
	children, err := repo.FindChildren(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 3)
	for _, child := range children {
		assert.Equal(t, message.RolePartyB, child.Role)
		grandchildren, err := repo.FindChildren(ctx, child.ID)
		require.NoError(t, err)
		assert.Len(t, grandchildren, 3)
	}
}

func TestPersistContinuationReusesNode(t *testing.T) {
	svc, repo := newGenerationFixture(t, &scriptedCompleter{})
	ctx := context.Background()

	leaf := &message.Message{Role: message.RolePartyA, Content: "existing leaf", Selected: true, SimulationID: 1}
	require.NoError(t, repo.Create(ctx, leaf))

	tree := validTree()
	require.NoError(t, svc.Persist(ctx, 1, &tree, &leaf.ID))

	all, err := repo.FindBySimulation(ctx, 1)
	require.NoError(t, err)
	// The supplied node stands in for level 1; only levels 2 and 3 land.
	require.Len(t, all, 13)

	children, err := repo.FindChildren(ctx, leaf.ID)
	require.NoError(t, err)
	assert.Len(t, children, 3)
}

func TestPersistContinuationUnknownNode(t *testing.T) {
	svc, _ := newGenerationFixture(t, &scriptedCompleter{})
	tree := validTree()
	missing := uint(42)
	assert.Error(t, svc.Persist(context.Background(), 1, &tree, &missing))
}

func TestPersistContinuationRejectsForeignNode(t *testing.T) {
	svc, repo := newGenerationFixture(t, &scriptedCompleter{})
	ctx := context.Background()

	foreign := &message.Message{Role: message.RolePartyA, Content: "other tree", Selected: true, SimulationID: 1}
	require.NoError(t, repo.Create(ctx, foreign))

	// Continuing simulation 2 from a simulation-1 node must fail, not graft
	// children across trees.
	tree := validTree()
	err := svc.Persist(ctx, 2, &tree, &foreign.ID)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	all, err := repo.FindBySimulation(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, all)

	children, err := repo.FindChildren(ctx, foreign.ID)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestPersistSecondFreshTreeKeepsOneSelectedRoot(t *testing.T) {
	svc, repo := newGenerationFixture(t, &scriptedCompleter{})
	ctx := context.Background()

	first := validTree()
	require.NoError(t, svc.Persist(ctx, 1, &first, nil))
	second := validTree()
	require.NoError(t, svc.Persist(ctx, 1, &second, nil))

	roots, err := repo.FindSiblings(ctx, 1, nil)
	require.NoError(t, err)
	require.Len(t, roots, 2)

	var selected int
	for _, root := range roots {
		if root.Selected {
			selected++
		}
	}
	assert.Equal(t, 1, selected)
}

func TestContinueConversationFreshRound(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{validTreeJSON(t), validTreeJSON(t), validTreeJSON(t)}}
	svc, repo := newGenerationFixture(t, completer)
	ctx := context.Background()

	result, err := svc.ContinueConversation(ctx, ContinueRequest{CaseID: 1, SimulationID: 1})
	require.NoError(t, err)
	assert.Empty(t, result.Error)

	all, err := repo.FindBySimulation(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, all, 13)
}

func TestContinueConversationSentinelStillPersists(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{"bad", "bad", "bad"}}
	svc, repo := newGenerationFixture(t, completer)
	ctx := context.Background()

	result, err := svc.ContinueConversation(ctx, ContinueRequest{CaseID: 1, SimulationID: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Error)

	// The sentinel becomes the root so the client always has a node to show.
	all, err := repo.FindBySimulation(ctx, 1)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, Sentinel().Root.Line, all[0].Content)
	assert.True(t, all[0].Selected)
}

func TestContinueConversationRefreshReplacesSubtree(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{validTreeJSON(t), validTreeJSON(t), validTreeJSON(t)}}
	svc, repo := newGenerationFixture(t, completer)
	ctx := context.Background()

	root := &message.Message{Role: message.RolePartyA, Content: "opening", Selected: true, SimulationID: 1}
	require.NoError(t, repo.Create(ctx, root))
	stale := &message.Message{ParentID: &root.ID, Role: message.RolePartyB, Content: "stale branch", SimulationID: 1}
	require.NoError(t, repo.Create(ctx, stale))

	result, err := svc.ContinueConversation(ctx, ContinueRequest{
		CaseID: 1, SimulationID: 1, MessageID: &root.ID, Refresh: true,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Error)

	all, err := repo.FindBySimulation(ctx, 1)
	require.NoError(t, err)
	// Old branch gone, root plus 12 regenerated nodes remain.
	require.Len(t, all, 13)
	for _, msg := range all {
		assert.NotEqual(t, "stale branch", msg.Content)
	}
}

func TestContinueConversationUnknownCase(t *testing.T) {
	svc, _ := newGenerationFixture(t, &scriptedCompleter{})
	_, err := svc.ContinueConversation(context.Background(), ContinueRequest{CaseID: 99, SimulationID: 1})
	assert.Error(t, err)
}
