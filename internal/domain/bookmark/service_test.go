package bookmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

type stubBookmarkRepo struct {
	bookmarks map[uint]*Bookmark
	nextID    uint
}

func newStubBookmarkRepo() *stubBookmarkRepo {
	return &stubBookmarkRepo{bookmarks: map[uint]*Bookmark{}, nextID: 1}
}

func (r *stubBookmarkRepo) Create(_ context.Context, b *Bookmark) error {
	b.ID = r.nextID
	r.nextID++
	clone := *b
	r.bookmarks[b.ID] = &clone
	return nil
}

func (r *stubBookmarkRepo) FindByID(ctx context.Context, id uint) (*Bookmark, error) {
	b, ok := r.bookmarks[id]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("bookmark %d not found", id), nil, "")
	}
	clone := *b
	return &clone, nil
}

func (r *stubBookmarkRepo) FindBySimulation(_ context.Context, simulationID uint) ([]*Bookmark, error) {
	var out []*Bookmark
	for id := uint(1); id < r.nextID; id++ {
		if b, ok := r.bookmarks[id]; ok && b.SimulationID == simulationID {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubBookmarkRepo) FindBySimulationAndMessage(_ context.Context, simulationID, messageID uint) (*Bookmark, error) {
	for _, b := range r.bookmarks {
		if b.SimulationID == simulationID && b.MessageID == messageID {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *stubBookmarkRepo) Delete(_ context.Context, id uint) error {
	delete(r.bookmarks, id)
	return nil
}

type stubChecker struct {
	known map[uint]bool
}

func (s *stubChecker) Exists(_ context.Context, id uint) (bool, error) {
	return s.known[id], nil
}

func newBookmarkFixture() (*Service, *stubBookmarkRepo, *stubChecker, *stubChecker) {
	repo := newStubBookmarkRepo()
	sims := &stubChecker{known: map[uint]bool{1: true}}
	messages := &stubChecker{known: map[uint]bool{10: true, 11: true}}
	svc := NewService(repo, sims, messages, zerolog.Nop())
	return svc, repo, sims, messages
}

func TestCreateBookmark(t *testing.T) {
	svc, _, _, _ := newBookmarkFixture()

	created, err := svc.Create(context.Background(), 1, 10, "key concession")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "key concession", created.Name)
}

func TestCreateBookmarkUnknownSimulation(t *testing.T) {
	svc, _, _, _ := newBookmarkFixture()

	_, err := svc.Create(context.Background(), 99, 10, "")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestCreateBookmarkUnknownMessage(t *testing.T) {
	svc, _, _, _ := newBookmarkFixture()

	_, err := svc.Create(context.Background(), 1, 99, "")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestCreateBookmarkDuplicate(t *testing.T) {
	svc, _, _, _ := newBookmarkFixture()

	_, err := svc.Create(context.Background(), 1, 10, "first")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), 1, 10, "second")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestListBySimulation(t *testing.T) {
	svc, _, _, _ := newBookmarkFixture()

	_, err := svc.Create(context.Background(), 1, 10, "a")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 1, 11, "b")
	require.NoError(t, err)

	listed, err := svc.ListBySimulation(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestDeleteBookmark(t *testing.T) {
	svc, repo, _, _ := newBookmarkFixture()

	created, err := svc.Create(context.Background(), 1, 10, "a")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Empty(t, repo.bookmarks)

	err = svc.Delete(context.Background(), created.ID)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}
