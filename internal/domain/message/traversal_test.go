package message_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley-server/services/negotiation-api/internal/domain/message"
	"parley-server/services/negotiation-api/internal/infrastructure/repository/messagerepo"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

func TestPathToRoot(t *testing.T) {
	repo := messagerepo.NewInMemoryRepository()
	ctx := context.Background()
	root := mustCreate(t, repo, 1, nil, message.RolePartyA, "opening", false)                 // id 1
	mid := mustCreate(t, repo, 1, ptr(root.ID), message.RolePartyB, "counter", false)        // id 2
	mustCreate(t, repo, 1, ptr(root.ID), message.RolePartyB, "other branch", false)          // id 3
	leaf := mustCreate(t, repo, 1, ptr(mid.ID), message.RolePartyA, "final position", false) // id 4

	path, err := message.PathToRoot(ctx, repo, leaf.ID)
	require.NoError(t, err)
	require.Len(t, path, 3)
	assert.Equal(t, []uint{root.ID, mid.ID, leaf.ID}, []uint{path[0].ID, path[1].ID, path[2].ID})

	// Single-node path for a root.
	path, err = message.PathToRoot(ctx, repo, root.ID)
	require.NoError(t, err)
	require.Len(t, path, 1)

	_, err = message.PathToRoot(ctx, repo, 99)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestPathToRootDanglingParent(t *testing.T) {
	repo := messagerepo.NewInMemoryRepository()
	ctx := context.Background()
	root := mustCreate(t, repo, 1, nil, message.RolePartyA, "opening", false)
	orphan := mustCreate(t, repo, 1, ptr(root.ID), message.RolePartyB, "reply", false)
	_, err := repo.DeleteByIDs(ctx, []uint{root.ID})
	require.NoError(t, err)

	// The walk stops at the break instead of failing.
	path, err := message.PathToRoot(ctx, repo, orphan.ID)
	require.NoError(t, err)
	require.Len(t, path, 1)
	assert.Equal(t, orphan.ID, path[0].ID)
}

func TestFlattenDepthFirst(t *testing.T) {
	// Interleave creation so id order and structural order differ within
	// sibling groups but agree overall.
	msgs := []*message.Message{
		{ID: 1, Role: message.RolePartyA, Content: "root"},
		{ID: 2, ParentID: ptr(1), Role: message.RolePartyB, Content: "b1"},
		{ID: 3, ParentID: ptr(1), Role: message.RolePartyB, Content: "b2"},
		{ID: 4, ParentID: ptr(2), Role: message.RolePartyA, Content: "b1a"},
		{ID: 5, ParentID: ptr(3), Role: message.RolePartyA, Content: "b2a"},
	}

	ordered := message.Flatten(msgs)
	require.Len(t, ordered, 5)
	ids := make([]uint, len(ordered))
	for i, m := range ordered {
		ids[i] = m.ID
	}
	assert.Equal(t, []uint{1, 2, 3, 4, 5}, ids)

	// Applying the ordering twice changes nothing.
	again := message.Flatten(ordered)
	for i := range again {
		assert.Equal(t, ordered[i].ID, again[i].ID)
	}
}

func TestFlattenEmpty(t *testing.T) {
	assert.Nil(t, message.Flatten(nil))
	assert.Nil(t, message.Flatten([]*message.Message{}))
}

func TestBuildNested(t *testing.T) {
	msgs := []*message.Message{
		{ID: 1, Role: message.RolePartyA, Content: "root"},
		{ID: 3, ParentID: ptr(1), Role: message.RolePartyB, Content: "late child"},
		{ID: 2, ParentID: ptr(1), Role: message.RolePartyB, Content: "early child"},
		{ID: 4, ParentID: ptr(2), Role: message.RolePartyA, Content: "grandchild"},
		{ID: 5, Role: message.RoleSystem, Content: "second root"},
	}

	roots := message.BuildNested(msgs)
	require.Len(t, roots, 2)
	assert.Equal(t, uint(1), roots[0].ID)
	assert.Equal(t, uint(5), roots[1].ID)

	// Children sorted ascending by id regardless of input order.
	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, uint(2), roots[0].Children[0].ID)
	assert.Equal(t, uint(3), roots[0].Children[1].ID)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, uint(4), roots[0].Children[0].Children[0].ID)
	assert.Empty(t, roots[1].Children)
}
