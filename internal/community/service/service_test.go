package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strive/internal/community/models"
	"strive/internal/community/store"
	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return New(store.NewInMemory())
}

func mustCreate(t *testing.T, svc *Service, name string, creator id.UserID) *models.Community {
	t.Helper()
	community, err := svc.Create(context.Background(), name, "a place to strive", creator)
	require.NoError(t, err)
	return community
}

func TestCreateSeedsCreatorAsOnlyMember(t *testing.T) {
	svc := newTestService(t)
	creator := id.NewUserID()

	community := mustCreate(t, svc, "runners", creator)

	require.Len(t, community.Members, 1)
	assert.True(t, community.HasMember(creator))
	assert.Empty(t, community.Posts)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "desc", id.NewUserID())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = svc.Create(ctx, strings.Repeat("x", 129), "desc", id.NewUserID())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestJoin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	community := mustCreate(t, svc, "runners", id.NewUserID())
	user := id.NewUserID()

	require.NoError(t, svc.Join(ctx, community.ID, user))

	t.Run("joining twice rejected", func(t *testing.T) {
		err := svc.Join(ctx, community.ID, user)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAllowed))
	})
	t.Run("unknown community", func(t *testing.T) {
		err := svc.Join(ctx, id.NewCommunityID(), user)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestLeave(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	creator := id.NewUserID()
	community := mustCreate(t, svc, "runners", creator)

	require.NoError(t, svc.Leave(ctx, community.ID, creator))

	t.Run("non-member rejected", func(t *testing.T) {
		err := svc.Leave(ctx, community.ID, id.NewUserID())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAllowed))
	})
	t.Run("unknown community", func(t *testing.T) {
		err := svc.Leave(ctx, id.NewCommunityID(), creator)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestAssertMemberDoesNotMutate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	creator := id.NewUserID()
	community := mustCreate(t, svc, "runners", creator)

	require.NoError(t, svc.AssertMember(ctx, community.ID, creator))

	err := svc.AssertMember(ctx, community.ID, id.NewUserID())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAllowed))

	listed, err := svc.ListByMember(ctx, creator)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Len(t, listed[0].Members, 1)
}

func TestPostLinkage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	community := mustCreate(t, svc, "runners", id.NewUserID())
	post := id.NewPostID()

	require.NoError(t, svc.AddLinkedPost(ctx, community.ID, post))

	found, err := svc.FindByLinkedPost(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, community.ID, found.ID)

	require.NoError(t, svc.RemoveLinkedPost(ctx, community.ID, post))

	_, err = svc.FindByLinkedPost(ctx, post)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	// Unlinking an absent post succeeds silently.
	require.NoError(t, svc.RemoveLinkedPost(ctx, community.ID, post))
}

func TestListByNameAndMember(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := id.NewUserID()

	mustCreate(t, svc, "runners", alice)
	mustCreate(t, svc, "swimmers", id.NewUserID())

	byName, err := svc.GetByName(ctx, "runners")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "runners", byName[0].Name)

	byMember, err := svc.ListByMember(ctx, alice)
	require.NoError(t, err)
	require.Len(t, byMember, 1)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
