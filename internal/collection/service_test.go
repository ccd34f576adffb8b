package collection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewInMemoryStore())
}

func TestCreateOwnedCollection(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := id.NewUserID()

	created, err := svc.Create(ctx, owner, "favourites", "posts I liked")
	require.NoError(t, err)
	require.NotNil(t, created.Owner)
	assert.Equal(t, owner, *created.Owner)
	assert.False(t, created.IsGlobal())

	_, err = svc.Create(ctx, id.UserID{}, "no owner", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestGlobalLibraryHasNoOwner(t *testing.T) {
	svc := newTestService(t)

	library, err := svc.CreateGlobalLibrary(context.Background(), "library", "everything")
	require.NoError(t, err)
	assert.Nil(t, library.Owner)
	assert.True(t, library.IsGlobal())
}

func TestOwnedCollectionCuration(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := id.NewUserID()
	created, err := svc.Create(ctx, owner, "favourites", "")
	require.NoError(t, err)
	post := id.NewPostID()

	require.NoError(t, svc.AddPost(ctx, created.ID, post, owner))

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, fetched.HasPost(post))

	t.Run("stranger cannot curate", func(t *testing.T) {
		err := svc.AddPost(ctx, created.ID, id.NewPostID(), id.NewUserID())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAllowed))

		err = svc.RemovePost(ctx, created.ID, post, id.NewUserID())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAllowed))
	})

	t.Run("removing an absent link is a no-op", func(t *testing.T) {
		assert.NoError(t, svc.RemovePost(ctx, created.ID, id.NewPostID(), owner))
	})

	require.NoError(t, svc.RemovePost(ctx, created.ID, post, owner))
	fetched, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, fetched.HasPost(post))
}

func TestAnyoneCuratesGlobalLibrary(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	library, err := svc.CreateGlobalLibrary(ctx, "library", "")
	require.NoError(t, err)
	post := id.NewPostID()

	require.NoError(t, svc.AddPost(ctx, library.ID, post, id.NewUserID()))
	require.NoError(t, svc.RemovePost(ctx, library.ID, post, id.NewUserID()))
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := id.NewUserID()
	created, err := svc.Create(ctx, owner, "favourites", "")
	require.NoError(t, err)

	t.Run("stranger cannot delete", func(t *testing.T) {
		err := svc.Delete(ctx, created.ID, id.NewUserID())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAllowed))
	})

	require.NoError(t, svc.Delete(ctx, created.ID, owner))
	_, err = svc.Get(ctx, created.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	t.Run("global library cannot be deleted", func(t *testing.T) {
		library, err := svc.CreateGlobalLibrary(ctx, "library", "")
		require.NoError(t, err)
		err = svc.Delete(ctx, library.ID, owner)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAllowed))
	})
}

func TestListByOwnerExcludesGlobal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := id.NewUserID()

	_, err := svc.Create(ctx, owner, "favourites", "")
	require.NoError(t, err)
	_, err = svc.CreateGlobalLibrary(ctx, "library", "")
	require.NoError(t, err)

	owned, err := svc.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, owned, 1)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
