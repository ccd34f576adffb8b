package workflow

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strive/internal/comment"
	communityservice "strive/internal/community/service"
	communitystore "strive/internal/community/store"
	goalmodels "strive/internal/goal/models"
	goalservice "strive/internal/goal/service"
	goalstore "strive/internal/goal/store"
	"strive/internal/post"
	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
)

type fixture struct {
	workflows   *Service
	communities *communityservice.Service
	posts       *post.Service
	comments    *comment.Service
	goals       *goalservice.Service
}

type wiring struct {
	communities Communities
	posts       Posts
}

func newFixture(t *testing.T, override func(f *fixture, w *wiring)) *fixture {
	t.Helper()
	f := &fixture{
		communities: communityservice.New(communitystore.NewInMemory()),
		posts:       post.NewService(post.NewInMemoryStore()),
		comments:    comment.NewService(comment.NewInMemoryStore()),
		goals:       goalservice.New(goalstore.NewInMemory()),
	}
	w := &wiring{communities: f.communities, posts: f.posts}
	if override != nil {
		override(f, w)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.workflows = New(w.communities, w.posts, f.comments, f.goals, NopTx{}, logger)
	return f
}

func (f *fixture) community(t *testing.T, creator id.UserID) id.CommunityID {
	t.Helper()
	community, err := f.communities.Create(context.Background(), "striders", "", creator)
	require.NoError(t, err)
	return community.ID
}

// failingLink rejects every post link attempt, simulating a linkage failure
// after the post write succeeded.
type failingLink struct {
	*communityservice.Service
}

func (f *failingLink) AddLinkedPost(context.Context, id.CommunityID, id.PostID) error {
	return dErrors.New(dErrors.CodeInternal, "link storage unavailable")
}

// failingDelete rejects every post deletion, simulating a failure after the
// community link was already removed.
type failingDelete struct {
	*post.Service
}

func (f *failingDelete) Delete(context.Context, id.PostID) error {
	return dErrors.New(dErrors.CodeInternal, "post storage unavailable")
}

func TestCreatePostInCommunity(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	member := id.NewUserID()
	communityID := f.community(t, member)

	created, err := f.workflows.CreatePostInCommunity(ctx, communityID, member, "first 5k done")
	require.NoError(t, err)

	owning, err := f.communities.FindByLinkedPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, communityID, owning.ID)

	fetched, err := f.posts.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, member, fetched.Author)
}

func TestCreatePostInCommunityRejectsNonMember(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	communityID := f.community(t, id.NewUserID())

	_, err := f.workflows.CreatePostInCommunity(ctx, communityID, id.NewUserID(), "hello")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAllowed))

	posts, err := f.posts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts, "no post may exist when membership is denied")
}

func TestCreatePostInCommunityCompensatesFailedLink(t *testing.T) {
	f := newFixture(t, func(f *fixture, w *wiring) {
		w.communities = &failingLink{Service: f.communities}
	})
	ctx := context.Background()
	member := id.NewUserID()
	communityID := f.community(t, member)

	_, err := f.workflows.CreatePostInCommunity(ctx, communityID, member, "hello")
	require.Error(t, err)

	posts, listErr := f.posts.List(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, posts, "orphaned post must be deleted when linking fails")
}

func TestDeletePostRemovesLinkAndPost(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	member := id.NewUserID()
	communityID := f.community(t, member)

	created, err := f.workflows.CreatePostInCommunity(ctx, communityID, member, "hello")
	require.NoError(t, err)

	require.NoError(t, f.workflows.DeletePost(ctx, created.ID, member))

	_, err = f.posts.Get(ctx, created.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = f.communities.FindByLinkedPost(ctx, created.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestDeletePostRejectsNonAuthor(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	member := id.NewUserID()
	communityID := f.community(t, member)

	created, err := f.workflows.CreatePostInCommunity(ctx, communityID, member, "hello")
	require.NoError(t, err)

	err = f.workflows.DeletePost(ctx, created.ID, id.NewUserID())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAllowed))

	_, err = f.posts.Get(ctx, created.ID)
	assert.NoError(t, err, "post survives a denied deletion")
}

func TestDeletePostToleratesUnlinkedPost(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	author := id.NewUserID()

	created, err := f.posts.Create(ctx, author, "never linked")
	require.NoError(t, err)

	require.NoError(t, f.workflows.DeletePost(ctx, created.ID, author))
	_, err = f.posts.Get(ctx, created.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestDeletePostRestoresLinkWhenDeleteFails(t *testing.T) {
	f := newFixture(t, func(f *fixture, w *wiring) {
		w.posts = &failingDelete{Service: f.posts}
	})
	ctx := context.Background()
	member := id.NewUserID()
	communityID := f.community(t, member)

	created, err := f.posts.Create(ctx, member, "hello")
	require.NoError(t, err)
	require.NoError(t, f.communities.AddLinkedPost(ctx, communityID, created.ID))

	err = f.workflows.DeletePost(ctx, created.ID, member)
	require.Error(t, err)

	owning, findErr := f.communities.FindByLinkedPost(ctx, created.ID)
	require.NoError(t, findErr, "link must be restored when the delete fails")
	assert.Equal(t, communityID, owning.ID)
}

func TestCreateComment(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	member := id.NewUserID()
	communityID := f.community(t, member)

	created, err := f.workflows.CreatePostInCommunity(ctx, communityID, member, "hello")
	require.NoError(t, err)

	commenter := id.NewUserID()
	written, err := f.workflows.CreateComment(ctx, created.ID, commenter, "nice work")
	require.NoError(t, err)
	assert.Equal(t, created.ID, written.Target)

	t.Run("missing target rejected", func(t *testing.T) {
		_, err := f.workflows.CreateComment(ctx, id.NewPostID(), commenter, "hello?")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("comment outlives its target", func(t *testing.T) {
		require.NoError(t, f.workflows.DeletePost(ctx, created.ID, member))
		fetched, err := f.comments.Get(ctx, written.ID)
		require.NoError(t, err)
		assert.Equal(t, "nice work", fetched.Content)
	})
}

func TestCommunityGoalLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	member := id.NewUserID()
	communityID := f.community(t, member)
	target := time.Now().AddDate(0, 1, 0)

	goal, err := f.workflows.CreateCommunityGoal(ctx, communityID, member, "team miles", "mi", 200, target)
	require.NoError(t, err)
	assert.Equal(t, goalmodels.CommunityOwner(communityID), goal.Owner)

	t.Run("non-member cannot create", func(t *testing.T) {
		_, err := f.workflows.CreateCommunityGoal(ctx, communityID, id.NewUserID(), "x", "mi", 10, target)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAllowed))
	})

	t.Run("member adds progress", func(t *testing.T) {
		updated, err := f.workflows.AddCommunityGoalProgress(ctx, goal.ID, member, 50)
		require.NoError(t, err)
		assert.Equal(t, 50.0, updated.Progress)
	})

	t.Run("non-member cannot add progress", func(t *testing.T) {
		_, err := f.workflows.AddCommunityGoalProgress(ctx, goal.ID, id.NewUserID(), 10)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAllowed))
	})

	t.Run("member updates", func(t *testing.T) {
		name := "team kilometres"
		updated, err := f.workflows.UpdateCommunityGoal(ctx, goal.ID, member, goalservice.UpdateRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "team kilometres", updated.Name)
	})

	t.Run("member deletes", func(t *testing.T) {
		require.NoError(t, f.workflows.DeleteCommunityGoal(ctx, goal.ID, member))
		_, err := f.goals.Get(ctx, goal.ID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestCommunityGoalOpsRejectUserOwnedGoals(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := id.NewUserID()

	goal, err := f.goals.Create(ctx, goalmodels.UserOwner(owner), "solo", "km", 10, time.Now().AddDate(0, 1, 0))
	require.NoError(t, err)

	_, err = f.workflows.AddCommunityGoalProgress(ctx, goal.ID, owner, 5)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAllowed))
}
