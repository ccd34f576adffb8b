package comment_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strive/internal/comment"
	communityservice "strive/internal/community/service"
	communitystore "strive/internal/community/store"
	goalservice "strive/internal/goal/service"
	goalstore "strive/internal/goal/store"
	"strive/internal/post"
	"strive/internal/workflow"
	id "strive/pkg/domain"
	"strive/pkg/testutil"
)

type testEnv struct {
	router   http.Handler
	posts    *post.Service
	comments *comment.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	comments := comment.NewService(comment.NewInMemoryStore())
	posts := post.NewService(post.NewInMemoryStore())
	communities := communityservice.New(communitystore.NewInMemory())
	goals := goalservice.New(goalstore.NewInMemory())
	workflows := workflow.New(communities, posts, comments, goals, workflow.NopTx{}, logger)

	router := chi.NewRouter()
	comment.NewHandler(comments, workflows, logger).Register(router)
	return &testEnv{router: router, posts: posts, comments: comments}
}

func TestHandleCreate(t *testing.T) {
	env := newTestEnv(t)
	author := id.NewUserID()
	target, err := env.posts.Create(context.Background(), id.NewUserID(), "a post")
	require.NoError(t, err)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/comments", map[string]string{
		"target":  target.ID.String(),
		"content": "well done",
	})
	rr := testutil.DoRequest(env.router, testutil.WithUserID(req, author.String()))

	testutil.AssertStatus(t, rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[comment.Comment](t, rr)
	assert.Equal(t, target.ID, created.Target)
	assert.Equal(t, author, created.Author)
}

func TestHandleCreateMissingTarget(t *testing.T) {
	env := newTestEnv(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/comments", map[string]string{
		"target":  id.NewPostID().String(),
		"content": "into the void",
	})
	rr := testutil.DoRequest(env.router, testutil.WithUserID(req, id.NewUserID().String()))

	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestHandleListByTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first, err := env.posts.Create(ctx, id.NewUserID(), "first")
	require.NoError(t, err)
	second, err := env.posts.Create(ctx, id.NewUserID(), "second")
	require.NoError(t, err)
	_, err = env.comments.Create(ctx, id.NewUserID(), first.ID, "on first")
	require.NoError(t, err)
	_, err = env.comments.Create(ctx, id.NewUserID(), second.ID, "on second")
	require.NoError(t, err)

	rr := testutil.DoRequest(env.router, testutil.NewRequest(t, http.MethodGet, "/comments?target="+first.ID.String()))
	testutil.AssertStatusOK(t, rr)
	listed := testutil.UnmarshalResponse[[]comment.Comment](t, rr)
	require.Len(t, *listed, 1)
	assert.Equal(t, "on first", (*listed)[0].Content)
}

func TestHandleUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := id.NewUserID()
	target, err := env.posts.Create(ctx, id.NewUserID(), "a post")
	require.NoError(t, err)
	created, err := env.comments.Create(ctx, author, target.ID, "draft")
	require.NoError(t, err)
	path := "/comments/" + created.ID.String()

	t.Run("stranger forbidden", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPatch, path, map[string]string{"content": "hijacked"})
		rr := testutil.DoRequest(env.router, testutil.WithUserID(req, id.NewUserID().String()))
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "not_allowed")
	})

	t.Run("author edits", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPatch, path, map[string]string{"content": "final"})
		rr := testutil.DoRequest(env.router, testutil.WithUserID(req, author.String()))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "content", "final")
	})

	t.Run("author deletes", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodDelete, path)
		rr := testutil.DoRequest(env.router, testutil.WithUserID(req, author.String()))
		testutil.AssertStatusOK(t, rr)

		_, err := env.comments.Get(ctx, created.ID)
		assert.Error(t, err)
	})
}
