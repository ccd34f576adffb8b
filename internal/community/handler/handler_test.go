package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strive/internal/community/models"
	"strive/internal/community/service"
	"strive/internal/community/store"
	id "strive/pkg/domain"
	"strive/pkg/testutil"
)

func newTestHandler(t *testing.T) (http.Handler, *service.Service) {
	t.Helper()
	svc := service.New(store.NewInMemory())
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router := chi.NewRouter()
	h.Register(router)
	return router, svc
}

func TestHandleCreate(t *testing.T) {
	router, _ := newTestHandler(t)
	creator := id.NewUserID()

	req := testutil.NewJSONRequest(t, http.MethodPost, "/communities", map[string]string{
		"name":        "runners",
		"description": "weekend long runs",
	})
	rr := testutil.DoRequest(router, testutil.WithUserID(req, creator.String()))

	testutil.AssertStatus(t, rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[models.Community](t, rr)
	assert.Equal(t, "runners", created.Name)
	assert.Equal(t, []id.UserID{creator}, created.Members)
}

func TestHandleCreateRequiresAuth(t *testing.T) {
	router, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/communities", map[string]string{"name": "runners"})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
}

func TestHandleCreateRejectsEmptyName(t *testing.T) {
	router, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/communities", map[string]string{"name": ""})
	rr := testutil.DoRequest(router, testutil.WithUserID(req, id.NewUserID().String()))

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
}

func TestHandleJoinAndLeave(t *testing.T) {
	router, svc := newTestHandler(t)
	community, err := svc.Create(context.Background(), "runners", "", id.NewUserID())
	require.NoError(t, err)
	user := id.NewUserID()

	join := func() *http.Request {
		req := testutil.NewRequest(t, http.MethodPut, "/communities/join/"+community.ID.String())
		return testutil.WithUserID(req, user.String())
	}

	rr := testutil.DoRequest(router, join())
	testutil.AssertStatusOK(t, rr)

	t.Run("joining twice is forbidden", func(t *testing.T) {
		rr := testutil.DoRequest(router, join())
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "not_allowed")
	})

	t.Run("leave", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodPut, "/communities/leave/"+community.ID.String())
		rr := testutil.DoRequest(router, testutil.WithUserID(req, user.String()))
		testutil.AssertStatusOK(t, rr)
	})

	t.Run("leaving when not a member is forbidden", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodPut, "/communities/leave/"+community.ID.String())
		rr := testutil.DoRequest(router, testutil.WithUserID(req, user.String()))
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "not_allowed")
	})
}

func TestHandleJoinUnknownCommunity(t *testing.T) {
	router, _ := newTestHandler(t)

	req := testutil.NewRequest(t, http.MethodPut, "/communities/join/"+id.NewCommunityID().String())
	rr := testutil.DoRequest(router, testutil.WithUserID(req, id.NewUserID().String()))

	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestHandleListAndLookup(t *testing.T) {
	router, svc := newTestHandler(t)
	member := id.NewUserID()
	_, err := svc.Create(context.Background(), "runners", "", member)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "swimmers", "", id.NewUserID())
	require.NoError(t, err)

	t.Run("list all", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/communities"))
		testutil.AssertStatusOK(t, rr)
		listed := testutil.UnmarshalResponse[[]models.Community](t, rr)
		assert.Len(t, *listed, 2)
	})

	t.Run("by name", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/communities/runners"))
		testutil.AssertStatusOK(t, rr)
		listed := testutil.UnmarshalResponse[[]models.Community](t, rr)
		require.Len(t, *listed, 1)
		assert.Equal(t, "runners", (*listed)[0].Name)
	})

	t.Run("by member", func(t *testing.T) {
		path := fmt.Sprintf("/communities/user/%s", member)
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, path))
		testutil.AssertStatusOK(t, rr)
		listed := testutil.UnmarshalResponse[[]models.Community](t, rr)
		assert.Len(t, *listed, 1)
	})
}
