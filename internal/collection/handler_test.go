package collection

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	id "strive/pkg/domain"
	"strive/pkg/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	h := NewHandler(NewService(NewInMemoryStore()), slog.New(slog.NewTextHandler(io.Discard, nil)))
	router := chi.NewRouter()
	h.Register(router)
	return router
}

func createOwned(t *testing.T, router http.Handler, owner id.UserID) *Collection {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/collections", map[string]string{"name": "favourites"})
	rr := testutil.DoRequest(router, testutil.WithUserID(req, owner.String()))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	return testutil.UnmarshalResponse[Collection](t, rr)
}

func TestHandleCreate(t *testing.T) {
	router := newTestRouter(t)
	owner := id.NewUserID()

	created := createOwned(t, router, owner)
	assert.Equal(t, "favourites", created.Name)
	assert.NotNil(t, created.Owner)
}

func TestHandleCreateGlobalLibrary(t *testing.T) {
	router := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/collections/globalLibrary", map[string]string{"name": "library"})
	rr := testutil.DoRequest(router, testutil.WithUserID(req, id.NewUserID().String()))

	testutil.AssertStatus(t, rr, http.StatusCreated)
	library := testutil.UnmarshalResponse[Collection](t, rr)
	assert.Nil(t, library.Owner)
}

func TestHandleAddAndRemovePost(t *testing.T) {
	router := newTestRouter(t)
	owner := id.NewUserID()
	created := createOwned(t, router, owner)
	post := id.NewPostID()

	addPath := "/collections/addPost/" + created.ID.String()
	req := testutil.NewJSONRequest(t, http.MethodPatch, addPath, map[string]string{"post": post.String()})
	rr := testutil.DoRequest(router, testutil.WithUserID(req, owner.String()))
	testutil.AssertStatusOK(t, rr)

	t.Run("stranger forbidden", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPatch, addPath, map[string]string{"post": id.NewPostID().String()})
		rr := testutil.DoRequest(router, testutil.WithUserID(req, id.NewUserID().String()))
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "not_allowed")
	})

	removePath := "/collections/removePost/" + created.ID.String()
	req = testutil.NewJSONRequest(t, http.MethodPatch, removePath, map[string]string{"post": post.String()})
	rr = testutil.DoRequest(router, testutil.WithUserID(req, owner.String()))
	testutil.AssertStatusOK(t, rr)
}

func TestHandleListByOwner(t *testing.T) {
	router := newTestRouter(t)
	owner := id.NewUserID()
	createOwned(t, router, owner)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/collections?owner="+owner.String()))
	testutil.AssertStatusOK(t, rr)
	listed := testutil.UnmarshalResponse[[]Collection](t, rr)
	assert.Len(t, *listed, 1)
}

func TestHandleDeleteGlobalLibraryForbidden(t *testing.T) {
	router := newTestRouter(t)
	actor := id.NewUserID()

	req := testutil.NewJSONRequest(t, http.MethodPost, "/collections/globalLibrary", map[string]string{"name": "library"})
	rr := testutil.DoRequest(router, testutil.WithUserID(req, actor.String()))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	library := testutil.UnmarshalResponse[Collection](t, rr)

	req = testutil.NewRequest(t, http.MethodDelete, "/collections/"+library.ID.String())
	rr = testutil.DoRequest(router, testutil.WithUserID(req, actor.String()))
	testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "not_allowed")
}
