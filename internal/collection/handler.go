package collection

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"strive/internal/platform/middleware"
	"strive/internal/transport/http/shared"
	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
)

// Handler wires collection endpoints to the collection service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts collection endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/collections", h.HandleList)
	r.Post("/collections", h.HandleCreate)
	r.Post("/collections/globalLibrary", h.HandleCreateGlobalLibrary)
	r.Patch("/collections/addPost/{id}", h.HandleAddPost)
	r.Patch("/collections/removePost/{id}", h.HandleRemovePost)
	r.Delete("/collections/{id}", h.HandleDelete)
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type postRequest struct {
	Post id.PostID `json:"post"`
}

// HandleCreate handles POST /collections. The authenticated caller becomes
// the owner.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req createRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	collection, err := h.service.Create(ctx, owner, req.Name, req.Description)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, collection)
}

// HandleCreateGlobalLibrary handles POST /collections/globalLibrary.
func (h *Handler) HandleCreateGlobalLibrary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := authedUser(ctx); err != nil {
		shared.WriteError(w, err)
		return
	}
	var req createRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	collection, err := h.service.CreateGlobalLibrary(ctx, req.Name, req.Description)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, collection)
}

// HandleList handles GET /collections, optionally filtered by ?owner={id}.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		collections []*Collection
		err         error
	)
	if raw := r.URL.Query().Get("owner"); raw != "" {
		var owner id.UserID
		owner, err = id.ParseUserID(raw)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		collections, err = h.service.ListByOwner(ctx, owner)
	} else {
		collections, err = h.service.List(ctx)
	}
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, collections)
}

// HandleAddPost handles PATCH /collections/addPost/{id}.
func (h *Handler) HandleAddPost(w http.ResponseWriter, r *http.Request) {
	h.linkage(w, r, h.service.AddPost)
}

// HandleRemovePost handles PATCH /collections/removePost/{id}.
func (h *Handler) HandleRemovePost(w http.ResponseWriter, r *http.Request) {
	h.linkage(w, r, h.service.RemovePost)
}

func (h *Handler) linkage(w http.ResponseWriter, r *http.Request, op func(context.Context, id.CollectionID, id.PostID, id.UserID) error) {
	ctx := r.Context()

	actor, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	collectionID, err := id.ParseCollectionID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req postRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := op(ctx, collectionID, req.Post, actor); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, nil)
}

// HandleDelete handles DELETE /collections/{id}. Owner only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	collectionID, err := id.ParseCollectionID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, collectionID, actor); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, nil)
}

func authedUser(ctx context.Context) (id.UserID, error) {
	user, err := id.ParseUserID(middleware.GetUserID(ctx))
	if err != nil {
		return id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return user, nil
}
