package post

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

// Workflows defines the cross-concept post operations. Creation and
// deletion touch the community link, so they go through the workflow
// service; content edits stay inside this concept.
type Workflows interface {
	CreatePostInCommunity(ctx context.Context, communityID id.CommunityID, author id.UserID, content string) (*Post, error)
	DeletePost(ctx context.Context, postID id.PostID, actor id.UserID) error
}

// Handler wires post endpoints to the post service and workflows.
type Handler struct {
	service   *Service
	workflows Workflows
	logger    *slog.Logger
}

func NewHandler(service *Service, workflows Workflows, logger *slog.Logger) *Handler {
	return &Handler{service: service, workflows: workflows, logger: logger}
}

// Register mounts post endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/posts", h.HandleList)
	r.Post("/posts", h.HandleCreate)
	r.Patch("/posts/{id}", h.HandleUpdate)
	r.Delete("/posts/{id}", h.HandleDelete)
}

type createRequest struct {
	CommunityID id.CommunityID `json:"community_id"`
	Content     string         `json:"content"`
}

type updateRequest struct {
	Content string `json:"content"`
}

// HandleCreate handles POST /posts. Every post is published into a
// community, so creation runs the membership-gated workflow.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	author, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req createRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if req.CommunityID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "community_id is required"))
		return
	}

	post, err := h.workflows.CreatePostInCommunity(ctx, req.CommunityID, author, req.Content)
	if err != nil {
		h.logger.ErrorContext(ctx, "post creation failed",
			"request_id", middleware.GetRequestID(ctx),
			"community_id", req.CommunityID.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, post)
}

// HandleList handles GET /posts, optionally filtered by ?author={id}.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		posts []*Post
		err   error
	)
	if raw := r.URL.Query().Get("author"); raw != "" {
		var author id.UserID
		author, err = id.ParseUserID(raw)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		posts, err = h.service.ListByAuthor(ctx, author)
	} else {
		posts, err = h.service.List(ctx)
	}
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, posts)
}

// HandleUpdate handles PATCH /posts/{id}. Author only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	postID, err := id.ParsePostID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req updateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.service.AssertAuthor(ctx, postID, actor); err != nil {
		shared.WriteError(w, err)
		return
	}
	post, err := h.service.Update(ctx, postID, req.Content)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, post)
}

// HandleDelete handles DELETE /posts/{id}. Author only; the workflow also
// removes the community link.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	postID, err := id.ParsePostID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.workflows.DeletePost(ctx, postID, actor); err != nil {
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
