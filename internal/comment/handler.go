package comment

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

// Workflows defines the cross-concept comment operations. Creation checks
// that the target post exists, so it goes through the workflow service.
type Workflows interface {
	CreateComment(ctx context.Context, target id.PostID, author id.UserID, content string) (*Comment, error)
}

// Handler wires comment endpoints to the comment service and workflows.
type Handler struct {
	service   *Service
	workflows Workflows
	logger    *slog.Logger
}

func NewHandler(service *Service, workflows Workflows, logger *slog.Logger) *Handler {
	return &Handler{service: service, workflows: workflows, logger: logger}
}

// Register mounts comment endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/comments", h.HandleList)
	r.Post("/comments", h.HandleCreate)
	r.Patch("/comments/{id}", h.HandleUpdate)
	r.Delete("/comments/{id}", h.HandleDelete)
}

type createRequest struct {
	Target  id.PostID `json:"target"`
	Content string    `json:"content"`
}

type updateRequest struct {
	Content string `json:"content"`
}

// HandleCreate handles POST /comments.
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

	comment, err := h.workflows.CreateComment(ctx, req.Target, author, req.Content)
	if err != nil {
		h.logger.ErrorContext(ctx, "comment creation failed",
			"request_id", middleware.GetRequestID(ctx),
			"target", req.Target.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, comment)
}

// HandleList handles GET /comments, optionally filtered by ?target={post}.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		comments []*Comment
		err      error
	)
	if raw := r.URL.Query().Get("target"); raw != "" {
		var target id.PostID
		target, err = id.ParsePostID(raw)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		comments, err = h.service.ListByTarget(ctx, target)
	} else {
		comments, err = h.service.List(ctx)
	}
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, comments)
}

// HandleUpdate handles PATCH /comments/{id}. Author only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	commentID, err := h.gate(ctx, r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req updateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	comment, err := h.service.Update(ctx, commentID, req.Content)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, comment)
}

// HandleDelete handles DELETE /comments/{id}. Author only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	commentID, err := h.gate(ctx, r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.Delete(ctx, commentID); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, nil)
}

func (h *Handler) gate(ctx context.Context, r *http.Request) (id.CommentID, error) {
	actor, err := authedUser(ctx)
	if err != nil {
		return id.CommentID{}, err
	}
	commentID, err := id.ParseCommentID(chi.URLParam(r, "id"))
	if err != nil {
		return id.CommentID{}, err
	}
	if err := h.service.AssertAuthor(ctx, commentID, actor); err != nil {
		return id.CommentID{}, err
	}
	return commentID, nil
}

func authedUser(ctx context.Context) (id.UserID, error) {
	user, err := id.ParseUserID(middleware.GetUserID(ctx))
	if err != nil {
		return id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return user, nil
}
