package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"strive/internal/community/models"
	"strive/internal/platform/middleware"
	"strive/internal/transport/http/shared"
	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
)

// Service defines the community operations the transport layer needs.
type Service interface {
	Create(ctx context.Context, name, description string, creator id.UserID) (*models.Community, error)
	List(ctx context.Context) ([]*models.Community, error)
	GetByName(ctx context.Context, name string) ([]*models.Community, error)
	ListByMember(ctx context.Context, user id.UserID) ([]*models.Community, error)
	Join(ctx context.Context, communityID id.CommunityID, user id.UserID) error
	Leave(ctx context.Context, communityID id.CommunityID, user id.UserID) error
}

// Handler wires community endpoints to the community service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts community endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/communities", h.HandleList)
	r.Post("/communities", h.HandleCreate)
	r.Get("/communities/user/{id}", h.HandleListByMember)
	r.Get("/communities/{name}", h.HandleGetByName)
	r.Put("/communities/join/{id}", h.HandleJoin)
	r.Put("/communities/leave/{id}", h.HandleLeave)
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreate handles POST /communities. The authenticated caller becomes
// the first member.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	creator, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req createRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	community, err := h.service.Create(ctx, req.Name, req.Description, creator)
	if err != nil {
		h.logger.ErrorContext(ctx, "community creation failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "community created",
		"request_id", middleware.GetRequestID(ctx),
		"community_id", community.ID.String(),
	)
	shared.WriteJSON(w, http.StatusCreated, community)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	communities, err := h.service.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, communities)
}

func (h *Handler) HandleGetByName(w http.ResponseWriter, r *http.Request) {
	communities, err := h.service.GetByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, communities)
}

func (h *Handler) HandleListByMember(w http.ResponseWriter, r *http.Request) {
	user, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	communities, err := h.service.ListByMember(r.Context(), user)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, communities)
}

// HandleJoin handles PUT /communities/join/{id} for the authenticated user.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.service.Join, "joined community")
}

// HandleLeave handles PUT /communities/leave/{id} for the authenticated user.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.service.Leave, "left community")
}

func (h *Handler) membership(w http.ResponseWriter, r *http.Request, op func(context.Context, id.CommunityID, id.UserID) error, msg string) {
	ctx := r.Context()

	user, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	communityID, err := id.ParseCommunityID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := op(ctx, communityID, user); err != nil {
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"community_id", communityID.String(),
		"user_id", user.String(),
	)
	shared.WriteJSON(w, http.StatusOK, nil)
}

func authedUser(ctx context.Context) (id.UserID, error) {
	user, err := id.ParseUserID(middleware.GetUserID(ctx))
	if err != nil {
		return id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return user, nil
}
