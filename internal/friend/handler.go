package friend

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

// Handler wires friend endpoints to the friend service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts friend endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/friends", h.HandleListFriends)
	r.Delete("/friends/{friend}", h.HandleRemoveFriend)
	r.Get("/friend/requests", h.HandleListRequests)
	r.Post("/friend/requests/{to}", h.HandleSendRequest)
	r.Delete("/friend/requests/{to}", h.HandleRemoveRequest)
	r.Put("/friend/accept/{from}", h.HandleAccept)
	r.Put("/friend/reject/{from}", h.HandleReject)
}

// HandleListFriends handles GET /friends for the authenticated user.
func (h *Handler) HandleListFriends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	friends, err := h.service.ListFriends(ctx, user)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, friends)
}

// HandleRemoveFriend handles DELETE /friends/{friend}.
func (h *Handler) HandleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	h.pairOp(w, r, "friend", func(ctx context.Context, actor, other id.UserID) error {
		return h.service.RemoveFriend(ctx, actor, other)
	})
}

// HandleListRequests handles GET /friend/requests for the authenticated user.
func (h *Handler) HandleListRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	requests, err := h.service.ListRequests(ctx, user)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, requests)
}

// HandleSendRequest handles POST /friend/requests/{to}.
func (h *Handler) HandleSendRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	to, err := id.ParseUserID(chi.URLParam(r, "to"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	request, err := h.service.SendRequest(ctx, from, to)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, request)
}

// HandleRemoveRequest handles DELETE /friend/requests/{to}: the caller
// withdraws their own outgoing request.
func (h *Handler) HandleRemoveRequest(w http.ResponseWriter, r *http.Request) {
	h.pairOp(w, r, "to", func(ctx context.Context, actor, other id.UserID) error {
		return h.service.RemoveRequest(ctx, actor, other)
	})
}

// HandleAccept handles PUT /friend/accept/{from}: the caller accepts the
// request sent to them.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	h.pairOp(w, r, "from", func(ctx context.Context, actor, other id.UserID) error {
		return h.service.Accept(ctx, other, actor)
	})
}

// HandleReject handles PUT /friend/reject/{from}.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.pairOp(w, r, "from", func(ctx context.Context, actor, other id.UserID) error {
		return h.service.Reject(ctx, other, actor)
	})
}

func (h *Handler) pairOp(w http.ResponseWriter, r *http.Request, param string, op func(ctx context.Context, actor, other id.UserID) error) {
	ctx := r.Context()

	actor, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	other, err := id.ParseUserID(chi.URLParam(r, param))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := op(ctx, actor, other); err != nil {
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
