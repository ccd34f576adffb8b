package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"strive/internal/goal/models"
	"strive/internal/goal/service"
	"strive/internal/platform/middleware"
	"strive/internal/transport/http/shared"
	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
)

// Service defines the goal operations the transport layer needs for
// user-owned goals and lifecycle queries.
type Service interface {
	Create(ctx context.Context, owner models.Owner, name, unit string, amount float64, targetDate time.Time) (*models.Goal, error)
	ListOpen(ctx context.Context) ([]*models.Goal, error)
	ListAchieved(ctx context.Context) ([]*models.Goal, error)
	ListOpenByOwner(ctx context.Context, owner models.Owner) ([]*models.Goal, error)
	ListAchievedByOwner(ctx context.Context, owner models.Owner) ([]*models.Goal, error)
	Update(ctx context.Context, goalID id.GoalID, req service.UpdateRequest) (*models.Goal, error)
	AddProgress(ctx context.Context, goalID id.GoalID, delta float64) (*models.Goal, error)
	Delete(ctx context.Context, goalID id.GoalID) error
	AssertOwner(ctx context.Context, goalID id.GoalID, user id.UserID) error
}

// Workflows defines the membership-gated operations on community goals.
// These cross the community boundary, so they live behind the workflow
// service rather than the goal service.
type Workflows interface {
	CreateCommunityGoal(ctx context.Context, communityID id.CommunityID, actor id.UserID, name, unit string, amount float64, targetDate time.Time) (*models.Goal, error)
	UpdateCommunityGoal(ctx context.Context, goalID id.GoalID, actor id.UserID, req service.UpdateRequest) (*models.Goal, error)
	AddCommunityGoalProgress(ctx context.Context, goalID id.GoalID, actor id.UserID, delta float64) (*models.Goal, error)
	DeleteCommunityGoal(ctx context.Context, goalID id.GoalID, actor id.UserID) error
}

// Handler wires goal endpoints to the goal and workflow services.
type Handler struct {
	service   Service
	workflows Workflows
	logger    *slog.Logger
}

func New(service Service, workflows Workflows, logger *slog.Logger) *Handler {
	return &Handler{service: service, workflows: workflows, logger: logger}
}

// Register mounts goal endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/goals/user", h.HandleCreateUserGoal)
	r.Post("/goals/community", h.HandleCreateCommunityGoal)
	r.Get("/goals/incomplete", h.HandleListOpen)
	r.Get("/goals/complete", h.HandleListAchieved)
	r.Get("/goals/incomplete/user/{id}", h.listByOwner(models.OwnerUser, models.StatusOpen))
	r.Get("/goals/complete/user/{id}", h.listByOwner(models.OwnerUser, models.StatusAchieved))
	r.Get("/goals/incomplete/community/{id}", h.listByOwner(models.OwnerCommunity, models.StatusOpen))
	r.Get("/goals/complete/community/{id}", h.listByOwner(models.OwnerCommunity, models.StatusAchieved))
	r.Patch("/goals/user/{id}", h.HandleUpdateUserGoal)
	r.Delete("/goals/user/{id}", h.HandleDeleteUserGoal)
	r.Patch("/goals/user/progress/{id}", h.HandleUserGoalProgress)
	r.Patch("/goals/community/{id}", h.HandleUpdateCommunityGoal)
	r.Delete("/goals/community/{id}", h.HandleDeleteCommunityGoal)
	r.Patch("/goals/community/progress/{id}", h.HandleCommunityGoalProgress)
}

type createRequest struct {
	CommunityID *id.CommunityID `json:"community_id,omitempty"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	Amount      float64         `json:"amount"`
	TargetDate  time.Time       `json:"target_date"`
}

type progressRequest struct {
	Progress float64 `json:"progress"`
}

// HandleCreateUserGoal handles POST /goals/user. The authenticated caller
// becomes the owner.
func (h *Handler) HandleCreateUserGoal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req createRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	goal, err := h.service.Create(ctx, models.UserOwner(actor), req.Name, req.Unit, req.Amount, req.TargetDate)
	if err != nil {
		h.logError(ctx, "user goal creation failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, goal)
}

// HandleCreateCommunityGoal handles POST /goals/community. Requires the
// caller to be a member of the target community.
func (h *Handler) HandleCreateCommunityGoal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req createRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if req.CommunityID == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "community_id is required"))
		return
	}

	goal, err := h.workflows.CreateCommunityGoal(ctx, *req.CommunityID, actor, req.Name, req.Unit, req.Amount, req.TargetDate)
	if err != nil {
		h.logError(ctx, "community goal creation failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, goal)
}

func (h *Handler) HandleListOpen(w http.ResponseWriter, r *http.Request) {
	goals, err := h.service.ListOpen(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, goals)
}

func (h *Handler) HandleListAchieved(w http.ResponseWriter, r *http.Request) {
	goals, err := h.service.ListAchieved(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, goals)
}

func (h *Handler) listByOwner(kind models.OwnerKind, status models.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var owner models.Owner
		if kind == models.OwnerUser {
			ownerID, err := id.ParseUserID(chi.URLParam(r, "id"))
			if err != nil {
				shared.WriteError(w, err)
				return
			}
			owner = models.UserOwner(ownerID)
		} else {
			communityID, err := id.ParseCommunityID(chi.URLParam(r, "id"))
			if err != nil {
				shared.WriteError(w, err)
				return
			}
			owner = models.CommunityOwner(communityID)
		}

		var goals []*models.Goal
		var err error
		if status == models.StatusOpen {
			goals, err = h.service.ListOpenByOwner(r.Context(), owner)
		} else {
			goals, err = h.service.ListAchievedByOwner(r.Context(), owner)
		}
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		shared.WriteJSON(w, http.StatusOK, goals)
	}
}

// HandleUpdateUserGoal handles PATCH /goals/user/{id}. Owner only; achieved
// goals are rejected.
func (h *Handler) HandleUpdateUserGoal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	goalID, err := h.userGoalGate(ctx, r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req service.UpdateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	goal, err := h.service.Update(ctx, goalID, req)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, goal)
}

// HandleDeleteUserGoal handles DELETE /goals/user/{id}.
func (h *Handler) HandleDeleteUserGoal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	goalID, err := h.userGoalGate(ctx, r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.Delete(ctx, goalID); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, nil)
}

// HandleUserGoalProgress handles PATCH /goals/user/progress/{id}.
func (h *Handler) HandleUserGoalProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	goalID, err := h.userGoalGate(ctx, r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req progressRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	goal, err := h.service.AddProgress(ctx, goalID, req.Progress)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, goal)
}

// HandleUpdateCommunityGoal handles PATCH /goals/community/{id}.
func (h *Handler) HandleUpdateCommunityGoal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	goalID, err := id.ParseGoalID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req service.UpdateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	goal, err := h.workflows.UpdateCommunityGoal(ctx, goalID, actor, req)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, goal)
}

// HandleDeleteCommunityGoal handles DELETE /goals/community/{id}.
func (h *Handler) HandleDeleteCommunityGoal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	goalID, err := id.ParseGoalID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.workflows.DeleteCommunityGoal(ctx, goalID, actor); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, nil)
}

// HandleCommunityGoalProgress handles PATCH /goals/community/progress/{id}.
func (h *Handler) HandleCommunityGoalProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	goalID, err := id.ParseGoalID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req progressRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	goal, err := h.workflows.AddCommunityGoalProgress(ctx, goalID, actor, req.Progress)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, goal)
}

// userGoalGate authenticates the caller, parses the goal id, and asserts
// ownership before any user-goal mutation.
func (h *Handler) userGoalGate(ctx context.Context, r *http.Request) (id.GoalID, error) {
	actor, err := authedUser(ctx)
	if err != nil {
		return id.GoalID{}, err
	}
	goalID, err := id.ParseGoalID(chi.URLParam(r, "id"))
	if err != nil {
		return id.GoalID{}, err
	}
	if err := h.service.AssertOwner(ctx, goalID, actor); err != nil {
		return id.GoalID{}, err
	}
	return goalID, nil
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err,
	)
}

func authedUser(ctx context.Context) (id.UserID, error) {
	user, err := id.ParseUserID(middleware.GetUserID(ctx))
	if err != nil {
		return id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return user, nil
}
