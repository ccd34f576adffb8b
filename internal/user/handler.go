package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"strive/internal/activity"
	"strive/internal/platform/middleware"
	"strive/internal/transport/http/shared"
	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
)

// TokenIssuer mints access tokens once credentials have been verified.
type TokenIssuer interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)
}

// Handler wires account and login endpoints to the user service.
type Handler struct {
	service  *Service
	tokens   TokenIssuer
	activity ActivityPublisher
	logger   *slog.Logger
}

func NewHandler(service *Service, tokens TokenIssuer, publisher ActivityPublisher, logger *slog.Logger) *Handler {
	return &Handler{service: service, tokens: tokens, activity: publisher, logger: logger}
}

// RegisterPublic mounts the endpoints that must work without a token.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/login", h.HandleLogin)
	r.Post("/users", h.HandleCreate)
}

// Register mounts the authenticated account endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/users", h.HandleList)
	r.Get("/users/{username}", h.HandleGetByUsername)
	r.Patch("/users/username", h.HandleUpdateUsername)
	r.Patch("/users/password", h.HandleUpdatePassword)
	r.Delete("/users", h.HandleDelete)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	UserID      id.UserID `json:"user_id"`
}

type usernameRequest struct {
	Username string `json:"username"`
}

type passwordRequest struct {
	Current string `json:"current"`
	Updated string `json:"updated"`
}

// HandleLogin handles POST /login and issues an access token.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	account, err := h.service.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"request_id", middleware.GetRequestID(ctx),
			"username", req.Username,
		)
		shared.WriteError(w, err)
		return
	}

	token, err := h.tokens.GenerateAccessToken(uuid.UUID(account.ID))
	if err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token"))
		return
	}

	if h.activity != nil {
		device := middleware.GetDevice(ctx)
		_ = h.activity.Emit(ctx, activity.Event{
			Actor:  account.ID,
			Action: activity.ActionUserLoggedIn,
			Object: account.ID.String(),
			Device: device.Browser + "/" + device.OS,
		})
	}

	h.logger.InfoContext(ctx, "user logged in",
		"request_id", middleware.GetRequestID(ctx),
		"user_id", account.ID.String(),
	)
	shared.WriteJSON(w, http.StatusOK, loginResponse{AccessToken: token, UserID: account.ID})
}

// HandleCreate handles POST /users (registration).
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	account, err := h.service.Create(ctx, req.Username, req.Password)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "user registered",
		"request_id", middleware.GetRequestID(ctx),
		"user_id", account.ID.String(),
	)
	shared.WriteJSON(w, http.StatusCreated, account)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) HandleGetByUsername(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, account)
}

// HandleUpdateUsername handles PATCH /users/username for the caller.
func (h *Handler) HandleUpdateUsername(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req usernameRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	account, err := h.service.UpdateUsername(ctx, actor, req.Username)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, account)
}

// HandleUpdatePassword handles PATCH /users/password for the caller.
func (h *Handler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req passwordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.service.UpdatePassword(ctx, actor, req.Current, req.Updated); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, nil)
}

// HandleDelete handles DELETE /users for the caller's own account.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := authedUser(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.Delete(ctx, actor); err != nil {
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
