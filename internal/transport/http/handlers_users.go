package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"regnet/internal/registry/models"
	"regnet/internal/registry/users"
	"regnet/pkg/platform/httputil"
	request "regnet/pkg/platform/middleware/request"
)

// UserService is the participant lifecycle contract.
type UserService interface {
	RequestRegistration(ctx context.Context, req users.RegistrationRequest) (*models.User, error)
	ApproveRegistration(ctx context.Context, name, nationalID string) (*models.User, error)
	TopUpBalance(ctx context.Context, name, nationalID, voucherCode string) (*models.User, error)
	ViewUser(ctx context.Context, name, nationalID string) (*models.User, error)
}

type registrationRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	NationalID string `json:"nationalId"`
}

type topUpRequest struct {
	VoucherCode string `json:"voucherCode"`
}

// UserHandler exposes UserService to participants and registrars.
type UserHandler struct {
	logger *slog.Logger
	users  UserService
}

func NewUserHandler(users UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{logger: logger, users: users}
}

// RegisterParticipant mounts the routes available to ordinary participants.
func (h *UserHandler) RegisterParticipant(r chi.Router) {
	r.Post("/registrations", h.handleRequestRegistration)
	r.Get("/participants/{name}/{nationalID}", h.handleViewUser)
	r.Post("/participants/{name}/{nationalID}/topup", h.handleTopUp)
}

// RegisterRegistrar mounts the registrar routes.
func (h *UserHandler) RegisterRegistrar(r chi.Router) {
	r.Get("/participants/{name}/{nationalID}", h.handleViewUser)
	r.Post("/participants/{name}/{nationalID}/approve", h.handleApprove)
}

func (h *UserHandler) handleRequestRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req registrationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid registration request",
			"request_id", request.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	user, err := h.users.RequestRegistration(ctx, users.RegistrationRequest{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		NationalID: req.NationalID,
	})
	if err != nil {
		h.fail(ctx, w, "request registration", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.ApproveRegistration(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "nationalID"))
	if err != nil {
		h.fail(r.Context(), w, "approve registration", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *UserHandler) handleTopUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req topUpRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	user, err := h.users.TopUpBalance(ctx, chi.URLParam(r, "name"), chi.URLParam(r, "nationalID"), req.VoucherCode)
	if err != nil {
		h.fail(ctx, w, "top up balance", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *UserHandler) handleViewUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.ViewUser(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "nationalID"))
	if err != nil {
		h.fail(r.Context(), w, "view user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *UserHandler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	logFailure(ctx, h.logger, op, err)
	httputil.WriteError(w, err)
}
