package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"regnet/internal/registry/assets"
	"regnet/internal/registry/models"
	"regnet/pkg/platform/httputil"
)

// AssetService is the asset trading contract.
type AssetService interface {
	CreateAsset(ctx context.Context, req assets.CreateRequest) (*models.Property, error)
	ApproveAsset(ctx context.Context, assetID string) (*models.Property, error)
	UpdateAssetStatus(ctx context.Context, assetID, ownerName, ownerNationalID, newStatus string) (*models.Property, error)
	PurchaseAsset(ctx context.Context, assetID, buyerName, buyerNationalID string) (*models.Property, error)
	ViewAsset(ctx context.Context, assetID string) (*models.Property, error)
}

type createAssetRequest struct {
	AssetID         string `json:"assetId"`
	Price           int64  `json:"price"`
	OwnerName       string `json:"ownerName"`
	OwnerNationalID string `json:"ownerNationalId"`
}

type updateStatusRequest struct {
	OwnerName       string `json:"ownerName"`
	OwnerNationalID string `json:"ownerNationalId"`
	Status          string `json:"status"`
}

type purchaseRequest struct {
	BuyerName       string `json:"buyerName"`
	BuyerNationalID string `json:"buyerNationalId"`
}

// AssetHandler exposes AssetService to participants and registrars.
type AssetHandler struct {
	logger *slog.Logger
	assets AssetService
}

func NewAssetHandler(assets AssetService, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{logger: logger, assets: assets}
}

func (h *AssetHandler) RegisterParticipant(r chi.Router) {
	r.Post("/properties", h.handleCreate)
	r.Get("/properties/{assetID}", h.handleView)
	r.Put("/properties/{assetID}/status", h.handleUpdateStatus)
	r.Post("/properties/{assetID}/purchase", h.handlePurchase)
}

func (h *AssetHandler) RegisterRegistrar(r chi.Router) {
	r.Get("/properties/{assetID}", h.handleView)
	r.Post("/properties/{assetID}/approve", h.handleApprove)
}

func (h *AssetHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	property, err := h.assets.CreateAsset(r.Context(), assets.CreateRequest{
		AssetID:         req.AssetID,
		Price:           req.Price,
		OwnerName:       req.OwnerName,
		OwnerNationalID: req.OwnerNationalID,
	})
	if err != nil {
		h.fail(r.Context(), w, "create asset", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, property)
}

func (h *AssetHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	property, err := h.assets.ApproveAsset(r.Context(), chi.URLParam(r, "assetID"))
	if err != nil {
		h.fail(r.Context(), w, "approve asset", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, property)
}

func (h *AssetHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	property, err := h.assets.UpdateAssetStatus(r.Context(), chi.URLParam(r, "assetID"), req.OwnerName, req.OwnerNationalID, req.Status)
	if err != nil {
		h.fail(r.Context(), w, "update asset status", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, property)
}

func (h *AssetHandler) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	property, err := h.assets.PurchaseAsset(r.Context(), chi.URLParam(r, "assetID"), req.BuyerName, req.BuyerNationalID)
	if err != nil {
		h.fail(r.Context(), w, "purchase asset", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, property)
}

func (h *AssetHandler) handleView(w http.ResponseWriter, r *http.Request) {
	property, err := h.assets.ViewAsset(r.Context(), chi.URLParam(r, "assetID"))
	if err != nil {
		h.fail(r.Context(), w, "view asset", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, property)
}

func (h *AssetHandler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	logFailure(ctx, h.logger, op, err)
	httputil.WriteError(w, err)
}
