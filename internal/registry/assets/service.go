// Package assets implements the asset trading contract: property
// registration, registrar sign-off, sale status changes and purchases.
package assets

import (
	"context"
	"errors"
	"log/slog"

	"regnet/internal/ledger"
	"regnet/internal/platform/metrics"
	"regnet/internal/registry/contract"
	"regnet/internal/registry/events"
	"regnet/internal/registry/models"
	"regnet/internal/registry/store"
	dErrors "regnet/pkg/domain-errors"
	"regnet/pkg/platform/sentinel"
	"regnet/pkg/requestcontext"
)

const component = "assets"

// CreateRequest registers a property for an approved owner. Price is signed so
// that non-positive values can be rejected as InvalidPrice.
type CreateRequest struct {
	AssetID         string
	Price           int64
	OwnerName       string
	OwnerNationalID string
}

// Service is the asset trading contract.
type Service struct {
	ledger  ledger.Ledger
	logger  *slog.Logger
	metrics *metrics.Metrics
	runner  *contract.Runner
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(l ledger.Ledger, opts ...Option) *Service {
	s := &Service{ledger: l}
	for _, opt := range opts {
		opt(s)
	}
	s.runner = contract.NewRunner(component, s.ledger, s.logger, s.metrics)
	return s
}

// CreateAsset registers a new property owned by an approved user.
func (s *Service) CreateAsset(ctx context.Context, req CreateRequest) (*models.Property, error) {
	caller, err := contract.Caller(ctx)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	var property *models.Property
	err = s.runner.Submit(ctx, "CreateAsset", func(ctx context.Context, st *store.Store) error {
		owner, err := st.FindUser(ctx, req.OwnerName, req.OwnerNationalID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
		if owner == nil || !owner.IsApproved() {
			return dErrors.New(dErrors.CodeOwnerNotApproved, "owner is not an approved user").
				With("name", req.OwnerName, "nationalId", req.OwnerNationalID)
		}
		if req.Price <= 0 {
			return dErrors.New(dErrors.CodeInvalidPrice, "price must be positive").With("price", req.Price)
		}
		p, err := models.NewProperty(req.AssetID, uint64(req.Price), owner, now)
		if err != nil {
			return err
		}
		exists, err := st.PropertyExists(ctx, p.AssetID)
		if err != nil {
			return err
		}
		if exists {
			return dErrors.New(dErrors.CodeAssetAlreadyExists, "property is already registered").
				With("assetId", p.AssetID)
		}
		if err := st.PutProperty(ctx, p); err != nil {
			return err
		}
		if err := st.Emit(events.AssetCreated, assetEvent(st.TxID(), p, caller)); err != nil {
			return err
		}
		property = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.runner.Audit(ctx, events.AssetCreated,
		"asset_id", property.AssetID, "owner", property.Owner, "price", property.Price, "caller_id", caller)
	s.metrics.IncrementAssetsCreated()
	return property, nil
}

// ApproveAsset records registrar sign-off and leaves the property Registered.
// Ownership is unchanged. Registrar only; the role is enforced by the ledger host.
func (s *Service) ApproveAsset(ctx context.Context, assetID string) (*models.Property, error) {
	caller, err := contract.Caller(ctx)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	var property *models.Property
	err = s.runner.Submit(ctx, "ApproveAsset", func(ctx context.Context, st *store.Store) error {
		p, err := st.FindProperty(ctx, assetID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "property not found").With("assetId", assetID)
			}
			return err
		}
		p.Approver = caller
		p.Status = models.PropertyStatusRegistered
		p.UpdatedAt = now
		if err := st.PutProperty(ctx, p); err != nil {
			return err
		}
		if err := st.Emit(events.AssetApproved, assetEvent(st.TxID(), p, caller)); err != nil {
			return err
		}
		property = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.runner.Audit(ctx, events.AssetApproved, "asset_id", property.AssetID, "approver", caller)
	return property, nil
}

// UpdateAssetStatus lets the owner put a property on sale or take it off.
func (s *Service) UpdateAssetStatus(ctx context.Context, assetID, ownerName, ownerNationalID, newStatus string) (*models.Property, error) {
	caller, err := contract.Caller(ctx)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	var property *models.Property
	err = s.runner.Submit(ctx, "UpdateAssetStatus", func(ctx context.Context, st *store.Store) error {
		owner, err := st.FindUser(ctx, ownerName, ownerNationalID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "owner not found").
					With("name", ownerName, "nationalId", ownerNationalID)
			}
			return err
		}
		if !owner.IsApproved() {
			return dErrors.New(dErrors.CodeOwnerNotApproved, "owner is not approved").
				With("name", ownerName, "nationalId", ownerNationalID)
		}
		p, err := findProperty(ctx, st, assetID)
		if err != nil {
			return err
		}
		if !p.IsOwnedBy(owner) {
			return dErrors.New(dErrors.CodeNotOwner, "property belongs to another user").
				With("assetId", assetID, "owner", owner.Ref())
		}
		status, err := models.ParsePropertyStatus(newStatus)
		if err != nil {
			return err
		}
		p.Status = status
		p.UpdatedAt = now
		if err := st.PutProperty(ctx, p); err != nil {
			return err
		}
		if err := st.Emit(events.AssetStatusUpdated, assetEvent(st.TxID(), p, caller)); err != nil {
			return err
		}
		property = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.runner.Audit(ctx, events.AssetStatusUpdated,
		"asset_id", property.AssetID, "status", property.Status, "caller_id", caller)
	return property, nil
}

// PurchaseAsset moves an on-sale property to the buyer and the price from
// buyer to seller. Every precondition is checked before the first write, so
// a failed purchase leaves buyer, seller and property untouched.
func (s *Service) PurchaseAsset(ctx context.Context, assetID, buyerName, buyerNationalID string) (*models.Property, error) {
	caller, err := contract.Caller(ctx)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	var property *models.Property
	err = s.runner.Submit(ctx, "PurchaseAsset", func(ctx context.Context, st *store.Store) error {
		buyer, err := st.FindUser(ctx, buyerName, buyerNationalID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
		if buyer == nil || !buyer.IsApproved() {
			return dErrors.New(dErrors.CodeBuyerNotApproved, "buyer is not an approved user").
				With("name", buyerName, "nationalId", buyerNationalID)
		}

		p, err := findProperty(ctx, st, assetID)
		if err != nil {
			return err
		}
		if p.IsOwnedBy(buyer) {
			return dErrors.New(dErrors.CodeSelfPurchase, "buyer already owns the property").
				With("assetId", assetID, "owner", p.Owner)
		}
		if p.Status != models.PropertyStatusOnSale {
			return dErrors.New(dErrors.CodeNotOnSale, "property is not on sale").
				With("assetId", assetID, "status", p.Status)
		}
		if buyer.BalanceOrZero() < p.Price {
			return dErrors.New(dErrors.CodeInsufficientFunds, "insufficient funds").
				With("required", p.Price, "available", buyer.BalanceOrZero())
		}

		seller, err := st.FindUserByRef(ctx, p.Owner)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
		if seller == nil || !seller.IsApproved() {
			return dErrors.New(dErrors.CodeSellerNotFound, "seller record cannot be resolved").
				With("assetId", assetID, "owner", p.Owner)
		}

		sellerRef := seller.Ref()
		if err := buyer.Debit(p.Price, now); err != nil {
			return err
		}
		if err := seller.Credit(p.Price, now); err != nil {
			return err
		}
		p.TransferTo(buyer, now)

		if err := st.PutUser(ctx, buyer); err != nil {
			return err
		}
		if err := st.PutUser(ctx, seller); err != nil {
			return err
		}
		if err := st.PutProperty(ctx, p); err != nil {
			return err
		}
		ev := events.Purchase{
			TxID:          st.TxID(),
			AssetID:       p.AssetID,
			Price:         p.Price,
			Seller:        sellerRef,
			Buyer:         buyer.Ref(),
			SellerBalance: seller.BalanceOrZero(),
			BuyerBalance:  buyer.BalanceOrZero(),
			CallerID:      caller,
			At:            now,
		}
		if err := st.Emit(events.AssetPurchased, ev); err != nil {
			return err
		}
		property = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.runner.Audit(ctx, events.AssetPurchased,
		"asset_id", property.AssetID, "buyer", property.Owner, "price", property.Price, "caller_id", caller)
	s.metrics.RecordPurchase(property.Price)
	return property, nil
}

// ViewAsset reads a property record.
func (s *Service) ViewAsset(ctx context.Context, assetID string) (*models.Property, error) {
	var property *models.Property
	err := s.runner.Evaluate(ctx, "ViewAsset", func(ctx context.Context, st *store.Store) error {
		p, err := findProperty(ctx, st, assetID)
		if err != nil {
			return err
		}
		property = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return property, nil
}

func findProperty(ctx context.Context, st *store.Store, assetID string) (*models.Property, error) {
	p, err := st.FindProperty(ctx, assetID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeAssetNotFound, "property not found").With("assetId", assetID)
		}
		return nil, err
	}
	return p, nil
}

func assetEvent(txID string, p *models.Property, caller string) events.Asset {
	return events.Asset{
		TxID:     txID,
		AssetID:  p.AssetID,
		Owner:    p.Owner,
		Status:   string(p.Status),
		Price:    p.Price,
		CallerID: caller,
		At:       p.UpdatedAt,
	}
}
