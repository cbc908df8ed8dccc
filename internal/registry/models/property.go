package models

import (
	"strings"
	"time"

	dErrors "regnet/pkg/domain-errors"
)

// PropertyStatus is the trading state of an asset.
type PropertyStatus string

const (
	PropertyStatusRegistered PropertyStatus = "Registered"
	PropertyStatusOnSale     PropertyStatus = "OnSale"
)

// IsValid reports whether s is one of the canonical status names.
func (s PropertyStatus) IsValid() bool {
	return s == PropertyStatusRegistered || s == PropertyStatusOnSale
}

// ParsePropertyStatus accepts the canonical names and the lowercase forms the
// ledger clients send ("registered", "onSale").
func ParsePropertyStatus(raw string) (PropertyStatus, error) {
	if s := PropertyStatus(raw); s.IsValid() {
		return s, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "registered":
		return PropertyStatusRegistered, nil
	case "onsale":
		return PropertyStatusOnSale, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidStatus, "unknown property status").With("status", raw)
}

// Property is a real-world asset.
//
// Invariants:
//   - Price is positive
//   - Owner is the reference of an existing, approved user
//   - A purchase resets Status to Registered
type Property struct {
	AssetID   string         `json:"assetId"`
	Price     uint64         `json:"price"`
	Owner     string         `json:"owner"`
	Status    PropertyStatus `json:"status"`
	Approver  string         `json:"approver,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// NewProperty registers an asset for owner.
func NewProperty(assetID string, price uint64, owner *User, now time.Time) (*Property, error) {
	if strings.TrimSpace(assetID) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "asset ID is required")
	}
	if price == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidPrice, "price must be positive").With("price", price)
	}
	return &Property{
		AssetID:   assetID,
		Price:     price,
		Owner:     owner.Ref(),
		Status:    PropertyStatusRegistered,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (p *Property) IsOwnedBy(u *User) bool {
	return p.Owner == u.Ref()
}

// TransferTo hands the property to buyer and takes it off sale.
func (p *Property) TransferTo(buyer *User, now time.Time) {
	p.Owner = buyer.Ref()
	p.Status = PropertyStatusRegistered
	p.UpdatedAt = now
}
