// Package events defines the ledger events emitted by the registry contracts.
// They are staged inside the ledger transaction and published only when it
// commits.
package events

import "time"

// Event names.
const (
	UserRegistrationRequested = "UserRegistrationRequested"
	UserApproved              = "UserApproved"
	BalanceToppedUp           = "BalanceToppedUp"
	AssetCreated              = "AssetCreated"
	AssetApproved             = "AssetApproved"
	AssetStatusUpdated        = "AssetStatusUpdated"
	AssetPurchased            = "AssetPurchased"
)

// User is the payload of participant lifecycle events.
type User struct {
	TxID       string    `json:"txId"`
	Name       string    `json:"name"`
	NationalID string    `json:"nationalId"`
	CallerID   string    `json:"callerId"`
	Status     string    `json:"status"`
	Balance    *uint64   `json:"balance,omitempty"`
	Voucher    string    `json:"voucherCode,omitempty"`
	Amount     uint64    `json:"amount,omitempty"`
	At         time.Time `json:"at"`
}

// Asset is the payload of asset registration and status events.
type Asset struct {
	TxID     string    `json:"txId"`
	AssetID  string    `json:"assetId"`
	Owner    string    `json:"owner"`
	Status   string    `json:"status"`
	Price    uint64    `json:"price"`
	CallerID string    `json:"callerId"`
	At       time.Time `json:"at"`
}

// Purchase is the payload of AssetPurchased.
type Purchase struct {
	TxID          string    `json:"txId"`
	AssetID       string    `json:"assetId"`
	Price         uint64    `json:"price"`
	Seller        string    `json:"seller"`
	Buyer         string    `json:"buyer"`
	SellerBalance uint64    `json:"sellerBalance"`
	BuyerBalance  uint64    `json:"buyerBalance"`
	CallerID      string    `json:"callerId"`
	At            time.Time `json:"at"`
}
