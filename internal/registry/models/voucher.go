package models

import (
	"maps"
	"time"
)

// VoucherTable maps banking voucher codes to coin amounts. It is read-only
// once handed to a service.
type VoucherTable map[string]uint64

// DefaultVouchers returns the standard denominations.
func DefaultVouchers() VoucherTable {
	return VoucherTable{
		"upg100":  100,
		"upg500":  500,
		"upg1000": 1000,
	}
}

// Lookup returns the amount for code.
func (t VoucherTable) Lookup(code string) (uint64, bool) {
	amount, ok := t[code]
	return amount, ok
}

// Clone returns an independent copy.
func (t VoucherTable) Clone() VoucherTable {
	return maps.Clone(t)
}

// ConsumedVoucher records that a user redeemed a voucher code.
type ConsumedVoucher struct {
	Code       string    `json:"voucherCode"`
	Amount     uint64    `json:"amount"`
	TxID       string    `json:"txId"`
	ConsumedAt time.Time `json:"consumedAt"`
}
