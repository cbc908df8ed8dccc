package models

import "regnet/internal/ledger"

// Ledger namespaces of the property registration network.
const (
	UserNamespace     = "org.property-registration-network.regnet.users"
	PropertyNamespace = "org.property-registration-network.regnet.users.property"
	VoucherNamespace  = "org.property-registration-network.regnet.users.voucher"
)

func UserKey(name, nationalID string) (string, error) {
	return ledger.CreateCompositeKey(UserNamespace, name, nationalID)
}

func PropertyKey(assetID string) (string, error) {
	return ledger.CreateCompositeKey(PropertyNamespace, assetID)
}

func VoucherKey(name, nationalID, code string) (string, error) {
	return ledger.CreateCompositeKey(VoucherNamespace, name, nationalID, code)
}
