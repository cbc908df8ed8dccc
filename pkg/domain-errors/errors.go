// Package domainerrors defines the coded error taxonomy returned by registry services.
//
// Stores and infrastructure return sentinel errors (see pkg/platform/sentinel);
// services translate them into *Error values carrying a Code so transports can
// map outcomes without string matching.
package domainerrors

import (
	"errors"
	"fmt"
	"maps"
)

// Code identifies a member of the error taxonomy.
type Code string

const (
	// Lookup failures
	CodeNotFound      Code = "not_found"
	CodeAssetNotFound Code = "asset_not_found"

	// Idempotency violations
	CodeAlreadyExists      Code = "already_exists"
	CodeAssetAlreadyExists Code = "asset_already_exists"
	CodeAlreadyApproved    Code = "already_approved"
	CodeVoucherAlreadyUsed Code = "voucher_already_used"

	// Role-state preconditions
	CodeNotApproved      Code = "not_approved"
	CodeOwnerNotApproved Code = "owner_not_approved"
	CodeBuyerNotApproved Code = "buyer_not_approved"

	// Authorization
	CodeNotOwner     Code = "not_owner"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"

	// Input and numeric domain
	CodeInvalidInput       Code = "invalid_input"
	CodeBadRequest         Code = "bad_request"
	CodeInvalidPrice       Code = "invalid_price"
	CodeInvalidVoucher     Code = "invalid_voucher"
	CodeInvalidStatus      Code = "invalid_status"
	CodeArithmeticOverflow Code = "arithmetic_overflow"

	// Purchase rules
	CodeNotOnSale         Code = "not_on_sale"
	CodeSelfPurchase      Code = "self_purchase"
	CodeInsufficientFunds Code = "insufficient_funds"

	// Data integrity
	CodeSellerNotFound Code = "seller_not_found"

	// Infrastructure
	CodeConflict Code = "conflict"
	CodeTimeout  Code = "timeout"
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. Details carry the records or values involved
// in a business-rule failure, e.g. required vs. available balance.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// With returns a copy of e with the key/value pairs added to its details.
// Pairs follow the slog convention: key1, value1, key2, value2, ...
func (e *Error) With(kv ...any) *Error {
	out := *e
	out.Details = make(map[string]any, len(e.Details)+len(kv)/2)
	maps.Copy(out.Details, e.Details)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		out.Details[key] = kv[i+1]
	}
	return &out
}

// New creates an error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// As extracts the outermost *Error from err.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// CodeOf returns the code of the outermost *Error in err, or CodeInternal.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether the outermost domain error in err has the given code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// Is is an alias of HasCode kept for handler readability.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}
