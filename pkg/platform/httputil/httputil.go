// Package httputil writes JSON responses and maps domain error codes to HTTP
// status codes.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "regnet/pkg/domain-errors"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Error       string         `json:"error"`
	Description string         `json:"error_description,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
}

// StatusFor maps a domain error code to its HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound, dErrors.CodeAssetNotFound:
		return http.StatusNotFound
	case dErrors.CodeAlreadyExists, dErrors.CodeAssetAlreadyExists, dErrors.CodeAlreadyApproved,
		dErrors.CodeVoucherAlreadyUsed, dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeNotApproved, dErrors.CodeOwnerNotApproved, dErrors.CodeBuyerNotApproved,
		dErrors.CodeNotOnSale, dErrors.CodeSelfPurchase, dErrors.CodeInsufficientFunds,
		dErrors.CodeArithmeticOverflow, dErrors.CodeInvalidVoucher:
		return http.StatusUnprocessableEntity
	case dErrors.CodeInvalidInput, dErrors.CodeBadRequest, dErrors.CodeInvalidPrice, dErrors.CodeInvalidStatus:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeNotOwner, dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		// seller_not_found means the ledger is inconsistent, so it is reported as a server fault.
		return http.StatusInternalServerError
	}
}

// WriteError writes err as a JSON error body. Server faults never expose
// their message.
func WriteError(w http.ResponseWriter, err error) {
	de, ok := dErrors.As(err)
	if !ok {
		de = dErrors.New(dErrors.CodeInternal, "internal error")
	}
	status := StatusFor(de.Code)
	body := ErrorResponse{Error: string(de.Code)}
	if status < http.StatusInternalServerError || de.Code == dErrors.CodeTimeout {
		body.Description = de.Message
		body.Details = de.Details
	}
	WriteJSON(w, status, body)
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// maxBodyBytes bounds request bodies read by DecodeJSON.
const maxBodyBytes = 1 << 20

// DecodeJSON decodes the request body into v, rejecting unknown fields and
// trailing data.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return dErrors.New(dErrors.CodeBadRequest, "request body must contain a single JSON object")
	}
	return nil
}
