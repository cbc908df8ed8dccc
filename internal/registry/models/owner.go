package models

import (
	"strings"

	dErrors "regnet/pkg/domain-errors"
)

// OwnerRefSeparator joins name and national ID in an owner reference.
const OwnerRefSeparator = "-"

// OwnerRef derives the reference stored on a property for a user key.
func OwnerRef(name, nationalID string) string {
	return name + OwnerRefSeparator + nationalID
}

// ParseOwnerRef splits an owner reference into name and national ID. Names
// may contain '-', national IDs may not, so the split is at the last '-'.
func ParseOwnerRef(ref string) (name, nationalID string, err error) {
	i := strings.LastIndex(ref, OwnerRefSeparator)
	if i <= 0 || i == len(ref)-1 {
		return "", "", dErrors.New(dErrors.CodeInvalidInput, "malformed owner reference").With("owner", ref)
	}
	return ref[:i], ref[i+1:], nil
}
