// Package models holds the registry records shared by the participant and
// asset contracts.
package models

import (
	"strings"
	"time"

	dErrors "regnet/pkg/domain-errors"
)

// UserStatus is the registration state of a participant.
type UserStatus string

const (
	UserStatusRequested UserStatus = "Requested"
	UserStatusApproved  UserStatus = "Approved"
)

// User is a registered participant.
//
// Invariants:
//   - Balance is nil while Status is Requested
//   - Balance is only mutated while Status is Approved
//   - Status moves Requested -> Approved once and never back
type User struct {
	Name       string     `json:"name"`
	NationalID string     `json:"nationalId"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	CallerID   string     `json:"callerId"`
	Balance    *uint64    `json:"balance,omitempty"`
	Status     UserStatus `json:"status"`
	Approver   string     `json:"approver,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// NewUser builds a registration request.
func NewUser(name, email, phone, nationalID, callerID string, now time.Time) (*User, error) {
	if err := ValidateUserKey(name, nationalID); err != nil {
		return nil, err
	}
	return &User{
		Name:       name,
		NationalID: nationalID,
		Email:      email,
		Phone:      phone,
		CallerID:   callerID,
		Status:     UserStatusRequested,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ValidateUserKey checks the components of a user key. The national ID may
// not contain '-' because owner references are split at the last '-'.
func ValidateUserKey(name, nationalID string) error {
	if strings.TrimSpace(name) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}
	if strings.TrimSpace(nationalID) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "national ID is required")
	}
	if strings.Contains(nationalID, OwnerRefSeparator) {
		return dErrors.New(dErrors.CodeInvalidInput, "national ID must not contain '"+OwnerRefSeparator+"'")
	}
	return nil
}

func (u *User) IsApproved() bool {
	return u.Status == UserStatusApproved
}

// Ref returns the derived owner reference for this user.
func (u *User) Ref() string {
	return OwnerRef(u.Name, u.NationalID)
}

// BalanceOrZero returns the balance, treating an unset balance as zero.
func (u *User) BalanceOrZero() uint64 {
	if u.Balance == nil {
		return 0
	}
	return *u.Balance
}

// Approve moves a requested user to Approved with a zero balance.
func (u *User) Approve(approver string, now time.Time) error {
	if u.IsApproved() {
		return dErrors.New(dErrors.CodeAlreadyApproved, "user is already approved").
			With("name", u.Name, "nationalId", u.NationalID)
	}
	zero := uint64(0)
	u.Status = UserStatusApproved
	u.Approver = approver
	u.Balance = &zero
	u.UpdatedAt = now
	return nil
}

// Credit adds amount to an approved user's balance.
func (u *User) Credit(amount uint64, now time.Time) error {
	if !u.IsApproved() {
		return dErrors.New(dErrors.CodeNotApproved, "user is not approved").
			With("name", u.Name, "nationalId", u.NationalID)
	}
	next, err := AddCoins(u.BalanceOrZero(), amount)
	if err != nil {
		return err
	}
	u.Balance = &next
	u.UpdatedAt = now
	return nil
}

// Debit subtracts amount from an approved user's balance.
func (u *User) Debit(amount uint64, now time.Time) error {
	if !u.IsApproved() {
		return dErrors.New(dErrors.CodeNotApproved, "user is not approved").
			With("name", u.Name, "nationalId", u.NationalID)
	}
	next, err := SubCoins(u.BalanceOrZero(), amount)
	if err != nil {
		return err
	}
	u.Balance = &next
	u.UpdatedAt = now
	return nil
}
