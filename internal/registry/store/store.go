// Package store reads and writes registry records as JSON through a ledger
// transaction. Missing records surface as sentinel.ErrNotFound; callers
// translate that into the domain error that fits the operation.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"regnet/internal/ledger"
	"regnet/internal/registry/models"
	"regnet/pkg/platform/sentinel"
)

// Store is bound to one ledger transaction.
type Store struct {
	st ledger.State
}

func New(st ledger.State) *Store {
	return &Store{st: st}
}

// TxID identifies the transaction the store is bound to.
func (s *Store) TxID() string {
	return s.st.TxID()
}

func (s *Store) FindUser(ctx context.Context, name, nationalID string) (*models.User, error) {
	key, err := models.UserKey(name, nationalID)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := s.get(ctx, key, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUserByRef resolves an owner reference to its user record.
func (s *Store) FindUserByRef(ctx context.Context, ref string) (*models.User, error) {
	name, nationalID, err := models.ParseOwnerRef(ref)
	if err != nil {
		return nil, fmt.Errorf("resolve owner %q: %w", ref, sentinel.ErrNotFound)
	}
	return s.FindUser(ctx, name, nationalID)
}

func (s *Store) UserExists(ctx context.Context, name, nationalID string) (bool, error) {
	key, err := models.UserKey(name, nationalID)
	if err != nil {
		return false, err
	}
	return s.exists(ctx, key)
}

func (s *Store) PutUser(ctx context.Context, u *models.User) error {
	key, err := models.UserKey(u.Name, u.NationalID)
	if err != nil {
		return err
	}
	return s.put(ctx, key, u)
}

func (s *Store) FindProperty(ctx context.Context, assetID string) (*models.Property, error) {
	key, err := models.PropertyKey(assetID)
	if err != nil {
		return nil, err
	}
	var p models.Property
	if err := s.get(ctx, key, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) PropertyExists(ctx context.Context, assetID string) (bool, error) {
	key, err := models.PropertyKey(assetID)
	if err != nil {
		return false, err
	}
	return s.exists(ctx, key)
}

func (s *Store) PutProperty(ctx context.Context, p *models.Property) error {
	key, err := models.PropertyKey(p.AssetID)
	if err != nil {
		return err
	}
	return s.put(ctx, key, p)
}

// VoucherConsumed reports whether the user already redeemed code.
func (s *Store) VoucherConsumed(ctx context.Context, name, nationalID, code string) (bool, error) {
	key, err := models.VoucherKey(name, nationalID, code)
	if err != nil {
		return false, err
	}
	return s.exists(ctx, key)
}

func (s *Store) PutConsumedVoucher(ctx context.Context, name, nationalID string, v *models.ConsumedVoucher) error {
	key, err := models.VoucherKey(name, nationalID, v.Code)
	if err != nil {
		return err
	}
	return s.put(ctx, key, v)
}

// Emit stages a JSON event on the transaction.
func (s *Store) Emit(name string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", name, err)
	}
	return s.st.SetEvent(name, raw)
}

func (s *Store) get(ctx context.Context, key string, out any) error {
	raw, err := s.st.GetState(ctx, key)
	if err != nil {
		return err
	}
	if raw == nil {
		return sentinel.ErrNotFound
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

func (s *Store) exists(ctx context.Context, key string) (bool, error) {
	raw, err := s.st.GetState(ctx, key)
	if err != nil {
		return false, err
	}
	return raw != nil, nil
}

func (s *Store) put(ctx context.Context, key string, record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return s.st.PutState(ctx, key, raw)
}
