// Package users implements the participant lifecycle contract: registration
// requests, registrar approval, voucher top-ups and reads.
package users

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

const component = "users"

// RegistrationRequest carries the fields a participant submits.
type RegistrationRequest struct {
	Name       string
	Email      string
	Phone      string
	NationalID string
}

// Service is the participant lifecycle contract.
type Service struct {
	ledger   ledger.Ledger
	vouchers models.VoucherTable
	logger   *slog.Logger
	metrics  *metrics.Metrics
	runner   *contract.Runner
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

// WithVouchers replaces the default denomination table.
func WithVouchers(table models.VoucherTable) Option {
	return func(s *Service) {
		s.vouchers = table.Clone()
	}
}

// New constructs a Service.
func New(l ledger.Ledger, opts ...Option) *Service {
	s := &Service{ledger: l, vouchers: models.DefaultVouchers()}
	for _, opt := range opts {
		opt(s)
	}
	s.runner = contract.NewRunner(component, s.ledger, s.logger, s.metrics)
	return s
}

// RequestRegistration records a registration request bound to the caller.
func (s *Service) RequestRegistration(ctx context.Context, req RegistrationRequest) (*models.User, error) {
	caller, err := contract.Caller(ctx)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	var user *models.User
	err = s.runner.Submit(ctx, "RequestRegistration", func(ctx context.Context, st *store.Store) error {
		u, err := models.NewUser(req.Name, req.Email, req.Phone, req.NationalID, caller, now)
		if err != nil {
			return err
		}
		exists, err := st.UserExists(ctx, u.Name, u.NationalID)
		if err != nil {
			return err
		}
		if exists {
			return dErrors.New(dErrors.CodeAlreadyExists, "user is already registered").
				With("name", u.Name, "nationalId", u.NationalID)
		}
		if err := st.PutUser(ctx, u); err != nil {
			return err
		}
		if err := st.Emit(events.UserRegistrationRequested, userEvent(st.TxID(), u)); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.runner.Audit(ctx, events.UserRegistrationRequested,
		"name", user.Name, "national_id", user.NationalID, "caller_id", caller)
	s.metrics.IncrementUsersRegistered()
	return user, nil
}

// ApproveRegistration approves a pending request. Registrar only; the role is
// enforced by the ledger host.
func (s *Service) ApproveRegistration(ctx context.Context, name, nationalID string) (*models.User, error) {
	caller, err := contract.Caller(ctx)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	var user *models.User
	err = s.runner.Submit(ctx, "ApproveRegistration", func(ctx context.Context, st *store.Store) error {
		u, err := findUser(ctx, st, name, nationalID)
		if err != nil {
			return err
		}
		if err := u.Approve(caller, now); err != nil {
			return err
		}
		if err := st.PutUser(ctx, u); err != nil {
			return err
		}
		if err := st.Emit(events.UserApproved, userEvent(st.TxID(), u)); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.runner.Audit(ctx, events.UserApproved,
		"name", user.Name, "national_id", user.NationalID, "approver", caller)
	s.metrics.IncrementUsersApproved()
	return user, nil
}

// TopUpBalance redeems a voucher for an approved user. Each user may redeem a
// given voucher code once.
func (s *Service) TopUpBalance(ctx context.Context, name, nationalID, voucherCode string) (*models.User, error) {
	caller, err := contract.Caller(ctx)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	amount, ok := s.vouchers.Lookup(voucherCode)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidVoucher, "unknown voucher code").With("voucherCode", voucherCode)
	}

	var user *models.User
	err = s.runner.Submit(ctx, "TopUpBalance", func(ctx context.Context, st *store.Store) error {
		u, err := st.FindUser(ctx, name, nationalID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeInvalidVoucher, "voucher cannot be redeemed: user not found").
					With("name", name, "nationalId", nationalID)
			}
			return err
		}
		if !u.IsApproved() {
			return dErrors.New(dErrors.CodeNotApproved, "user is not approved").
				With("name", name, "nationalId", nationalID)
		}
		used, err := st.VoucherConsumed(ctx, name, nationalID, voucherCode)
		if err != nil {
			return err
		}
		if used {
			return dErrors.New(dErrors.CodeVoucherAlreadyUsed, "voucher already redeemed").
				With("name", name, "nationalId", nationalID, "voucherCode", voucherCode)
		}
		if err := u.Credit(amount, now); err != nil {
			return err
		}

		if err := st.PutUser(ctx, u); err != nil {
			return err
		}
		consumed := &models.ConsumedVoucher{Code: voucherCode, Amount: amount, TxID: st.TxID(), ConsumedAt: now}
		if err := st.PutConsumedVoucher(ctx, name, nationalID, consumed); err != nil {
			return err
		}
		ev := userEvent(st.TxID(), u)
		ev.Voucher = voucherCode
		ev.Amount = amount
		if err := st.Emit(events.BalanceToppedUp, ev); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.runner.Audit(ctx, events.BalanceToppedUp,
		"name", user.Name, "national_id", user.NationalID, "amount", amount, "caller_id", caller)
	s.metrics.AddCoinsMinted(amount)
	return user, nil
}

// ViewUser reads a user record.
func (s *Service) ViewUser(ctx context.Context, name, nationalID string) (*models.User, error) {
	var user *models.User
	err := s.runner.Evaluate(ctx, "ViewUser", func(ctx context.Context, st *store.Store) error {
		u, err := findUser(ctx, st, name, nationalID)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func findUser(ctx context.Context, st *store.Store, name, nationalID string) (*models.User, error) {
	u, err := st.FindUser(ctx, name, nationalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found").
				With("name", name, "nationalId", nationalID)
		}
		return nil, err
	}
	return u, nil
}

func userEvent(txID string, u *models.User) events.User {
	return events.User{
		TxID:       txID,
		Name:       u.Name,
		NationalID: u.NationalID,
		CallerID:   u.CallerID,
		Status:     string(u.Status),
		Balance:    u.Balance,
		At:         u.UpdatedAt,
	}
}
