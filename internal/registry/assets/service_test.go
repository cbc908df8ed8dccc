package assets

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"regnet/internal/ledger"
	"regnet/internal/ledger/memory"
	"regnet/internal/registry/events"
	"regnet/internal/registry/models"
	"regnet/internal/registry/users"
	dErrors "regnet/pkg/domain-errors"
	"regnet/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ledger  *memory.Ledger
	users   *users.Service
	service *Service
	now     time.Time

	mu     sync.Mutex
	events []ledger.Event
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	s.events = nil
	s.ledger = memory.New(
		ledger.WithMaxAttempts(100),
		ledger.WithEventSink(ledger.EventSinkFunc(func(_ context.Context, evs []ledger.Event) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.events = append(s.events, evs...)
			return nil
		})),
	)
	s.users = users.New(s.ledger, users.WithVouchers(models.VoucherTable{
		"upg100": 100, "upg500": 500, "upg1000": 1000, "bonus1000": 1000,
	}))
	s.service = New(s.ledger)
}

func (s *ServiceSuite) as(caller string) context.Context {
	ctx := requestcontext.WithCallerID(context.Background(), caller)
	return requestcontext.WithTime(ctx, s.now)
}

// approvedUser registers, approves and funds a user through the
// participant contract.
func (s *ServiceSuite) approvedUser(name, nationalID string, vouchers ...string) {
	_, err := s.users.RequestRegistration(s.as("user-"+name), users.RegistrationRequest{Name: name, NationalID: nationalID})
	s.Require().NoError(err)
	_, err = s.users.ApproveRegistration(s.as("registrar-1"), name, nationalID)
	s.Require().NoError(err)
	for _, v := range vouchers {
		_, err = s.users.TopUpBalance(s.as("user-"+name), name, nationalID, v)
		s.Require().NoError(err)
	}
}

func (s *ServiceSuite) balance(name, nationalID string) uint64 {
	u, err := s.users.ViewUser(context.Background(), name, nationalID)
	s.Require().NoError(err)
	return u.BalanceOrZero()
}

func (s *ServiceSuite) asset(assetID string) *models.Property {
	p, err := s.service.ViewAsset(context.Background(), assetID)
	s.Require().NoError(err)
	return p
}

func (s *ServiceSuite) listAsset(assetID, owner, ownerID string, price int64) {
	_, err := s.service.CreateAsset(s.as("user-"+owner), CreateRequest{
		AssetID: assetID, Price: price, OwnerName: owner, OwnerNationalID: ownerID,
	})
	s.Require().NoError(err)
	_, err = s.service.UpdateAssetStatus(s.as("user-"+owner), assetID, owner, ownerID, "onSale")
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestAliceSellsToBob() {
	s.approvedUser("Alice", "A1", "upg500")
	s.Equal(uint64(500), s.balance("Alice", "A1"))

	created, err := s.service.CreateAsset(s.as("user-Alice"), CreateRequest{
		AssetID: "P1", Price: 300, OwnerName: "Alice", OwnerNationalID: "A1",
	})
	s.Require().NoError(err)
	s.Equal(models.PropertyStatusRegistered, created.Status)
	s.Equal("Alice-A1", created.Owner)

	_, err = s.service.UpdateAssetStatus(s.as("user-Alice"), "P1", "Alice", "A1", "OnSale")
	s.Require().NoError(err)

	s.approvedUser("Bob", "B1", "upg1000")

	purchased, err := s.service.PurchaseAsset(s.as("user-Bob"), "P1", "Bob", "B1")
	s.Require().NoError(err)
	s.Equal("Bob-B1", purchased.Owner)
	s.Equal(models.PropertyStatusRegistered, purchased.Status)

	s.Equal(uint64(700), s.balance("Bob", "B1"))
	s.Equal(uint64(800), s.balance("Alice", "A1"))
	s.Equal(purchased, s.asset("P1"))

	s.Run("buying an asset you own is a self purchase", func() {
		_, err := s.service.UpdateAssetStatus(s.as("user-Bob"), "P1", "Bob", "B1", "OnSale")
		s.Require().NoError(err)

		_, err = s.service.PurchaseAsset(s.as("user-Bob"), "P1", "Bob", "B1")
		s.True(dErrors.HasCode(err, dErrors.CodeSelfPurchase))
		s.Equal(uint64(700), s.balance("Bob", "B1"))
		s.Equal("Bob-B1", s.asset("P1").Owner)
	})

	s.Run("purchase event describes the transfer", func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		var found bool
		for _, e := range s.events {
			if e.Name != events.AssetPurchased {
				continue
			}
			found = true
			var p events.Purchase
			s.Require().NoError(json.Unmarshal(e.Payload, &p))
			s.Equal("Alice-A1", p.Seller)
			s.Equal("Bob-B1", p.Buyer)
			s.Equal(uint64(300), p.Price)
			s.Equal(uint64(800), p.SellerBalance)
			s.Equal(uint64(700), p.BuyerBalance)
		}
		s.True(found)
	})
}

func (s *ServiceSuite) TestPurchaseFailuresLeaveStateUnchanged() {
	s.approvedUser("Alice", "A1", "upg500")
	s.approvedUser("Bob", "B1", "upg100")
	_, err := s.service.CreateAsset(s.as("user-Alice"), CreateRequest{AssetID: "P1", Price: 600, OwnerName: "Alice", OwnerNationalID: "A1"})
	s.Require().NoError(err)

	snapshot := func() (uint64, uint64, *models.Property) {
		return s.balance("Alice", "A1"), s.balance("Bob", "B1"), s.asset("P1")
	}

	s.Run("registered asset is not on sale", func() {
		a, b, p := snapshot()
		_, err := s.service.PurchaseAsset(s.as("user-Bob"), "P1", "Bob", "B1")
		s.True(dErrors.HasCode(err, dErrors.CodeNotOnSale))
		a2, b2, p2 := snapshot()
		s.Equal(a, a2)
		s.Equal(b, b2)
		s.Equal(p, p2)
	})

	_, err = s.service.UpdateAssetStatus(s.as("user-Alice"), "P1", "Alice", "A1", "OnSale")
	s.Require().NoError(err)

	s.Run("price above balance is insufficient funds", func() {
		a, b, p := snapshot()
		_, err := s.service.PurchaseAsset(s.as("user-Bob"), "P1", "Bob", "B1")
		s.Require().Error(err)
		de, ok := dErrors.As(err)
		s.Require().True(ok)
		s.Equal(dErrors.CodeInsufficientFunds, de.Code)
		s.Equal(uint64(600), de.Details["required"])
		s.Equal(uint64(100), de.Details["available"])

		a2, b2, p2 := snapshot()
		s.Equal(a, a2)
		s.Equal(b, b2)
		s.Equal(p, p2)
	})

	s.Run("unknown buyer is not approved", func() {
		_, err := s.service.PurchaseAsset(s.as("ghost"), "P1", "Ghost", "G1")
		s.True(dErrors.HasCode(err, dErrors.CodeBuyerNotApproved))
	})

	s.Run("requested buyer is not approved", func() {
		_, err := s.users.RequestRegistration(s.as("user-Carol"), users.RegistrationRequest{Name: "Carol", NationalID: "C1"})
		s.Require().NoError(err)
		_, err = s.service.PurchaseAsset(s.as("user-Carol"), "P1", "Carol", "C1")
		s.True(dErrors.HasCode(err, dErrors.CodeBuyerNotApproved))
	})

	s.Run("unknown asset", func() {
		_, err := s.service.PurchaseAsset(s.as("user-Bob"), "P404", "Bob", "B1")
		s.True(dErrors.HasCode(err, dErrors.CodeAssetNotFound))
	})

	s.Run("balance equal to price is enough", func() {
		_, err := s.users.TopUpBalance(s.as("user-Bob"), "Bob", "B1", "upg500")
		s.Require().NoError(err)
		_, err = s.service.PurchaseAsset(s.as("user-Bob"), "P1", "Bob", "B1")
		s.Require().NoError(err)
		s.Zero(s.balance("Bob", "B1"))
		s.Equal(uint64(1100), s.balance("Alice", "A1"))
	})
}

func (s *ServiceSuite) TestSellerMissing() {
	s.approvedUser("Bob", "B1", "upg1000")

	key, err := models.PropertyKey("P9")
	s.Require().NoError(err)
	orphan := models.Property{AssetID: "P9", Price: 10, Owner: "Vanished-V1", Status: models.PropertyStatusOnSale}
	raw, err := json.Marshal(orphan)
	s.Require().NoError(err)
	s.Require().NoError(s.ledger.Submit(context.Background(), func(ctx context.Context, st ledger.State) error {
		return st.PutState(ctx, key, raw)
	}))

	_, err = s.service.PurchaseAsset(s.as("user-Bob"), "P9", "Bob", "B1")
	s.True(dErrors.HasCode(err, dErrors.CodeSellerNotFound))
	s.Equal(uint64(1000), s.balance("Bob", "B1"))
}

func (s *ServiceSuite) TestSellerCreditOverflowWritesNothing() {
	s.approvedUser("Alice", "A1")
	s.approvedUser("Bob", "B1", "upg500")
	s.listAsset("P1", "Alice", "A1", 300)

	key, err := models.UserKey("Alice", "A1")
	s.Require().NoError(err)
	s.Require().NoError(s.ledger.Submit(context.Background(), func(ctx context.Context, st ledger.State) error {
		raw, err := st.GetState(ctx, key)
		if err != nil {
			return err
		}
		var alice models.User
		if err := json.Unmarshal(raw, &alice); err != nil {
			return err
		}
		full := uint64(math.MaxUint64)
		alice.Balance = &full
		raw, err = json.Marshal(alice)
		if err != nil {
			return err
		}
		return st.PutState(ctx, key, raw)
	}))
	before := s.asset("P1")

	_, err = s.service.PurchaseAsset(s.as("user-Bob"), "P1", "Bob", "B1")
	s.True(dErrors.HasCode(err, dErrors.CodeArithmeticOverflow), "got %v", err)

	s.Equal(uint64(math.MaxUint64), s.balance("Alice", "A1"))
	s.Equal(uint64(500), s.balance("Bob", "B1"))
	after := s.asset("P1")
	s.Equal(before, after)
	s.Equal("Alice-A1", after.Owner)
	s.Equal(models.PropertyStatusOnSale, after.Status)
}

func (s *ServiceSuite) TestCoinSupplyIsConserved() {
	s.approvedUser("Alice", "A1", "upg500", "upg100")
	s.approvedUser("Bob", "B1", "upg1000")
	s.listAsset("P1", "Alice", "A1", 250)
	s.listAsset("P2", "Alice", "A1", 900)

	total := s.balance("Alice", "A1") + s.balance("Bob", "B1")

	_, err := s.service.PurchaseAsset(s.as("user-Bob"), "P1", "Bob", "B1")
	s.Require().NoError(err)
	s.Equal(total, s.balance("Alice", "A1")+s.balance("Bob", "B1"))

	_, err = s.service.PurchaseAsset(s.as("user-Bob"), "P2", "Bob", "B1")
	s.True(dErrors.HasCode(err, dErrors.CodeInsufficientFunds))
	s.Equal(total, s.balance("Alice", "A1")+s.balance("Bob", "B1"))

	s.Equal(uint64(850), s.balance("Alice", "A1"))
	s.Equal(uint64(750), s.balance("Bob", "B1"))
}

func (s *ServiceSuite) TestConcurrentPurchasesHaveOneWinner() {
	s.approvedUser("Alice", "A1")
	s.listAsset("P1", "Alice", "A1", 100)

	const buyers = 8
	ids := make([]string, buyers)
	for i := range ids {
		ids[i] = string(rune('a'+i)) + "1"
		s.approvedUser("Buyer", ids[i], "upg1000")
	}

	var wg sync.WaitGroup
	var wins, notOnSale atomic.Int32
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := s.service.PurchaseAsset(s.as("user-Buyer"), "P1", "Buyer", id)
			switch {
			case err == nil:
				wins.Add(1)
			case dErrors.HasCode(err, dErrors.CodeNotOnSale):
				notOnSale.Add(1)
			}
		}(id)
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())
	s.Equal(int32(buyers-1), notOnSale.Load())
	s.Equal(uint64(100), s.balance("Alice", "A1"))

	var spent uint64
	for _, id := range ids {
		spent += 1000 - s.balance("Buyer", id)
	}
	s.Equal(uint64(100), spent, "exactly one buyer paid")
}

func (s *ServiceSuite) TestCreateAsset() {
	s.Run("owner must exist", func() {
		_, err := s.service.CreateAsset(s.as("x"), CreateRequest{AssetID: "P1", Price: 10, OwnerName: "Ghost", OwnerNationalID: "G1"})
		s.True(dErrors.HasCode(err, dErrors.CodeOwnerNotApproved))
	})

	s.Run("owner must be approved", func() {
		_, err := s.users.RequestRegistration(s.as("user-Carol"), users.RegistrationRequest{Name: "Carol", NationalID: "C1"})
		s.Require().NoError(err)
		_, err = s.service.CreateAsset(s.as("user-Carol"), CreateRequest{AssetID: "P1", Price: 10, OwnerName: "Carol", OwnerNationalID: "C1"})
		s.True(dErrors.HasCode(err, dErrors.CodeOwnerNotApproved))
	})

	s.approvedUser("Alice", "A1")

	s.Run("non-positive price is invalid", func() {
		for _, price := range []int64{0, -5} {
			_, err := s.service.CreateAsset(s.as("user-Alice"), CreateRequest{AssetID: "P1", Price: price, OwnerName: "Alice", OwnerNationalID: "A1"})
			s.True(dErrors.HasCode(err, dErrors.CodeInvalidPrice), "price %d", price)
		}
	})

	s.Run("asset ID is unique", func() {
		_, err := s.service.CreateAsset(s.as("user-Alice"), CreateRequest{AssetID: "P1", Price: 10, OwnerName: "Alice", OwnerNationalID: "A1"})
		s.Require().NoError(err)
		_, err = s.service.CreateAsset(s.as("user-Alice"), CreateRequest{AssetID: "P1", Price: 99, OwnerName: "Alice", OwnerNationalID: "A1"})
		s.True(dErrors.HasCode(err, dErrors.CodeAssetAlreadyExists))
		s.Equal(uint64(10), s.asset("P1").Price)
	})
}

func (s *ServiceSuite) TestUpdateAssetStatus() {
	s.approvedUser("Alice", "A1")
	s.approvedUser("Bob", "B1")
	_, err := s.service.CreateAsset(s.as("user-Alice"), CreateRequest{AssetID: "P1", Price: 10, OwnerName: "Alice", OwnerNationalID: "A1"})
	s.Require().NoError(err)

	s.Run("unknown owner is not found", func() {
		_, err := s.service.UpdateAssetStatus(s.as("x"), "P1", "Ghost", "G1", "OnSale")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("requested owner is not approved", func() {
		_, err := s.users.RequestRegistration(s.as("user-Carol"), users.RegistrationRequest{Name: "Carol", NationalID: "C1"})
		s.Require().NoError(err)
		_, err = s.service.UpdateAssetStatus(s.as("user-Carol"), "P1", "Carol", "C1", "OnSale")
		s.True(dErrors.HasCode(err, dErrors.CodeOwnerNotApproved))
	})

	s.Run("unknown asset", func() {
		_, err := s.service.UpdateAssetStatus(s.as("user-Alice"), "P404", "Alice", "A1", "OnSale")
		s.True(dErrors.HasCode(err, dErrors.CodeAssetNotFound))
	})

	s.Run("only the owner may change status", func() {
		_, err := s.service.UpdateAssetStatus(s.as("user-Bob"), "P1", "Bob", "B1", "OnSale")
		s.True(dErrors.HasCode(err, dErrors.CodeNotOwner))
		s.Equal(models.PropertyStatusRegistered, s.asset("P1").Status)
	})

	s.Run("unknown status is rejected", func() {
		_, err := s.service.UpdateAssetStatus(s.as("user-Alice"), "P1", "Alice", "A1", "Sold")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidStatus))
	})

	s.Run("toggles between registered and on sale", func() {
		p, err := s.service.UpdateAssetStatus(s.as("user-Alice"), "P1", "Alice", "A1", "OnSale")
		s.Require().NoError(err)
		s.Equal(models.PropertyStatusOnSale, p.Status)
		p, err = s.service.UpdateAssetStatus(s.as("user-Alice"), "P1", "Alice", "A1", "Registered")
		s.Require().NoError(err)
		s.Equal(models.PropertyStatusRegistered, p.Status)
	})
}

func (s *ServiceSuite) TestApproveAsset() {
	s.Run("unknown asset is not found", func() {
		_, err := s.service.ApproveAsset(s.as("registrar-1"), "P404")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.approvedUser("Alice", "A1")
	s.listAsset("P1", "Alice", "A1", 10)

	s.Run("records approver and finalizes as registered", func() {
		s.now = s.now.Add(time.Hour)
		p, err := s.service.ApproveAsset(s.as("registrar-1"), "P1")
		s.Require().NoError(err)
		s.Equal("registrar-1", p.Approver)
		s.Equal(models.PropertyStatusRegistered, p.Status)
		s.Equal("Alice-A1", p.Owner)
		s.Equal(s.now, p.UpdatedAt)
	})

	s.Run("repeating approval is allowed", func() {
		p, err := s.service.ApproveAsset(s.as("registrar-2"), "P1")
		s.Require().NoError(err)
		s.Equal("registrar-2", p.Approver)
	})
}

func (s *ServiceSuite) TestOperationsRequireCaller() {
	_, err := s.service.CreateAsset(context.Background(), CreateRequest{AssetID: "P1", Price: 1, OwnerName: "A", OwnerNationalID: "A1"})
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	_, err = s.service.PurchaseAsset(context.Background(), "P1", "A", "A1")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
