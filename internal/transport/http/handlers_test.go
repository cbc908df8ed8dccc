package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"regnet/internal/registry/assets"
	"regnet/internal/registry/models"
	"regnet/internal/registry/users"
	"regnet/internal/transport/http/mocks"
	dErrors "regnet/pkg/domain-errors"
	"regnet/pkg/platform/httputil"
	authmw "regnet/pkg/platform/middleware/auth"
	"regnet/pkg/requestcontext"
)

//go:generate mockgen -source=handlers_users.go -destination=mocks/users-mocks.go -package=mocks UserService
//go:generate mockgen -source=handlers_assets.go -destination=mocks/assets-mocks.go -package=mocks AssetService

type tokenTable map[string]*authmw.JWTClaims

func (t tokenTable) ValidateToken(token string) (*authmw.JWTClaims, error) {
	if c, ok := t[token]; ok {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

type HandlerSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	users  *mocks.MockUserService
	assets *mocks.MockAssetService
	router http.Handler
	now    time.Time
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.users = mocks.NewMockUserService(s.ctrl)
	s.assets = mocks.NewMockAssetService(s.ctrl)
	s.now = time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = NewRouter(RouterConfig{
		Logger: logger,
		Users:  NewUserHandler(s.users, logger),
		Assets: NewAssetHandler(s.assets, logger),
		Validator: tokenTable{
			"alice":     {CallerID: "caller-alice", Role: authmw.RoleUser},
			"registrar": {CallerID: "caller-registrar", Role: authmw.RoleRegistrar},
		},
	})
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) errorBody(w *httptest.ResponseRecorder) httputil.ErrorResponse {
	var body httputil.ErrorResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
	return body
}

func (s *HandlerSuite) TestRequestRegistration() {
	s.Run("passes the caller identity and returns 201", func() {
		s.users.EXPECT().
			RequestRegistration(gomock.Any(), users.RegistrationRequest{
				Name: "Alice", Email: "alice@example.com", Phone: "555", NationalID: "A1",
			}).
			DoAndReturn(func(ctx context.Context, req users.RegistrationRequest) (*models.User, error) {
				s.Equal("caller-alice", requestcontext.CallerID(ctx))
				return &models.User{Name: req.Name, NationalID: req.NationalID, Status: models.UserStatusRequested}, nil
			})

		w := s.do(http.MethodPost, "/users/registrations", "alice", map[string]string{
			"name": "Alice", "email": "alice@example.com", "phone": "555", "nationalId": "A1",
		})
		s.Equal(http.StatusCreated, w.Code)

		var got models.User
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&got))
		s.Equal(models.UserStatusRequested, got.Status)
	})

	s.Run("unknown fields are rejected before the contract runs", func() {
		w := s.do(http.MethodPost, "/users/registrations", "alice", map[string]string{"name": "Alice", "role": "registrar"})
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("bad_request", s.errorBody(w).Error)
	})

	s.Run("duplicate registration is a conflict", func() {
		s.users.EXPECT().RequestRegistration(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeAlreadyExists, "user already exists"))
		w := s.do(http.MethodPost, "/users/registrations", "alice", map[string]string{"name": "Alice", "nationalId": "A1"})
		s.Equal(http.StatusConflict, w.Code)
		s.Equal("already_exists", s.errorBody(w).Error)
	})
}

func (s *HandlerSuite) TestTopUp() {
	balance := uint64(500)
	s.users.EXPECT().TopUpBalance(gomock.Any(), "Alice", "A1", "upg500").
		Return(&models.User{Name: "Alice", NationalID: "A1", Balance: &balance, Status: models.UserStatusApproved}, nil)

	w := s.do(http.MethodPost, "/users/participants/Alice/A1/topup", "alice", map[string]string{"voucherCode": "upg500"})
	s.Equal(http.StatusOK, w.Code)

	s.users.EXPECT().TopUpBalance(gomock.Any(), "Alice", "A1", "upg500").
		Return(nil, dErrors.New(dErrors.CodeVoucherAlreadyUsed, "voucher already redeemed"))
	w = s.do(http.MethodPost, "/users/participants/Alice/A1/topup", "alice", map[string]string{"voucherCode": "upg500"})
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerSuite) TestRoleGating() {
	s.Run("participants cannot approve", func() {
		w := s.do(http.MethodPost, "/registrar/participants/Alice/A1/approve", "alice", nil)
		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("registrars cannot purchase", func() {
		w := s.do(http.MethodPost, "/users/properties/P1/purchase", "registrar", map[string]string{"buyerName": "Bob", "buyerNationalId": "B1"})
		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("anonymous calls are unauthorized", func() {
		w := s.do(http.MethodGet, "/users/properties/P1", "", nil)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("registrar approves a user", func() {
		s.users.EXPECT().ApproveRegistration(gomock.Any(), "Alice", "A1").
			Return(&models.User{Name: "Alice", Status: models.UserStatusApproved, Approver: "caller-registrar"}, nil)
		w := s.do(http.MethodPost, "/registrar/participants/Alice/A1/approve", "registrar", nil)
		s.Equal(http.StatusOK, w.Code)
	})
}

func (s *HandlerSuite) TestPurchaseErrors() {
	s.Run("insufficient funds carries details", func() {
		s.assets.EXPECT().PurchaseAsset(gomock.Any(), "P1", "Bob", "B1").
			Return(nil, dErrors.New(dErrors.CodeInsufficientFunds, "buyer balance below price").With("required", uint64(300), "available", uint64(100)))

		w := s.do(http.MethodPost, "/users/properties/P1/purchase", "alice", map[string]string{"buyerName": "Bob", "buyerNationalId": "B1"})
		s.Equal(http.StatusUnprocessableEntity, w.Code)
		body := s.errorBody(w)
		s.Equal("insufficient_funds", body.Error)
		s.Equal(float64(300), body.Details["required"])
		s.Equal(float64(100), body.Details["available"])
	})

	s.Run("seller missing is a server fault without description", func() {
		s.assets.EXPECT().PurchaseAsset(gomock.Any(), "P1", "Bob", "B1").
			Return(nil, dErrors.New(dErrors.CodeSellerNotFound, "seller record missing"))

		w := s.do(http.MethodPost, "/users/properties/P1/purchase", "alice", map[string]string{"buyerName": "Bob", "buyerNationalId": "B1"})
		s.Equal(http.StatusInternalServerError, w.Code)
		body := s.errorBody(w)
		s.Equal("seller_not_found", body.Error)
		s.Empty(body.Description)
	})
}

func (s *HandlerSuite) TestAssetRoutes() {
	property := &models.Property{AssetID: "P1", Price: 300, Owner: "Alice-A1", Status: models.PropertyStatusRegistered}

	s.assets.EXPECT().CreateAsset(gomock.Any(), assets.CreateRequest{
		AssetID: "P1", Price: 300, OwnerName: "Alice", OwnerNationalID: "A1",
	}).Return(property, nil)
	w := s.do(http.MethodPost, "/users/properties", "alice", map[string]any{
		"assetId": "P1", "price": 300, "ownerName": "Alice", "ownerNationalId": "A1",
	})
	s.Equal(http.StatusCreated, w.Code)

	s.assets.EXPECT().UpdateAssetStatus(gomock.Any(), "P1", "Alice", "A1", "OnSale").Return(property, nil)
	w = s.do(http.MethodPut, "/users/properties/P1/status", "alice", map[string]string{
		"ownerName": "Alice", "ownerNationalId": "A1", "status": "OnSale",
	})
	s.Equal(http.StatusOK, w.Code)

	s.assets.EXPECT().ApproveAsset(gomock.Any(), "P1").Return(property, nil)
	w = s.do(http.MethodPost, "/registrar/properties/P1/approve", "registrar", nil)
	s.Equal(http.StatusOK, w.Code)

	s.assets.EXPECT().ViewAsset(gomock.Any(), "P9").Return(nil, dErrors.New(dErrors.CodeAssetNotFound, "asset not found"))
	w = s.do(http.MethodGet, "/registrar/properties/P9", "registrar", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestHealthz() {
	w := s.do(http.MethodGet, "/healthz", "", nil)
	s.Equal(http.StatusOK, w.Code)
}
