package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"regnet/internal/ledger/memory"
	"regnet/internal/registry/assets"
	"regnet/internal/registry/users"
	authmw "regnet/pkg/platform/middleware/auth"
	"regnet/pkg/testutil"
)

// Handlers are mounted without auth middleware; the caller is placed on the
// context directly.
func TestSelfPurchaseScenario(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := memory.New()
	userHandler := NewUserHandler(users.New(l), logger)
	assetHandler := NewAssetHandler(assets.New(l), logger)

	r := chi.NewRouter()
	userHandler.RegisterParticipant(r)
	assetHandler.RegisterParticipant(r)
	r.Route("/registrar", func(r chi.Router) {
		userHandler.RegisterRegistrar(r)
		assetHandler.RegisterRegistrar(r)
	})

	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	call := func(t *testing.T, caller, role, method, path string, body any) *httptest.ResponseRecorder {
		t.Helper()
		req := testutil.NewJSONRequest(t, method, path, body)
		req = testutil.WithTime(testutil.WithCaller(req, caller, role), now)
		return testutil.DoRequest(r, req)
	}

	testutil.Given(t, "Bob owns P1 and it is on sale", func(t *testing.T) {
		rr := call(t, "bob", authmw.RoleUser, http.MethodPost, "/registrations", map[string]string{"name": "Bob", "nationalId": "B1"})
		testutil.AssertStatus(t, rr, http.StatusCreated)
		testutil.AssertStatusOK(t, call(t, "reg", authmw.RoleRegistrar, http.MethodPost, "/registrar/participants/Bob/B1/approve", nil))
		testutil.AssertStatusOK(t, call(t, "bob", authmw.RoleUser, http.MethodPost, "/participants/Bob/B1/topup", map[string]string{"voucherCode": "upg100"}))

		rr = call(t, "bob", authmw.RoleUser, http.MethodPost, "/properties", map[string]any{"assetId": "P1", "price": 50, "ownerName": "Bob", "ownerNationalId": "B1"})
		testutil.AssertStatus(t, rr, http.StatusCreated)
		testutil.AssertStatusOK(t, call(t, "bob", authmw.RoleUser, http.MethodPut, "/properties/P1/status", map[string]string{"ownerName": "Bob", "ownerNationalId": "B1", "status": "OnSale"}))
	})

	testutil.When(t, "Bob tries to buy his own property", func(t *testing.T) {
		rr := call(t, "bob", authmw.RoleUser, http.MethodPost, "/properties/P1/purchase", map[string]string{"buyerName": "Bob", "buyerNationalId": "B1"})
		testutil.AssertStatusAndError(t, rr, http.StatusUnprocessableEntity, "self_purchase")
		testutil.AssertErrorDetail(t, rr, "owner", "Bob-B1")
	})

	testutil.Then(t, "nothing changes", func(t *testing.T) {
		rr := call(t, "bob", authmw.RoleUser, http.MethodGet, "/properties/P1", nil)
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "OnSale")

		rr = call(t, "bob", authmw.RoleUser, http.MethodGet, "/participants/Bob/B1", nil)
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "balance", float64(100))
	})

	testutil.Then(t, "an unknown status is rejected", func(t *testing.T) {
		rr := call(t, "bob", authmw.RoleUser, http.MethodPut, "/properties/P1/status", map[string]string{"ownerName": "Bob", "ownerNationalId": "B1", "status": "Sold"})
		require.Equal(t, http.StatusBadRequest, rr.Code)
		testutil.AssertErrorCode(t, rr, "invalid_status")
	})
}
