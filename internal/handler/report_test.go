package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/ecommerce-microservices/report-service/internal/handler"
	"github.com/vasiliy-maslov/ecommerce-microservices/report-service/internal/snapshot"
)

type stubSource struct {
	snap  *snapshot.Snapshot
	err   error
	loads int
}

func (s *stubSource) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func testSnapshot(t *testing.T) *snapshot.Snapshot {
	t.Helper()

	b := snapshot.NewBuilder()

	customerID := uuid.Must(uuid.NewV4())
	productID := uuid.Must(uuid.NewV4())
	orderID := uuid.Must(uuid.NewV4())

	b.AddCustomer(snapshot.Customer{ID: customerID, FirstName: "Anna", LastName: "Becker", Email: "anna@example.com"})
	b.AddProduct(snapshot.Product{ID: productID, Name: "Mouse", Price: decimal.RequireFromString("25.00")})
	b.AddOrder(snapshot.Order{ID: orderID, CustomerID: customerID, OrderDate: time.Now().UTC(), Status: snapshot.StatusPending})
	b.AddOrderItem(snapshot.OrderItem{
		ID:        uuid.Must(uuid.NewV4()),
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  2,
		UnitPrice: decimal.NullDecimal{Decimal: decimal.RequireFromString("10.00"), Valid: true},
	})

	snap, err := b.Build()
	require.NoError(t, err)
	return snap
}

func newTestRouter(t *testing.T, source *stubSource) *chi.Mux {
	t.Helper()

	snap := source.snap
	if snap == nil {
		snap = testSnapshot(t)
	}

	h := handler.NewReportHandler(source, snap)
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func doRequest(t *testing.T, router *chi.Mux, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestReportHandler_AllViewsRespond(t *testing.T) {
	router := newTestRouter(t, &stubSource{})

	targets := []string{
		"/reports/customers",
		"/reports/orders/item-counts",
		"/reports/products/by-price",
		"/reports/orders/pending",
		"/reports/customers/order-counts",
		"/reports/customers/top",
		"/reports/orders/recent",
		"/reports/products/sold",
		"/reports/orders/discounted",
		"/reports/orders/by-category?category=Electronics",
	}

	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodGet, target)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestReportHandler_Customers_Body(t *testing.T) {
	router := newTestRouter(t, &stubSource{})

	rec := doRequest(t, router, http.MethodGet, "/reports/customers")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Anna Becker", rows[0]["full_name"])
	assert.Equal(t, "anna@example.com", rows[0]["email"])
}

func TestReportHandler_TopCustomers_Validation(t *testing.T) {
	router := newTestRouter(t, &stubSource{})

	rec := doRequest(t, router, http.MethodGet, "/reports/customers/top?n=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/reports/customers/top?n=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/reports/customers/top?n=1")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReportHandler_RecentOrders_Validation(t *testing.T) {
	router := newTestRouter(t, &stubSource{})

	rec := doRequest(t, router, http.MethodGet, "/reports/orders/recent?days=-5")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/reports/orders/recent?days=7")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReportHandler_CategoryRequired(t *testing.T) {
	router := newTestRouter(t, &stubSource{})

	rec := doRequest(t, router, http.MethodGet, "/reports/orders/by-category")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body["error"])
}

func TestReportHandler_Refresh(t *testing.T) {
	// The replacement snapshot has two customers, the initial one has one.
	replacement := snapshot.NewBuilder()
	first := uuid.Must(uuid.NewV4())
	second := uuid.Must(uuid.NewV4())
	replacement.AddCustomer(snapshot.Customer{ID: first, FirstName: "Anna", LastName: "Becker"})
	replacement.AddCustomer(snapshot.Customer{ID: second, FirstName: "Boris", LastName: "Ivanov"})
	replacementSnap, err := replacement.Build()
	require.NoError(t, err)

	source := &stubSource{snap: replacementSnap}
	h := handler.NewReportHandler(source, testSnapshot(t))
	router := chi.NewRouter()
	h.RegisterRoutes(router)

	rec := doRequest(t, router, http.MethodGet, "/reports/customers")
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)

	rec = doRequest(t, router, http.MethodPost, "/snapshot/refresh")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, source.loads)

	rec = doRequest(t, router, http.MethodGet, "/reports/customers")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 2, "queries after refresh see the new snapshot")
}

func TestReportHandler_RefreshFailureKeepsOldSnapshot(t *testing.T) {
	source := &stubSource{err: errors.New("connection refused")}
	router := newTestRouter(t, source)

	rec := doRequest(t, router, http.MethodPost, "/snapshot/refresh")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/reports/customers")
	assert.Equal(t, http.StatusOK, rec.Code, "a failed refresh must not take down the current snapshot")
}
