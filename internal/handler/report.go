package handler

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/ecommerce-microservices/report-service/internal/report"
	"github.com/vasiliy-maslov/ecommerce-microservices/report-service/internal/snapshot"
)

// defaultTopN is the ranking depth of the top-customers view when the request
// does not override it.
const defaultTopN = 3

const defaultRecencyDays = 30

type TopCustomersRequest struct {
	N int `validate:"gte=0"`
}

type RecentOrdersRequest struct {
	Days int `validate:"gte=0"`
}

type CategoryOrdersRequest struct {
	Category string `validate:"required"`
}

// ReportHandler serves one endpoint per reporting view. It holds the current
// snapshot behind a read lock; queries in flight keep reading the snapshot
// they started with, and refresh swaps in a replacement atomically.
type ReportHandler struct {
	source   snapshot.Source
	validate *validator.Validate

	mu   sync.RWMutex
	snap *snapshot.Snapshot
}

func NewReportHandler(source snapshot.Source, snap *snapshot.Snapshot) *ReportHandler {
	return &ReportHandler{
		source:   source,
		validate: validator.New(),
		snap:     snap,
	}
}

func (h *ReportHandler) RegisterRoutes(router chi.Router) {
	router.Get("/reports/customers", h.handleCustomers)
	router.Get("/reports/orders/item-counts", h.handleOrderItemCounts)
	router.Get("/reports/products/by-price", h.handleProductsByPrice)
	router.Get("/reports/orders/pending", h.handlePendingOrders)
	router.Get("/reports/customers/order-counts", h.handleOrderCountPerCustomer)
	router.Get("/reports/customers/top", h.handleTopCustomers)
	router.Get("/reports/orders/recent", h.handleRecentOrders)
	router.Get("/reports/products/sold", h.handleTotalSoldPerProduct)
	router.Get("/reports/orders/discounted", h.handleDiscountedOrders)
	router.Get("/reports/orders/by-category", h.handleOrdersWithCategory)
	router.Post("/snapshot/refresh", h.handleRefresh)
}

// service binds a report service to the snapshot current at call time.
func (h *ReportHandler) service() report.Service {
	h.mu.RLock()
	snap := h.snap
	h.mu.RUnlock()
	return report.NewService(snap)
}

func (h *ReportHandler) handleCustomers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service().Customers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to build customers report")
		respondWithError(w, mapErrorToStatusCode(err), "failed to build customers report")
		return
	}
	respondWithJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) handleOrderItemCounts(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service().OrderItemCounts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to build order item counts report")
		respondWithError(w, mapErrorToStatusCode(err), "failed to build order item counts report")
		return
	}
	respondWithJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) handleProductsByPrice(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service().ProductsByPrice(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to build products by price report")
		respondWithError(w, mapErrorToStatusCode(err), "failed to build products by price report")
		return
	}
	respondWithJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) handlePendingOrders(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service().PendingOrders(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to build pending orders report")
		respondWithError(w, mapErrorToStatusCode(err), "failed to build pending orders report")
		return
	}
	respondWithJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) handleOrderCountPerCustomer(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service().OrderCountPerCustomer(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to build order counts report")
		respondWithError(w, mapErrorToStatusCode(err), "failed to build order counts report")
		return
	}
	respondWithJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) handleTopCustomers(w http.ResponseWriter, r *http.Request) {
	req := TopCustomersRequest{N: defaultTopN}
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "query parameter 'n' must be an integer")
			return
		}
		req.N = n
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondValidationError(w, err)
		return
	}

	rows, err := h.service().TopCustomersByValue(r.Context(), req.N)
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to build top customers report")
		respondWithError(w, mapErrorToStatusCode(err), "failed to build top customers report")
		return
	}
	respondWithJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) handleRecentOrders(w http.ResponseWriter, r *http.Request) {
	req := RecentOrdersRequest{Days: defaultRecencyDays}
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "query parameter 'days' must be an integer")
			return
		}
		req.Days = days
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondValidationError(w, err)
		return
	}

	rows, err := h.service().RecentOrders(r.Context(), req.Days)
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to build recent orders report")
		respondWithError(w, mapErrorToStatusCode(err), "failed to build recent orders report")
		return
	}
	respondWithJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) handleTotalSoldPerProduct(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service().TotalSoldPerProduct(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to build total sold report")
		respondWithError(w, mapErrorToStatusCode(err), "failed to build total sold report")
		return
	}
	respondWithJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) handleDiscountedOrders(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service().DiscountedOrders(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to build discounted orders report")
		respondWithError(w, mapErrorToStatusCode(err), "failed to build discounted orders report")
		return
	}
	respondWithJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) handleOrdersWithCategory(w http.ResponseWriter, r *http.Request) {
	req := CategoryOrdersRequest{Category: r.URL.Query().Get("category")}

	if err := h.validate.Struct(req); err != nil {
		h.respondValidationError(w, err)
		return
	}

	rows, err := h.service().OrdersWithCategory(r.Context(), req.Category)
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to build category orders report")
		respondWithError(w, mapErrorToStatusCode(err), "failed to build category orders report")
		return
	}
	respondWithJSON(w, http.StatusOK, rows)
}

// handleRefresh loads a fresh snapshot from the source and swaps it in.
// Queries already running keep their old snapshot; new queries see the new
// one. The old snapshot is dropped, never partially updated.
func (h *ReportHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.source.Load(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to reload snapshot")
		respondWithError(w, http.StatusInternalServerError, "failed to reload snapshot")
		return
	}

	h.mu.Lock()
	h.snap = snap
	h.mu.Unlock()

	log.Info().Int("customers", len(snap.Customers())).Int("orders", len(snap.Orders())).Msg("handler: snapshot refreshed")

	respondWithJSON(w, http.StatusOK, map[string]int{
		"customers": len(snap.Customers()),
		"orders":    len(snap.Orders()),
		"products":  len(snap.Products()),
	})
}

func (h *ReportHandler) respondValidationError(w http.ResponseWriter, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		log.Error().Err(err).Msg("handler: unexpected error type during validation")
		respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		return
	}

	respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
		Error:   "Validation failed",
		Details: formatValidationErrors(validationErrors),
	})
}
