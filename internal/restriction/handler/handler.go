// Package handler exposes the restriction service over HTTP: the admin
// settings/report API and the hooks the commerce platform calls around
// checkout and order creation.
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"shiprestrict/internal/platform/config"
	"shiprestrict/internal/restriction/models"
	"shiprestrict/internal/restriction/service/checkout"
	"shiprestrict/internal/restriction/service/orderaudit"
	"shiprestrict/internal/restriction/service/settings"
	"shiprestrict/internal/restriction/store/auditlog"
)

// Handler binds the services to their routes.
type Handler struct {
	settings *settings.Service
	checkout *checkout.Service
	audit    *orderaudit.Service
	logs     auditlog.Store
	logger   *slog.Logger
}

func New(settingsSvc *settings.Service, checkoutSvc *checkout.Service, auditSvc *orderaudit.Service, logStore auditlog.Store, logger *slog.Logger) (*Handler, error) {
	if settingsSvc == nil {
		return nil, fmt.Errorf("settings service is required")
	}
	if checkoutSvc == nil {
		return nil, fmt.Errorf("checkout service is required")
	}
	if auditSvc == nil {
		return nil, fmt.Errorf("audit service is required")
	}
	if logStore == nil {
		return nil, fmt.Errorf("log store is required")
	}

	return &Handler{
		settings: settingsSvc,
		checkout: checkoutSvc,
		audit:    auditSvc,
		logs:     logStore,
		logger:   logger,
	}, nil
}

// RegisterRoutes mounts the API. adminAuth guards the operator surface; the
// hook routes are platform-internal and stay open.
func (h *Handler) RegisterRoutes(r chi.Router, adminAuth func(http.Handler) http.Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if adminAuth != nil {
				r.Use(adminAuth)
			}
			r.Get("/admin/settings", h.getSettings)
			r.Put("/admin/settings", h.saveSettings)
			r.Get("/admin/logs", h.listLogs)
			r.Get("/admin/shipping-methods", h.listMethods)
		})

		r.Post("/hooks/order-created", h.orderCreated)
		r.Post("/hooks/checkout/validate", h.validateCheckout)
		r.Post("/hooks/shipping-methods", h.filterMethods)
		r.Post("/hooks/pre-order", h.preOrder)
	})
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = models.ModeToken
	}

	rs, err := h.settings.Settings(r.Context(), mode)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respond(w, http.StatusOK, models.SettingsResponse{
		Mode:     mode,
		Allowed:  rs.Allowed,
		Excluded: rs.Excluded,
	})
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	var req models.SaveSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	rs, warnings, err := h.settings.Save(r.Context(), &req)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}

	mode := models.ModeToken
	if rs.ModeKey != models.GlobalModeKey {
		mode = strconv.Itoa(rs.ModeKey)
	}
	respond(w, http.StatusOK, models.SaveSettingsResponse{Mode: mode, Warnings: warnings})
}

func (h *Handler) listLogs(w http.ResponseWriter, r *http.Request) {
	limit := config.LogPageDefault
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, fmt.Errorf("limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	if limit > config.LogPageMax {
		limit = config.LogPageMax
	}

	entries, err := h.logs.ListRecent(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	rows := make([]models.LogEntryResponse, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, models.NewLogEntryResponse(e))
	}
	respond(w, http.StatusOK, map[string]any{"entries": rows})
}

func (h *Handler) listMethods(w http.ResponseWriter, r *http.Request) {
	list, err := h.settings.ShippingMethods(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respond(w, http.StatusOK, models.MethodsResponse{Methods: list})
}

func (h *Handler) orderCreated(w http.ResponseWriter, r *http.Request) {
	var payload models.OrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	// Best-effort side channel: the order already exists, so the hook always
	// acknowledges. Failures are logged and counted inside the service.
	if err := h.audit.Record(r.Context(), payload.Snapshot()); err != nil && h.logger != nil {
		h.logger.ErrorContext(r.Context(), "order audit failed", "error", err)
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) validateCheckout(w http.ResponseWriter, r *http.Request) {
	var payload models.CheckoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	errs := h.checkout.ValidateCountry(r.Context(), payload.BillingAddress.Country)
	respond(w, http.StatusOK, models.CheckoutValidationResponse{Errors: errs})
}

func (h *Handler) filterMethods(w http.ResponseWriter, r *http.Request) {
	var payload models.MethodsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	filtered := h.checkout.FilterMethods(r.Context(), payload.Methods)
	if filtered == nil {
		filtered = []models.ShippingMethod{}
	}
	respond(w, http.StatusOK, models.MethodsResponse{Methods: filtered})
}

func (h *Handler) preOrder(w http.ResponseWriter, r *http.Request) {
	var payload models.OrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	verdict := h.checkout.PreCreateCheck(r.Context(), payload.Snapshot())
	if verdict.Passed {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	msg := "This country is not allowed for shipping."
	if verdict.Reason == models.ReasonExcluded {
		msg = "We do not ship to this country."
	}
	respond(w, http.StatusForbidden, map[string]string{"error": msg})
}

// statusFor maps service errors onto HTTP codes. Validation failures carry
// their phrasing from Normalize/Validate; anything else is a storage fault.
func statusFor(err error) int {
	msg := err.Error()
	if strings.Contains(msg, "required") || strings.Contains(msg, "must") {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respond(w, status, map[string]string{"error": err.Error()})
}
