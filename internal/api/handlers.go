package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"carteira/pkg/carteira"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func recordFilterFromQuery(r *http.Request) carteira.RecordFilter {
	query := r.URL.Query()
	return carteira.RecordFilter{
		Ticker:     query.Get("ticker"),
		AssetClass: query.Get("asset_class"),
		StartDate:  query.Get("start_date"),
		EndDate:    query.Get("end_date"),
		Limit:      parseIntDefault(query.Get("limit"), 500),
		Offset:     parseIntDefault(query.Get("offset"), 0),
	}
}

// Purchases

func (h *handler) getPurchases(w http.ResponseWriter, r *http.Request) {
	records, err := h.core.GetPurchases(r.Context(), recordFilterFromQuery(r))
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if records == nil {
		records = []carteira.PurchaseRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handler) addPurchase(w http.ResponseWriter, r *http.Request) {
	var payload tradePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.core.AddPurchase(r.Context(), payload.toRequest())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *handler) updatePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}
	var payload tradePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.core.UpdatePurchase(r.Context(), id, payload.toRequest())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "purchase not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *handler) deletePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}
	deleted, err := h.core.DeletePurchase(r.Context(), id)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "purchase not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Sales

func (h *handler) getSales(w http.ResponseWriter, r *http.Request) {
	records, err := h.core.GetSales(r.Context(), recordFilterFromQuery(r))
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if records == nil {
		records = []carteira.SaleRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handler) addSale(w http.ResponseWriter, r *http.Request) {
	var payload tradePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.core.AddSale(r.Context(), payload.toRequest())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *handler) updateSale(w http.ResponseWriter, r *http.Request) {
	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}
	var payload tradePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.core.UpdateSale(r.Context(), id, payload.toRequest())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "sale not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}
	deleted, err := h.core.DeleteSale(r.Context(), id)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "sale not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Earnings

func (h *handler) getEarnings(w http.ResponseWriter, r *http.Request) {
	records, err := h.core.GetEarnings(r.Context(), recordFilterFromQuery(r))
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if records == nil {
		records = []carteira.EarningsRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handler) addEarnings(w http.ResponseWriter, r *http.Request) {
	var payload earningsPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.core.AddEarnings(r.Context(), payload.toRequest())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *handler) updateEarnings(w http.ResponseWriter, r *http.Request) {
	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}
	var payload earningsPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.core.UpdateEarnings(r.Context(), id, payload.toRequest())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "earnings record not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *handler) deleteEarnings(w http.ResponseWriter, r *http.Request) {
	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}
	deleted, err := h.core.DeleteEarnings(r.Context(), id)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "earnings record not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Derivatives

func (h *handler) getDerivatives(w http.ResponseWriter, r *http.Request) {
	records, err := h.core.GetDerivatives(r.Context(), recordFilterFromQuery(r))
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if records == nil {
		records = []carteira.DerivativeRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handler) addDerivative(w http.ResponseWriter, r *http.Request) {
	var payload derivativePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.core.AddDerivative(r.Context(), payload.toRequest())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *handler) updateDerivative(w http.ResponseWriter, r *http.Request) {
	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}
	var payload derivativePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.core.UpdateDerivative(r.Context(), id, payload.toRequest())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "derivative not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *handler) deleteDerivative(w http.ResponseWriter, r *http.Request) {
	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}
	deleted, err := h.core.DeleteDerivative(r.Context(), id)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "derivative not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Reference prices

func (h *handler) getReferencePrices(w http.ResponseWriter, r *http.Request) {
	records, err := h.core.GetReferencePrices(r.Context(), recordFilterFromQuery(r))
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if records == nil {
		records = []carteira.ReferencePrice{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handler) setReferencePrice(w http.ResponseWriter, r *http.Request) {
	var payload referencePricePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.core.SetReferencePrice(r.Context(), carteira.ReferencePriceRequest{
		AssetClass: payload.AssetClass,
		Ticker:     payload.Ticker,
		Date:       payload.Date,
		Price:      payload.Price,
	})
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (h *handler) deleteReferencePrice(w http.ResponseWriter, r *http.Request) {
	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}
	deleted, err := h.core.DeleteReferencePrice(r.Context(), id)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "reference price not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Derived views

func (h *handler) getPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.core.GetAssetPositions(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if positions == nil {
		positions = []carteira.AssetPosition{}
	}
	writeJSON(w, http.StatusOK, positions)
}

func (h *handler) getClosedPositions(w http.ResponseWriter, r *http.Request) {
	closed, err := h.core.GetClosedPositions(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if closed == nil {
		closed = []carteira.ClosedPosition{}
	}
	writeJSON(w, http.StatusOK, closed)
}

func (h *handler) getSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.core.GetPortfolioSummary(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *handler) getAllocation(w http.ResponseWriter, r *http.Request) {
	by := r.URL.Query().Get("by")
	if by == "" {
		by = "ticker"
	}
	slices, err := h.core.GetAllocation(r.Context(), by)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if slices == nil {
		slices = []carteira.AllocationSlice{}
	}
	writeJSON(w, http.StatusOK, slices)
}

// Portfolio insight

func (h *handler) getAISettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.core.GetAISettings(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *handler) setAISettings(w http.ResponseWriter, r *http.Request) {
	var payload aiSettingsPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	settings, err := h.core.SetAISettings(r.Context(), carteira.AISettings{
		Model:       payload.Model,
		RiskProfile: payload.RiskProfile,
		Language:    payload.Language,
	})
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *handler) generateInsight(w http.ResponseWriter, r *http.Request) {
	insight, err := h.core.GeneratePortfolioInsight(r.Context(), h.geminiAPIKey)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insight)
}

// Helpers

func recordIDParam(w http.ResponseWriter, r *http.Request) (carteira.RecordID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return carteira.RecordID(id), true
}

func decodeJSON(r *http.Request, target any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body required")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func parseIntDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
