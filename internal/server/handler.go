// Package server exposes the bill-split wizard over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/waritt/billsplit/internal/middleware"
	"github.com/waritt/billsplit/internal/models"
	"github.com/waritt/billsplit/internal/service"
	"github.com/waritt/billsplit/internal/storage"
	"github.com/waritt/billsplit/internal/wizard"
	"github.com/waritt/billsplit/pkg/response"
)

// Handler handles HTTP requests for wizard sessions and persisted bills.
type Handler struct {
	svc *service.BillService
}

// NewHandler creates a new Handler backed by svc.
func NewHandler(svc *service.BillService) *Handler {
	return &Handler{svc: svc}
}

// Router builds the full route tree including middleware, health, and
// metrics endpoints.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", h.StartSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.EndSession)
			r.Post("/next", h.Next)
			r.Post("/prev", h.Prev)
			r.Post("/goto", h.GoTo)
			r.Post("/reset", h.Reset)
			r.Put("/bill", h.UpdateBill)
			r.Post("/participants", h.AddParticipant)
			r.Put("/participants/{participantID}", h.UpdateParticipant)
			r.Delete("/participants/{participantID}", h.RemoveParticipant)
			r.Post("/items", h.AddLineItem)
			r.Put("/items/{itemID}", h.UpdateLineItem)
			r.Post("/items/{itemID}/assignees", h.AssignLineItem)
			r.Delete("/items/{itemID}", h.RemoveLineItem)
			r.Get("/results", h.Results)
			r.Post("/finalize", h.Finalize)
		})

		r.Get("/bills", h.ListBills)
		r.Get("/bills/{billID}", h.GetBill)
		r.Post("/bills/{billID}/pay", h.MarkBillPaid)
		r.Delete("/bills/{billID}", h.DeleteBill)
		r.Post("/bills/{billID}/share", h.Share)
	})

	return r
}

// session resolves the session from the URL, writing a 404 on failure.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*wizard.Controller, bool) {
	id := chi.URLParam(r, "sessionID")
	controller, err := h.svc.Session(id)
	if err != nil {
		response.NotFound(w, "session not found")
		return nil, false
	}
	return controller, true
}

// StartSession handles POST /sessions
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	id := h.svc.StartSession(r.Context())
	response.JSON(w, http.StatusCreated, map[string]string{"sessionId": id})
}

// GetSession handles GET /sessions/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	controller, ok := h.session(w, r)
	if !ok {
		return
	}
	response.JSON(w, http.StatusOK, toSessionStateDTO(controller))
}

// EndSession handles DELETE /sessions/{sessionID}
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	h.svc.EndSession(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

// Next handles POST /sessions/{sessionID}/next. A blocked gate is not
// an HTTP error: the response carries the unchanged step and the toast
// message explaining what is missing.
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	controller, ok := h.session(w, r)
	if !ok {
		return
	}
	controller.Next()
	response.JSON(w, http.StatusOK, toSessionStateDTO(controller))
}

// Prev handles POST /sessions/{sessionID}/prev
func (h *Handler) Prev(w http.ResponseWriter, r *http.Request) {
	controller, ok := h.session(w, r)
	if !ok {
		return
	}
	controller.Prev()
	response.JSON(w, http.StatusOK, toSessionStateDTO(controller))
}

// GoTo handles POST /sessions/{sessionID}/goto
func (h *Handler) GoTo(w http.ResponseWriter, r *http.Request) {
	controller, ok := h.session(w, r)
	if !ok {
		return
	}
	var req gotoStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	step := wizard.Step(req.Step)
	if !step.IsValid() {
		response.BadRequest(w, "unknown step")
		return
	}
	controller.GoTo(step)
	response.JSON(w, http.StatusOK, toSessionStateDTO(controller))
}

// Reset handles POST /sessions/{sessionID}/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	controller, ok := h.session(w, r)
	if !ok {
		return
	}
	controller.Reset()
	response.JSON(w, http.StatusOK, toSessionStateDTO(controller))
}

// UpdateBill handles PUT /sessions/{sessionID}/bill. Absent fields are
// left unchanged.
func (h *Handler) UpdateBill(w http.ResponseWriter, r *http.Request) {
	controller, ok := h.session(w, r)
	if !ok {
		return
	}
	var req updateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if req.Name != nil {
		controller.SetBillName(*req.Name)
	}
	if req.CategoryID != nil {
		controller.SetCategory(*req.CategoryID)
	}
	if req.VATPercent != nil {
		if err := controller.SetVATPercent(*req.VATPercent); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
	}
	if req.ServiceChargePercent != nil {
		if err := controller.SetServiceChargePercent(*req.ServiceChargePercent); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
	}
	if req.DiscountAmount != nil {
		if err := controller.SetDiscountAmount(*req.DiscountAmount); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
	}
	if req.SplitMethod != nil {
		if err := controller.SetSplitMethod(models.SplitMethod(*req.SplitMethod)); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
	}

	response.JSON(w, http.StatusOK, toSessionStateDTO(controller))
}

// AddParticipant handles POST /sessions/{sessionID}/participants
func (h *Handler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	controller, ok := h.session(w, r)
	if !ok {
		return
	}
	p := controller.AddParticipant()
	response.JSON(w, http.StatusCreated, participantDTO{
		ID:     p.ID,
		Name:   p.Name,
		Status: string(p.Status),
	})
}

// UpdateParticipant handles PUT /sessions/{sessionID}/participants/{participantID}
func (h *Handler) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	controller, ok := h.session(w, r)
	if !ok {
		return
	}
	var req updateParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	id := chi.URLParam(r, "participantID")

	if req.Name != nil {
		if err := controller.RenameParticipant(id, *req.Name); err != nil {
			h.wizardError(w, err)
			return
		}
	}
	if req.Status != nil {
		if err := controller.SetParticipantStatus(id, models.PaymentStatus(*req.Status)); err != nil {
			h.wizardError(w, err)
			return
		}
	}
	response.JSON(w, http.StatusOK, toSessionStateDTO(controller))
}

// RemoveParticipant handles DELETE /sessions/{sessionID}/participants/{participantID}
func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	controller, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := controller.RemoveParticipant(chi.URLParam(r, "participantID")); err != nil {
		h.wizardError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, toSessionStateDTO(controller))
}

// AddLineItem handles POST /sessions/{sessionID}/items
func (h *Handler) AddLineItem(w http.ResponseWriter, r *http.Request) {
	controller, ok := h.session(w, r)
	if !ok {
		return
	}
	item := controller.AddLineItem()
	response.JSON(w, http.StatusCreated, lineItemDTO{
		ID:         item.ID,
		Name:       item.Name,
		Price:      item.Price,
		AssignedTo: []string{},
	})
}

// UpdateLineItem handles PUT /sessions/{sessionID}/items/{itemID}
func (h *Handler) UpdateLineItem(w http.ResponseWriter, r *http.Request) {
	controller, ok := h.session(w, r)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := controller.UpdateLineItem(chi.URLParam(r, "itemID"), req.Name, req.Price); err != nil {
		h.wizardError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, toSessionStateDTO(controller))
}

// AssignLineItem handles POST /sessions/{sessionID}/items/{itemID}/assignees
func (h *Handler) AssignLineItem(w http.ResponseWriter, r *http.Request) {
	controller, ok := h.session(w, r)
	if !ok {
		return
	}
	var req assignItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := controller.AssignLineItem(chi.URLParam(r, "itemID"), req.ParticipantIDs); err != nil {
		h.wizardError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, toSessionStateDTO(controller))
}

// RemoveLineItem handles DELETE /sessions/{sessionID}/items/{itemID}
func (h *Handler) RemoveLineItem(w http.ResponseWriter, r *http.Request) {
	controller, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := controller.RemoveLineItem(chi.URLParam(r, "itemID")); err != nil {
		h.wizardError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, toSessionStateDTO(controller))
}

// Results handles GET /sessions/{sessionID}/results
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	controller, ok := h.session(w, r)
	if !ok {
		return
	}
	state := controller.State()
	response.JSON(w, http.StatusOK, toSplitResultDTOs(state.Results))
}

// Finalize handles POST /sessions/{sessionID}/finalize
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	bill, results, err := h.svc.Finalize(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(w, "session not found")
		case errors.Is(err, service.ErrWizardIncomplete):
			response.Conflict(w, "wizard has not reached the results step")
		default:
			response.InternalError(w, "failed to save bill")
		}
		return
	}
	response.JSON(w, http.StatusCreated, map[string]interface{}{
		"bill":    toBillDTO(*bill),
		"results": toSplitResultDTOs(results),
	})
}

// ListBills handles GET /bills
func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.svc.ListBills(r.Context())
	if err != nil {
		response.InternalError(w, "failed to list bills")
		return
	}
	dtos := make([]billDTO, len(bills))
	for i, b := range bills {
		dtos[i] = toBillDTO(b)
	}
	response.JSON(w, http.StatusOK, dtos)
}

// GetBill handles GET /bills/{billID}
func (h *Handler) GetBill(w http.ResponseWriter, r *http.Request) {
	bill, results, err := h.svc.GetBill(r.Context(), chi.URLParam(r, "billID"))
	if err != nil {
		h.billError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"bill":    toBillDTO(*bill),
		"results": toSplitResultDTOs(results),
	})
}

// MarkBillPaid handles POST /bills/{billID}/pay
func (h *Handler) MarkBillPaid(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MarkBillPaid(r.Context(), chi.URLParam(r, "billID")); err != nil {
		h.billError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": string(models.PaymentPaid)})
}

// DeleteBill handles DELETE /bills/{billID}
func (h *Handler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteBill(r.Context(), chi.URLParam(r, "billID")); err != nil {
		h.billError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Share handles POST /bills/{billID}/share
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	projection, err := h.svc.Share(r.Context(), chi.URLParam(r, "billID"),
		req.PromptPayID, req.QRPayload, req.Notes)
	if err != nil {
		h.billError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, toShareDTO(projection))
}

// billError distinguishes a missing bill from a storage failure.
func (h *Handler) billError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrBillNotFound) {
		response.NotFound(w, "bill not found")
		return
	}
	response.InternalError(w, "storage failure")
}

// wizardError maps registry validation errors to HTTP responses.
func (h *Handler) wizardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wizard.ErrParticipantNotFound),
		errors.Is(err, wizard.ErrLineItemNotFound):
		response.NotFound(w, err.Error())
	default:
		response.BadRequest(w, err.Error())
	}
}
