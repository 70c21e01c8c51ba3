package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"labbook/internal/bookings/lifecycle"
	"labbook/internal/bookings/repository"
	"labbook/internal/bookings/service"
	apperrors "labbook/pkg/errors"
	"labbook/pkg/httputil"
	"labbook/pkg/logger"
	"labbook/pkg/middleware"
	"labbook/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

type submitRequest struct {
	LabID   string `json:"lab_id"`
	ClubID  string `json:"club_id,omitempty"`
	Date    string `json:"date"`
	Start   string `json:"start_time"`
	End     string `json:"end_time"`
	Purpose string `json:"purpose"`
}

type decisionRequest struct {
	Action          lifecycle.Action `json:"action"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
}

type batchDecisionRequest struct {
	BookingIDs      []string         `json:"booking_ids"`
	Action          lifecycle.Action `json:"action"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
}

func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "Submit")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "Submit")
		return
	}

	booking := &model.Booking{
		LabID:   req.LabID,
		UserID:  actor.ID,
		ClubID:  req.ClubID,
		Date:    req.Date,
		Start:   req.Start,
		End:     req.End,
		Purpose: req.Purpose,
	}

	if err := h.service.Submit(r.Context(), booking); err != nil {
		h.writeError(w, err, "Submit")
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Submit", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err, "GetByID")
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	filter := repository.Filter{
		UserID: query.Get("user_id"),
		LabID:  query.Get("lab_id"),
		ClubID: query.Get("club_id"),
		Date:   query.Get("date"),
		Status: model.BookingStatus(query.Get("status")),
	}

	// pending_for is a shorthand the approval screens use.
	switch query.Get("pending_for") {
	case "club":
		filter.Status = model.StatusPendingClubApproval
	case "lab":
		filter.Status = model.StatusPendingLabApproval
	}

	bookings, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, err, "List")
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *BookingHandler) LabSchedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookings, err := h.service.LabSchedule(r.Context(), ps.ByName("labId"), r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, err, "LabSchedule")
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "LabSchedule", "error", err)
	}
}

func (h *BookingHandler) Decide(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "Decide")
		return
	}

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "Decide")
		return
	}

	if err := h.service.Decide(r.Context(), ps.ByName("id"), actor, req.Action, req.RejectionReason); err != nil {
		h.writeError(w, err, "Decide")
		return
	}

	if err := httputil.WriteMessage(w, "Booking status updated successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "Decide", "error", err)
	}
}

func (h *BookingHandler) DecideBatch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "DecideBatch")
		return
	}

	var req batchDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "DecideBatch")
		return
	}
	if len(req.BookingIDs) == 0 {
		h.writeError(w, apperrors.InvalidInput("booking_ids cannot be empty"), "DecideBatch")
		return
	}

	result := h.service.DecideBatch(r.Context(), req.BookingIDs, actor, req.Action, req.RejectionReason)
	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "DecideBatch", "error", err)
	}
}

func (h *BookingHandler) ClubQueue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "ClubQueue")
		return
	}

	bookings, err := h.service.PendingForClubApprover(r.Context(), actor)
	if err != nil {
		h.writeError(w, err, "ClubQueue")
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ClubQueue", "error", err)
	}
}

func (h *BookingHandler) LabQueue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "LabQueue")
		return
	}

	bookings, err := h.service.PendingForLabApprover(r.Context(), actor)
	if err != nil {
		h.writeError(w, err, "LabQueue")
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "LabQueue", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "Cancel")
		return
	}

	if err := h.service.Cancel(r.Context(), ps.ByName("id"), actor); err != nil {
		h.writeError(w, err, "Cancel")
		return
	}

	if err := httputil.WriteMessage(w, "Booking cancelled successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "Delete")
		return
	}

	if err := h.service.Delete(r.Context(), ps.ByName("id"), actor); err != nil {
		h.writeError(w, err, "Delete")
		return
	}

	if err := httputil.WriteMessage(w, "Booking deleted successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, err error, op string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Submit)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.POST("/api/v1/bookings/id/:id/decision", h.Decide)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
	router.DELETE("/api/v1/bookings/id/:id", h.Delete)
	router.POST("/api/v1/bookings/decisions", h.DecideBatch)
	router.GET("/api/v1/bookings/queue/club", h.ClubQueue)
	router.GET("/api/v1/bookings/queue/lab", h.LabQueue)
	router.GET("/api/v1/bookings/lab/:labId", h.LabSchedule)
}
