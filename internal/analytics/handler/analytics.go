package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"labbook/internal/analytics/service"
	apperrors "labbook/pkg/errors"
	"labbook/pkg/httputil"
	"labbook/pkg/logger"
	"labbook/pkg/middleware"
	"labbook/pkg/model"
)

type AnalyticsHandler struct {
	service service.AnalyticsService
	log     *logger.Logger
}

func NewAnalyticsHandler(service service.AnalyticsService, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		log:     log,
	}
}

// requireStaff gates the reporting endpoints to admins and faculty.
func (h *AnalyticsHandler) requireStaff(w http.ResponseWriter, r *http.Request, op string) bool {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), op)
		return false
	}
	if actor.Role != model.RoleAdmin && actor.Role != model.RoleFaculty {
		h.writeError(w, apperrors.Forbidden("Analytics are restricted to staff"), op)
		return false
	}
	return true
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !h.requireStaff(w, r, "Summary") {
		return
	}

	query := r.URL.Query()
	summary, err := h.service.Summary(r.Context(), query.Get("from"), query.Get("to"))
	if err != nil {
		h.writeError(w, err, "Summary")
		return
	}

	if err := httputil.WriteSuccess(w, summary); err != nil {
		h.log.Error("failed to write success response", "handler", "Summary", "error", err)
	}
}

func (h *AnalyticsHandler) Trend(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !h.requireStaff(w, r, "Trend") {
		return
	}

	query := r.URL.Query()
	trend, err := h.service.Trend(r.Context(), query.Get("from"), query.Get("to"))
	if err != nil {
		h.writeError(w, err, "Trend")
		return
	}

	if err := httputil.WriteSuccess(w, trend); err != nil {
		h.log.Error("failed to write success response", "handler", "Trend", "error", err)
	}
}

func (h *AnalyticsHandler) LabUtilization(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !h.requireStaff(w, r, "LabUtilization") {
		return
	}

	query := r.URL.Query()
	usage, err := h.service.LabUtilization(r.Context(), query.Get("from"), query.Get("to"))
	if err != nil {
		h.writeError(w, err, "LabUtilization")
		return
	}

	if err := httputil.WriteSuccess(w, usage); err != nil {
		h.log.Error("failed to write success response", "handler", "LabUtilization", "error", err)
	}
}

func (h *AnalyticsHandler) ClubActivity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !h.requireStaff(w, r, "ClubActivity") {
		return
	}

	query := r.URL.Query()
	activity, err := h.service.ClubActivity(r.Context(), query.Get("from"), query.Get("to"))
	if err != nil {
		h.writeError(w, err, "ClubActivity")
		return
	}

	if err := httputil.WriteSuccess(w, activity); err != nil {
		h.log.Error("failed to write success response", "handler", "ClubActivity", "error", err)
	}
}

func (h *AnalyticsHandler) writeError(w http.ResponseWriter, err error, op string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}

func (h *AnalyticsHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/analytics/summary", h.Summary)
	router.GET("/api/v1/analytics/trend", h.Trend)
	router.GET("/api/v1/analytics/labs", h.LabUtilization)
	router.GET("/api/v1/analytics/clubs", h.ClubActivity)
}
