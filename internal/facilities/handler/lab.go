package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"labbook/internal/facilities/service"
	apperrors "labbook/pkg/errors"
	"labbook/pkg/httputil"
	"labbook/pkg/logger"
	"labbook/pkg/middleware"
	"labbook/pkg/model"
)

type LabHandler struct {
	service service.LabService
	log     *logger.Logger
}

func NewLabHandler(service service.LabService, log *logger.Logger) *LabHandler {
	return &LabHandler{
		service: service,
		log:     log,
	}
}

func (h *LabHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "Create")
		return
	}

	var lab model.Lab
	if err := json.NewDecoder(r.Body).Decode(&lab); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "Create")
		return
	}

	if err := h.service.Create(r.Context(), &lab, actor); err != nil {
		h.writeError(w, err, "Create")
		return
	}

	if err := httputil.WriteCreated(w, lab); err != nil {
		h.log.Error("failed to write success response", "handler", "Create", "error", err)
	}
}

func (h *LabHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	lab, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err, "GetByID")
		return
	}

	if err := httputil.WriteSuccess(w, lab); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *LabHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	activeOnly := r.URL.Query().Get("active") == "true"

	labs, err := h.service.List(r.Context(), activeOnly)
	if err != nil {
		h.writeError(w, err, "List")
		return
	}

	if err := httputil.WriteSuccess(w, labs); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *LabHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "Update")
		return
	}

	var update model.LabUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "Update")
		return
	}

	if err := h.service.Update(r.Context(), ps.ByName("id"), &update, actor); err != nil {
		h.writeError(w, err, "Update")
		return
	}

	if err := httputil.WriteMessage(w, "Lab updated successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *LabHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "Delete")
		return
	}

	if err := h.service.Delete(r.Context(), ps.ByName("id"), actor); err != nil {
		h.writeError(w, err, "Delete")
		return
	}

	if err := httputil.WriteMessage(w, "Lab deleted successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "error", err)
	}
}

func (h *LabHandler) writeError(w http.ResponseWriter, err error, op string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}

func (h *LabHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/labs", h.Create)
	router.GET("/api/v1/labs", h.List)
	router.GET("/api/v1/labs/id/:id", h.GetByID)
	router.PATCH("/api/v1/labs/id/:id", h.Update)
	router.DELETE("/api/v1/labs/id/:id", h.Delete)
}
