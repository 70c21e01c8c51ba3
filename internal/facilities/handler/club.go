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

type ClubHandler struct {
	service service.ClubService
	log     *logger.Logger
}

func NewClubHandler(service service.ClubService, log *logger.Logger) *ClubHandler {
	return &ClubHandler{
		service: service,
		log:     log,
	}
}

type memberRequest struct {
	UserID string `json:"user_id"`
}

func (h *ClubHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "Create")
		return
	}

	var club model.Club
	if err := json.NewDecoder(r.Body).Decode(&club); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "Create")
		return
	}

	if err := h.service.Create(r.Context(), &club, actor); err != nil {
		h.writeError(w, err, "Create")
		return
	}

	if err := httputil.WriteCreated(w, club); err != nil {
		h.log.Error("failed to write success response", "handler", "Create", "error", err)
	}
}

func (h *ClubHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	club, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err, "GetByID")
		return
	}

	if err := httputil.WriteSuccess(w, club); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *ClubHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	clubs, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, err, "List")
		return
	}

	if err := httputil.WriteSuccess(w, clubs); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *ClubHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "Update")
		return
	}

	var update model.ClubUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "Update")
		return
	}

	if err := h.service.Update(r.Context(), ps.ByName("id"), &update, actor); err != nil {
		h.writeError(w, err, "Update")
		return
	}

	if err := httputil.WriteMessage(w, "Club updated successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *ClubHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "Delete")
		return
	}

	if err := h.service.Delete(r.Context(), ps.ByName("id"), actor); err != nil {
		h.writeError(w, err, "Delete")
		return
	}

	if err := httputil.WriteMessage(w, "Club deleted successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "error", err)
	}
}

func (h *ClubHandler) AddMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "AddMember")
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "AddMember")
		return
	}

	if err := h.service.AddMember(r.Context(), ps.ByName("id"), req.UserID, actor); err != nil {
		h.writeError(w, err, "AddMember")
		return
	}

	if err := httputil.WriteMessage(w, "Member added"); err != nil {
		h.log.Error("failed to write success response", "handler", "AddMember", "error", err)
	}
}

func (h *ClubHandler) RemoveMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "RemoveMember")
		return
	}

	if err := h.service.RemoveMember(r.Context(), ps.ByName("id"), ps.ByName("userId"), actor); err != nil {
		h.writeError(w, err, "RemoveMember")
		return
	}

	if err := httputil.WriteMessage(w, "Member removed"); err != nil {
		h.log.Error("failed to write success response", "handler", "RemoveMember", "error", err)
	}
}

func (h *ClubHandler) writeError(w http.ResponseWriter, err error, op string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}

func (h *ClubHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/clubs", h.Create)
	router.GET("/api/v1/clubs", h.List)
	router.GET("/api/v1/clubs/id/:id", h.GetByID)
	router.PATCH("/api/v1/clubs/id/:id", h.Update)
	router.DELETE("/api/v1/clubs/id/:id", h.Delete)
	router.POST("/api/v1/clubs/id/:id/members", h.AddMember)
	router.DELETE("/api/v1/clubs/id/:id/members/:userId", h.RemoveMember)
}
