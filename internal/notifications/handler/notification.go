package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"labbook/internal/notifications/service"
	apperrors "labbook/pkg/errors"
	"labbook/pkg/httputil"
	"labbook/pkg/logger"
	"labbook/pkg/middleware"
	"labbook/pkg/model"
)

type NotificationHandler struct {
	service service.NotificationService
	log     *logger.Logger
}

func NewNotificationHandler(service service.NotificationService, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log,
	}
}

type subscribeRequest struct {
	Endpoint  string `json:"endpoint"`
	P256DH    string `json:"p256dh"`
	Auth      string `json:"auth"`
	UserAgent string `json:"user_agent,omitempty"`
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "List")
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err, "List")
		return
	}

	notifications, err := h.service.List(r.Context(), actor.ID, limit, int(offset))
	if err != nil {
		h.writeError(w, err, "List")
		return
	}

	if err := httputil.WriteSuccess(w, notifications); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "UnreadCount")
		return
	}

	count, err := h.service.UnreadCount(r.Context(), actor.ID)
	if err != nil {
		h.writeError(w, err, "UnreadCount")
		return
	}

	if err := httputil.WriteSuccess(w, map[string]int64{"unread": count}); err != nil {
		h.log.Error("failed to write success response", "handler", "UnreadCount", "error", err)
	}
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "MarkRead")
		return
	}

	if err := h.service.MarkRead(r.Context(), ps.ByName("id"), actor.ID); err != nil {
		h.writeError(w, err, "MarkRead")
		return
	}

	if err := httputil.WriteMessage(w, "Notification marked as read"); err != nil {
		h.log.Error("failed to write success response", "handler", "MarkRead", "error", err)
	}
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "MarkAllRead")
		return
	}

	modified, err := h.service.MarkAllRead(r.Context(), actor.ID)
	if err != nil {
		h.writeError(w, err, "MarkAllRead")
		return
	}

	if err := httputil.WriteSuccess(w, map[string]int64{"modified": modified}); err != nil {
		h.log.Error("failed to write success response", "handler", "MarkAllRead", "error", err)
	}
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "Delete")
		return
	}

	if err := h.service.Delete(r.Context(), ps.ByName("id"), actor.ID); err != nil {
		h.writeError(w, err, "Delete")
		return
	}

	if err := httputil.WriteMessage(w, "Notification deleted"); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "error", err)
	}
}

func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "Subscribe")
		return
	}

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "Subscribe")
		return
	}

	sub := &model.PushSubscription{
		UserID:    actor.ID,
		Endpoint:  req.Endpoint,
		P256DH:    req.P256DH,
		Auth:      req.Auth,
		UserAgent: req.UserAgent,
	}

	if err := h.service.Subscribe(r.Context(), sub); err != nil {
		h.writeError(w, err, "Subscribe")
		return
	}

	if err := httputil.WriteMessage(w, "Subscription registered"); err != nil {
		h.log.Error("failed to write success response", "handler", "Subscribe", "error", err)
	}
}

func (h *NotificationHandler) Unsubscribe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "Unsubscribe")
		return
	}

	var req unsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "Unsubscribe")
		return
	}

	if err := h.service.Unsubscribe(r.Context(), actor.ID, req.Endpoint); err != nil {
		h.writeError(w, err, "Unsubscribe")
		return
	}

	if err := httputil.WriteMessage(w, "Subscription removed"); err != nil {
		h.log.Error("failed to write success response", "handler", "Unsubscribe", "error", err)
	}
}

func (h *NotificationHandler) writeError(w http.ResponseWriter, err error, op string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/notifications", h.List)
	router.GET("/api/v1/notifications/unread-count", h.UnreadCount)
	router.POST("/api/v1/notifications/id/:id/read", h.MarkRead)
	router.POST("/api/v1/notifications/read-all", h.MarkAllRead)
	router.DELETE("/api/v1/notifications/id/:id", h.Delete)
	router.POST("/api/v1/notifications/subscriptions", h.Subscribe)
	router.DELETE("/api/v1/notifications/subscriptions", h.Unsubscribe)
}
