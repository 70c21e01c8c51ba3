package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"labbook/internal/identity/service"
	apperrors "labbook/pkg/errors"
	"labbook/pkg/httputil"
	"labbook/pkg/logger"
	"labbook/pkg/model"
)

type AuthHandler struct {
	auth  service.AuthService
	users service.UserService
	log   *logger.Logger
}

func NewAuthHandler(auth service.AuthService, users service.UserService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:  auth,
		users: users,
		log:   log,
	}
}

type registerRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Name     string     `json:"name"`
	Role     model.Role `json:"role"`
	LabID    string     `json:"lab_id,omitempty"`
	ClubID   string     `json:"club_id,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type resetConfirmRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "Register")
		return
	}

	user := &model.User{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
		LabID:    req.LabID,
		ClubID:   req.ClubID,
	}

	if err := h.users.Register(r.Context(), user); err != nil {
		h.writeError(w, err, "Register")
		return
	}

	if err := httputil.WriteCreated(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Register", "error", err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "Login")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err, "Login")
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "error", err)
	}
}

func (h *AuthHandler) RequestReset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "RequestReset")
		return
	}

	if err := h.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.writeError(w, err, "RequestReset")
		return
	}

	if err := httputil.WriteMessage(w, "If the email is registered, a verification code has been sent"); err != nil {
		h.log.Error("failed to write success response", "handler", "RequestReset", "error", err)
	}
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "VerifyOTP")
		return
	}

	if err := h.auth.VerifyOTP(r.Context(), req.Email, req.Code); err != nil {
		h.writeError(w, err, "VerifyOTP")
		return
	}

	if err := httputil.WriteMessage(w, "Verification code accepted"); err != nil {
		h.log.Error("failed to write success response", "handler", "VerifyOTP", "error", err)
	}
}

func (h *AuthHandler) ConfirmReset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req resetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "ConfirmReset")
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		h.writeError(w, err, "ConfirmReset")
		return
	}

	if err := httputil.WriteMessage(w, "Password has been reset"); err != nil {
		h.log.Error("failed to write success response", "handler", "ConfirmReset", "error", err)
	}
}

func (h *AuthHandler) writeError(w http.ResponseWriter, err error, op string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/register", h.Register)
	router.POST("/api/v1/auth/login", h.Login)
	router.POST("/api/v1/auth/password-reset/request", h.RequestReset)
	router.POST("/api/v1/auth/password-reset/verify", h.VerifyOTP)
	router.POST("/api/v1/auth/password-reset/confirm", h.ConfirmReset)
}
