package handler

import "github.com/julienschmidt/httprouter"

// IdentityHandler mounts the auth and user route groups on one router.
type IdentityHandler struct {
	auth  *AuthHandler
	users *UserHandler
}

func NewIdentityHandler(auth *AuthHandler, users *UserHandler) *IdentityHandler {
	return &IdentityHandler{
		auth:  auth,
		users: users,
	}
}

func (h *IdentityHandler) RegisterRoutes(router *httprouter.Router) {
	h.auth.RegisterRoutes(router)
	h.users.RegisterRoutes(router)
}
