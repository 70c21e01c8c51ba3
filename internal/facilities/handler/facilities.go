package handler

import "github.com/julienschmidt/httprouter"

// FacilitiesHandler mounts the lab and club route groups on one router.
type FacilitiesHandler struct {
	labs  *LabHandler
	clubs *ClubHandler
}

func NewFacilitiesHandler(labs *LabHandler, clubs *ClubHandler) *FacilitiesHandler {
	return &FacilitiesHandler{
		labs:  labs,
		clubs: clubs,
	}
}

func (h *FacilitiesHandler) RegisterRoutes(router *httprouter.Router) {
	h.labs.RegisterRoutes(router)
	h.clubs.RegisterRoutes(router)
}
