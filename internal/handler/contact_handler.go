package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tmtperez/track-my-bids/internal/service"
)

type ContactHandler struct {
	svc *service.ContactService
}

func NewContactHandler(svc *service.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.svc.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, contacts)
}

func (h *ContactHandler) Create(c *gin.Context) {
	var req service.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	contact, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	Created(c, contact)
}

func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	contact, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, contact)
}
