package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tmtperez/track-my-bids/internal/service"
)

type ScopeCatalogHandler struct {
	svc *service.ScopeCatalogService
}

func NewScopeCatalogHandler(svc *service.ScopeCatalogService) *ScopeCatalogHandler {
	return &ScopeCatalogHandler{svc: svc}
}

type catalogRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *ScopeCatalogHandler) List(c *gin.Context) {
	entries, err := h.svc.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, entries)
}

func (h *ScopeCatalogHandler) Create(c *gin.Context) {
	var req catalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Name is required")
		return
	}

	entry, err := h.svc.Create(c.Request.Context(), req.Name)
	if err != nil {
		HandleError(c, err)
		return
	}

	Created(c, entry)
}

func (h *ScopeCatalogHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req catalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Name is required")
		return
	}

	entry, err := h.svc.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, entry)
}

func (h *ScopeCatalogHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	NoContent(c)
}
