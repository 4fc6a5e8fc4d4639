package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tmtperez/track-my-bids/internal/service"
)

type CompanyHandler struct {
	svc *service.CompanyService
}

func NewCompanyHandler(svc *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

// List returns all companies with their won/lost rollups.
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.svc.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, companies)
}

func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	company, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, company)
}

func (h *CompanyHandler) Create(c *gin.Context) {
	var req service.CompanyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Name is required")
		return
	}

	company, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	Created(c, company)
}

func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.CompanyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	company, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, company)
}

func (h *CompanyHandler) Delete(c *gin.Context) {
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

func (h *CompanyHandler) ListActivity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	entries, err := h.svc.ListActivity(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, entries)
}

func (h *CompanyHandler) AddActivity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.ActivityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Kind is required")
		return
	}

	entry, err := h.svc.AddActivity(c.Request.Context(), GetCaller(c), id, &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	Created(c, entry)
}
