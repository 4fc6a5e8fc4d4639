package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tmtperez/track-my-bids/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context(), GetCaller(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, users)
}

// Estimators returns the users assignable as a bid's estimator.
func (h *UserHandler) Estimators(c *gin.Context) {
	refs, err := h.svc.Estimators(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, refs)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req service.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.Create(c.Request.Context(), GetCaller(c), &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	Created(c, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.Update(c.Request.Context(), GetCaller(c), id, &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, user)
}

type passwordRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Password is required")
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), GetCaller(c), id, req.Password); err != nil {
		HandleError(c, err)
		return
	}

	Success(c, gin.H{"updated": id})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), GetCaller(c), id); err != nil {
		HandleError(c, err)
		return
	}

	NoContent(c)
}
