package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tmtperez/track-my-bids/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for a signed token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Email and password are required")
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, result)
}

// Me returns the authenticated caller's account.
func (h *AuthHandler) Me(c *gin.Context) {
	caller := GetCaller(c)
	user, err := h.svc.Me(c.Request.Context(), caller.ID)
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, user)
}
