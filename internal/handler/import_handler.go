package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tmtperez/track-my-bids/internal/service"
)

type ImportHandler struct {
	svc      *service.ImportService
	followUp *service.FollowUpService
}

func NewImportHandler(svc *service.ImportService, followUp *service.FollowUpService) *ImportHandler {
	return &ImportHandler{svc: svc, followUp: followUp}
}

// ImportBids ingests a CSV upload of bids with their scope lines.
func (h *ImportHandler) ImportBids(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "No file uploaded")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		InternalError(c, "Failed to read upload")
		return
	}
	defer file.Close()

	result, err := h.svc.Import(c.Request.Context(), GetCaller(c), file)
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, result)
}

// RunFollowUps triggers the daily follow-up pass immediately.
func (h *ImportHandler) RunFollowUps(c *gin.Context) {
	result, err := h.followUp.Run(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, result)
}
