package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmtperez/track-my-bids/internal/service"
)

type BidHandler struct {
	svc       *service.BidService
	attachSvc *service.AttachmentService
}

func NewBidHandler(svc *service.BidService, attachSvc *service.AttachmentService) *BidHandler {
	return &BidHandler{svc: svc, attachSvc: attachSvc}
}

// queryAlias returns the first non-empty value among the given query
// parameter names.
func queryAlias(c *gin.Context, names ...string) string {
	for _, name := range names {
		if v := c.Query(name); v != "" {
			return v
		}
	}
	return ""
}

// listQuery reads the bid list filters. The date bounds are documented as
// createdFrom/createdTo; the snake_case spellings are kept as aliases.
func listQuery(c *gin.Context) service.ListBidsQuery {
	return service.ListBidsQuery{
		Status:      c.Query("status"),
		Search:      c.Query("search"),
		CreatedFrom: queryAlias(c, "createdFrom", "created_from"),
		CreatedTo:   queryAlias(c, "createdTo", "created_to"),
	}
}

// List returns bid summaries filtered by the query string.
func (h *BidHandler) List(c *gin.Context) {
	q := listQuery(c)

	summaries, err := h.svc.List(c.Request.Context(), GetCaller(c), q)
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, summaries)
}

func (h *BidHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	bid, err := h.svc.Get(c.Request.Context(), GetCaller(c), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, bid)
}

func (h *BidHandler) Create(c *gin.Context) {
	var req service.BidInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	bid, err := h.svc.Create(c.Request.Context(), GetCaller(c), &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	Created(c, bid)
}

func (h *BidHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.BidInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	bid, err := h.svc.Update(c.Request.Context(), GetCaller(c), id, &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, bid)
}

func (h *BidHandler) Delete(c *gin.Context) {
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

type noteRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *BidHandler) AddNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Note body is required")
		return
	}

	note, err := h.svc.AddNote(c.Request.Context(), GetCaller(c), id, req.Body)
	if err != nil {
		HandleError(c, err)
		return
	}

	Created(c, note)
}

// Export streams the caller-visible bids as an xlsx workbook.
func (h *BidHandler) Export(c *gin.Context) {
	q := listQuery(c)

	file, err := h.svc.Export(c.Request.Context(), GetCaller(c), q)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="bids.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

func (h *BidHandler) ListAttachments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	attachments, err := h.attachSvc.ListByBid(c.Request.Context(), GetCaller(c), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, attachments)
}

func (h *BidHandler) UploadAttachment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

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

	att, err := h.attachSvc.Upload(c.Request.Context(), GetCaller(c), id,
		file, fileHeader.Filename, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		HandleError(c, err)
		return
	}

	Created(c, att)
}

func (h *BidHandler) DownloadAttachment(c *gin.Context) {
	id, ok := parseID(c, "attachmentId")
	if !ok {
		return
	}

	object, att, err := h.attachSvc.Download(c.Request.Context(), GetCaller(c), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer object.Close()

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, att.OriginalName))
	contentType := att.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, object); err != nil {
		_ = c.Error(err)
	}
}
