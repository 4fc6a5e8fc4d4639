package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tmtperez/track-my-bids/internal/repository"
	"github.com/tmtperez/track-my-bids/internal/service"
)

// Handlers is the HTTP layer aggregate.
type Handlers struct {
	Auth         *AuthHandler
	Bid          *BidHandler
	Company      *CompanyHandler
	Contact      *ContactHandler
	ScopeCatalog *ScopeCatalogHandler
	User         *UserHandler
	Dashboard    *DashboardHandler
	Import       *ImportHandler
}

func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(svc.Auth),
		Bid:          NewBidHandler(svc.Bid, svc.Attachment),
		Company:      NewCompanyHandler(svc.Company),
		Contact:      NewContactHandler(svc.Contact),
		ScopeCatalog: NewScopeCatalogHandler(svc.ScopeCatalog),
		User:         NewUserHandler(svc.User),
		Dashboard:    NewDashboardHandler(svc.Dashboard),
		Import:       NewImportHandler(svc.Import, svc.FollowUp),
	}
}

// Response is the uniform envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// NoContent acknowledges a successful delete with an empty body.
func NoContent(c *gin.Context) {
	c.Status(204)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// HandleError maps service errors to envelope responses. Unknown errors
// become a generic 500; detail stays in the logs.
func HandleError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var cerr *service.ConflictError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "Not found")
	case errors.Is(err, service.ErrForbidden):
		Forbidden(c, "Forbidden")
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		Error(c, 50300, err.Error())
	case errors.As(err, &verr):
		BadRequest(c, verr.Msg)
	case errors.As(err, &cerr):
		BadRequest(c, cerr.Msg)
	default:
		_ = c.Error(err)
		InternalError(c, "Internal server error")
	}
}

// GetCaller reads the authenticated identity set by the JWT middleware.
func GetCaller(c *gin.Context) service.Caller {
	var caller service.Caller
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uint); ok {
			caller.ID = id
		}
	}
	caller.Role = c.GetString("role")
	return caller
}

// parseID reads a numeric path parameter. Non-numeric ids are a 400, not
// a 404: the route matched but the id is malformed.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "Invalid id: "+raw)
		return 0, false
	}
	return uint(id), true
}
