package handler

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tmtperez/track-my-bids/internal/middleware"
	"github.com/tmtperez/track-my-bids/internal/model/entity"
)

// VersionInfo is reported by GET /version.
type VersionInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
}

// RegisterRoutes wires the full HTTP surface onto the router.
func RegisterRoutes(r *gin.Engine, h *Handlers, jwtSecret string, version VersionInfo) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, version)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(gzip.Gzip(gzip.DefaultCompression))
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtSecret))
		{
			authorized.GET("/auth/me", h.Auth.Me)

			bids := authorized.Group("/bids")
			{
				bids.GET("", h.Bid.List)
				bids.GET("/export", h.Bid.Export)
				bids.POST("", h.Bid.Create)
				bids.GET("/:id", h.Bid.Get)
				bids.PUT("/:id", h.Bid.Update)
				bids.DELETE("/:id", h.Bid.Delete)
				bids.POST("/:id/notes", h.Bid.AddNote)
				bids.GET("/:id/attachments", h.Bid.ListAttachments)
				bids.POST("/:id/attachments", h.Bid.UploadAttachment)
				bids.GET("/:id/attachments/:attachmentId/download", h.Bid.DownloadAttachment)
			}

			companies := authorized.Group("/companies")
			{
				companies.GET("", h.Company.List)
				companies.POST("", h.Company.Create)
				companies.GET("/:id", h.Company.Get)
				companies.PUT("/:id", h.Company.Update)
				companies.DELETE("/:id", h.Company.Delete)
				companies.GET("/:id/activity", h.Company.ListActivity)
				companies.POST("/:id/activity", h.Company.AddActivity)
			}

			contacts := authorized.Group("/contacts")
			{
				contacts.GET("", h.Contact.List)
				contacts.POST("", h.Contact.Create)
				contacts.PUT("/:id", h.Contact.Update)
			}

			catalog := authorized.Group("/scope-catalog")
			{
				catalog.GET("", h.ScopeCatalog.List)
				catalog.POST("", h.ScopeCatalog.Create)
				catalog.PUT("/:id", h.ScopeCatalog.Update)
				catalog.DELETE("/:id", h.ScopeCatalog.Delete)
			}

			authorized.GET("/users/estimators", h.User.Estimators)
			users := authorized.Group("/users")
			users.Use(middleware.RequireRole(entity.RoleAdmin))
			{
				users.GET("", h.User.List)
				users.POST("", h.User.Create)
				users.PUT("/:id", h.User.Update)
				users.PATCH("/:id/password", h.User.ChangePassword)
				users.DELETE("/:id", h.User.Delete)
			}

			dashboard := authorized.Group("/dashboard")
			{
				dashboard.GET("/metrics", h.Dashboard.Metrics)
				dashboard.GET("/bids-over", h.Dashboard.BidsOver)
				dashboard.GET("/value-over", h.Dashboard.ValueOver)
				dashboard.GET("/scope-totals", h.Dashboard.ScopeTotals)
			}

			authorized.POST("/import/bids", h.Import.ImportBids)
			authorized.POST("/jobs/followups/run", middleware.RequireRole(entity.RoleManager), h.Import.RunFollowUps)
		}
	}
}
