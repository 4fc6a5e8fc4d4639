package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tmtperez/track-my-bids/internal/config"
	"github.com/tmtperez/track-my-bids/internal/mailer"
	"github.com/tmtperez/track-my-bids/internal/policy"
	"github.com/tmtperez/track-my-bids/internal/repository"
)

// Services is the business layer aggregate handed to the handlers.
type Services struct {
	Auth         *AuthService
	User         *UserService
	Bid          *BidService
	Company      *CompanyService
	Contact      *ContactService
	ScopeCatalog *ScopeCatalogService
	Attachment   *AttachmentService
	Dashboard    *DashboardService
	Import       *ImportService
	FollowUp     *FollowUpService
	Policy       *policy.Policy
}

func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	gate := policy.Default()
	if cfg.Policy.Scheme == "legacy" {
		gate = policy.Legacy()
	}
	gate.AllowUnowned = cfg.Policy.AllowUnowned

	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("minio unavailable, attachments disabled", zap.Error(err))
			minioClient = nil
		}
	}

	mail := mailer.New(cfg.Mail.APIKey, cfg.Mail.FromEmail, cfg.Mail.FromName, cfg.Mail.BaseURL)
	if mail == nil {
		logger.Warn("mailer not configured, follow-up emails disabled")
	}

	dashboard := NewDashboardService(repos.Bid, rdb, logger)

	return &Services{
		Auth:         NewAuthService(repos.User, cfg),
		User:         NewUserService(repos.User),
		Bid:          NewBidService(repos.Bid, repos.Company, repos.Contact, repos.User, gate, dashboard),
		Company:      NewCompanyService(repos.Company, repos.Bid),
		Contact:      NewContactService(repos.Contact, repos.Company),
		ScopeCatalog: NewScopeCatalogService(repos.ScopeCatalog),
		Attachment:   NewAttachmentService(repos.Attachment, repos.Bid, minioClient, cfg.MinIO.Bucket, gate),
		Dashboard:    dashboard,
		Import:       NewImportService(repos.Bid, repos.Company, repos.Contact, repos.User, gate, dashboard, logger),
		FollowUp:     NewFollowUpService(repos.Bid, mail, logger),
		Policy:       gate,
	}
}
