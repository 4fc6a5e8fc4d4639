package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/tmtperez/track-my-bids/internal/model/entity"
	"github.com/tmtperez/track-my-bids/internal/policy"
	"github.com/tmtperez/track-my-bids/internal/repository"
)

// ErrStorageUnavailable is returned when object storage is not configured.
var ErrStorageUnavailable = errors.New("attachment storage is not configured")

// AttachmentService stores bid attachments in object storage and their
// metadata in the database.
type AttachmentService struct {
	repo        *repository.AttachmentRepository
	bidRepo     *repository.BidRepository
	minioClient *minio.Client
	bucketName  string
	gate        *policy.Policy
}

func NewAttachmentService(
	repo *repository.AttachmentRepository,
	bidRepo *repository.BidRepository,
	minioClient *minio.Client,
	bucketName string,
	gate *policy.Policy,
) *AttachmentService {
	return &AttachmentService{
		repo:        repo,
		bidRepo:     bidRepo,
		minioClient: minioClient,
		bucketName:  bucketName,
		gate:        gate,
	}
}

func (s *AttachmentService) ListByBid(ctx context.Context, caller Caller, bidID uint) ([]entity.Attachment, error) {
	ownerID, err := s.bidRepo.FindOwner(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if !s.gate.CanAccessBid(caller.Role, caller.ID, ownerID, policy.ActionRead) {
		return nil, ErrForbidden
	}
	return s.repo.ListByBid(ctx, bidID)
}

// Upload streams the file into object storage and records its metadata.
func (s *AttachmentService) Upload(ctx context.Context, caller Caller, bidID uint, reader io.Reader, fileName string, fileSize int64, contentType string) (*entity.Attachment, error) {
	if s.minioClient == nil {
		return nil, ErrStorageUnavailable
	}

	ownerID, err := s.bidRepo.FindOwner(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if !s.gate.CanAccessBid(caller.Role, caller.ID, ownerID, policy.ActionUpdate) {
		return nil, ErrForbidden
	}

	objectKey := fmt.Sprintf("bids/%d/%s/%s%s",
		bidID, time.Now().Format("2006/01/02"), uuid.New().String()[:8], filepath.Ext(fileName))

	if _, err := s.minioClient.PutObject(ctx, s.bucketName, objectKey, reader, fileSize, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	uploaderID := caller.ID
	att := &entity.Attachment{
		BidID:        bidID,
		OriginalName: fileName,
		ObjectKey:    objectKey,
		MimeType:     contentType,
		Size:         fileSize,
		UploadedByID: &uploaderID,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, att); err != nil {
		return nil, fmt.Errorf("record attachment: %w", err)
	}
	return att, nil
}

// Download opens the stored object for streaming back to the client.
func (s *AttachmentService) Download(ctx context.Context, caller Caller, id uint) (io.ReadCloser, *entity.Attachment, error) {
	if s.minioClient == nil {
		return nil, nil, ErrStorageUnavailable
	}

	att, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	ownerID, err := s.bidRepo.FindOwner(ctx, att.BidID)
	if err != nil {
		return nil, nil, err
	}
	if !s.gate.CanAccessBid(caller.Role, caller.ID, ownerID, policy.ActionRead) {
		return nil, nil, ErrForbidden
	}

	object, err := s.minioClient.GetObject(ctx, s.bucketName, att.ObjectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("open object: %w", err)
	}
	return object, att, nil
}
