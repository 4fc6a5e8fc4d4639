package repository

import (
	"context"
	"errors"

	"github.com/tmtperez/track-my-bids/internal/model/entity"
	"gorm.io/gorm"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) FindByID(ctx context.Context, id uint) (*entity.Attachment, error) {
	var att entity.Attachment
	err := r.db.WithContext(ctx).First(&att, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &att, nil
}

func (r *AttachmentRepository) Create(ctx context.Context, att *entity.Attachment) error {
	return r.db.WithContext(ctx).Create(att).Error
}

func (r *AttachmentRepository) ListByBid(ctx context.Context, bidID uint) ([]entity.Attachment, error) {
	var atts []entity.Attachment
	err := r.db.WithContext(ctx).
		Where("bid_id = ?", bidID).
		Order("created_at DESC").
		Find(&atts).Error
	return atts, err
}
