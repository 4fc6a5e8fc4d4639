package repository

import (
	"context"
	"errors"

	"github.com/tmtperez/track-my-bids/internal/model/entity"
	"gorm.io/gorm"
)

type ScopeCatalogRepository struct {
	db *gorm.DB
}

func NewScopeCatalogRepository(db *gorm.DB) *ScopeCatalogRepository {
	return &ScopeCatalogRepository{db: db}
}

func (r *ScopeCatalogRepository) List(ctx context.Context) ([]entity.ScopeCatalogEntry, error) {
	var entries []entity.ScopeCatalogEntry
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ScopeCatalogRepository) FindByID(ctx context.Context, id uint) (*entity.ScopeCatalogEntry, error) {
	var entry entity.ScopeCatalogEntry
	err := r.db.WithContext(ctx).First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *ScopeCatalogRepository) Create(ctx context.Context, entry *entity.ScopeCatalogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ScopeCatalogRepository) Update(ctx context.Context, entry *entity.ScopeCatalogEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *ScopeCatalogRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.ScopeCatalogEntry{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
