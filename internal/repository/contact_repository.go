package repository

import (
	"context"
	"errors"

	"github.com/tmtperez/track-my-bids/internal/model/entity"
	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) FindByID(ctx context.Context, id uint) (*entity.Contact, error) {
	var contact entity.Contact
	err := r.db.WithContext(ctx).
		Preload("Company").
		First(&contact, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

// FindByNameAndCompany is used by the CSV importer to upsert contacts.
func (r *ContactRepository) FindByNameAndCompany(ctx context.Context, name string, companyID uint) (*entity.Contact, error) {
	var contact entity.Contact
	err := r.db.WithContext(ctx).
		Where("name = ? AND company_id = ?", name, companyID).
		First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) List(ctx context.Context) ([]entity.Contact, error) {
	var contacts []entity.Contact
	err := r.db.WithContext(ctx).
		Preload("Company").
		Order("name ASC").
		Find(&contacts).Error
	return contacts, err
}

func (r *ContactRepository) Create(ctx context.Context, contact *entity.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *ContactRepository) Update(ctx context.Context, contact *entity.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}
