package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/tmtperez/track-my-bids/internal/model/entity"
	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) FindByID(ctx context.Context, id uint) (*entity.Company, error) {
	var company entity.Company
	err := r.db.WithContext(ctx).
		Preload("AccountManager").
		Preload("Contacts").
		First(&company, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindByName matches case-insensitively so "Acme" and "ACME" are the same
// company for duplicate detection.
func (r *CompanyRepository) FindByName(ctx context.Context, name string) (*entity.Company, error) {
	var company entity.Company
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// List returns all companies with their bids and scopes preloaded so the
// service can compute won/lost rollups, ordered by name.
func (r *CompanyRepository) List(ctx context.Context) ([]entity.Company, error) {
	var companies []entity.Company
	err := r.db.WithContext(ctx).
		Preload("Bids.Scopes").
		Order("name ASC").
		Find(&companies).Error
	return companies, err
}

func (r *CompanyRepository) Create(ctx context.Context, company *entity.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *CompanyRepository) Update(ctx context.Context, company *entity.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

func (r *CompanyRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Company{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddActivity appends one entry to the company's activity log.
func (r *CompanyRepository) AddActivity(ctx context.Context, entry *entity.ActivityEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListActivity returns a company's activity log, newest first.
func (r *CompanyRepository) ListActivity(ctx context.Context, companyID uint) ([]entity.ActivityEntry, error) {
	var entries []entity.ActivityEntry
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
