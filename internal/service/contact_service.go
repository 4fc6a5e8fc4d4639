package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmtperez/track-my-bids/internal/model/entity"
	"github.com/tmtperez/track-my-bids/internal/repository"
)

type ContactService struct {
	repo        *repository.ContactRepository
	companyRepo *repository.CompanyRepository
}

func NewContactService(repo *repository.ContactRepository, companyRepo *repository.CompanyRepository) *ContactService {
	return &ContactService{repo: repo, companyRepo: companyRepo}
}

type ContactInput struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CompanyID uint   `json:"company_id" binding:"required"`
}

func (s *ContactService) List(ctx context.Context) ([]entity.Contact, error) {
	return s.repo.List(ctx)
}

func (s *ContactService) Create(ctx context.Context, in *ContactInput) (*entity.Contact, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationErrorf("name is required")
	}
	if in.CompanyID == 0 {
		return nil, validationErrorf("company is required")
	}
	if _, err := s.companyRepo.FindByID(ctx, in.CompanyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, validationErrorf("company does not exist")
		}
		return nil, fmt.Errorf("verify company: %w", err)
	}

	contact := &entity.Contact{
		Name:      name,
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		CompanyID: in.CompanyID,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return contact, nil
}

func (s *ContactService) Update(ctx context.Context, id uint, in *ContactInput) (*entity.Contact, error) {
	contact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		contact.Name = name
	}
	contact.Email = strings.TrimSpace(in.Email)
	contact.Phone = strings.TrimSpace(in.Phone)
	if in.CompanyID != 0 && in.CompanyID != contact.CompanyID {
		if _, err := s.companyRepo.FindByID(ctx, in.CompanyID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, validationErrorf("company does not exist")
			}
			return nil, fmt.Errorf("verify company: %w", err)
		}
		contact.CompanyID = in.CompanyID
	}

	if err := s.repo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return contact, nil
}
