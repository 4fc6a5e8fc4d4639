package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmtperez/track-my-bids/internal/model/entity"
	"github.com/tmtperez/track-my-bids/internal/repository"
)

// ScopeCatalogService manages the list of suggested scope names offered by
// the bid form's autocomplete. Entries are names only; they carry no cost
// or status and are independent of any bid's scopes.
type ScopeCatalogService struct {
	repo *repository.ScopeCatalogRepository
}

func NewScopeCatalogService(repo *repository.ScopeCatalogRepository) *ScopeCatalogService {
	return &ScopeCatalogService{repo: repo}
}

func (s *ScopeCatalogService) List(ctx context.Context) ([]entity.ScopeCatalogEntry, error) {
	return s.repo.List(ctx)
}

func (s *ScopeCatalogService) Create(ctx context.Context, name string) (*entity.ScopeCatalogEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErrorf("name is required")
	}

	entry := &entity.ScopeCatalogEntry{Name: name}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create catalog entry: %w", err)
	}
	return entry, nil
}

func (s *ScopeCatalogService) Update(ctx context.Context, id uint, name string) (*entity.ScopeCatalogEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErrorf("name is required")
	}

	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.Name = name
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("update catalog entry: %w", err)
	}
	return entry, nil
}

func (s *ScopeCatalogService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
