package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmtperez/track-my-bids/internal/model/entity"
	"github.com/tmtperez/track-my-bids/internal/repository"
)

type CompanyService struct {
	repo    *repository.CompanyRepository
	bidRepo *repository.BidRepository
}

func NewCompanyService(repo *repository.CompanyRepository, bidRepo *repository.BidRepository) *CompanyService {
	return &CompanyService{repo: repo, bidRepo: bidRepo}
}

// ProjectRef is one bid listed under a company row.
type ProjectRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CompanySummary is one row of the company list with its won/lost scope
// value rollups.
type CompanySummary struct {
	ID       uint         `json:"id"`
	Name     string       `json:"name"`
	Projects []ProjectRef `json:"projects"`
	Won      float64      `json:"won"`
	Lost     float64      `json:"lost"`
}

// List returns every company ordered by name, each with its bid references
// and the summed value of Won and Lost scopes across all of its bids.
func (s *CompanyService) List(ctx context.Context) ([]CompanySummary, error) {
	companies, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}

	summaries := make([]CompanySummary, 0, len(companies))
	for i := range companies {
		c := &companies[i]
		row := CompanySummary{
			ID:       c.ID,
			Name:     c.Name,
			Projects: make([]ProjectRef, 0, len(c.Bids)),
		}
		for j := range c.Bids {
			b := &c.Bids[j]
			row.Projects = append(row.Projects, ProjectRef{ID: b.ID, Name: b.ProjectName})
			for _, sc := range b.Scopes {
				switch sc.Status {
				case entity.ScopeStatusWon:
					row.Won += sc.Cost
				case entity.ScopeStatusLost:
					row.Lost += sc.Cost
				}
			}
		}
		summaries = append(summaries, row)
	}
	return summaries, nil
}

func (s *CompanyService) Get(ctx context.Context, id uint) (*entity.Company, error) {
	return s.repo.FindByID(ctx, id)
}

type CompanyInput struct {
	Name             string `json:"name" binding:"required"`
	AccountManagerID *uint  `json:"account_manager_id"`
}

// Create adds a company. Names are matched case-insensitively, so a company
// that differs only in casing is a duplicate.
func (s *CompanyService) Create(ctx context.Context, in *CompanyInput) (*entity.Company, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationErrorf("name is required")
	}

	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, &ConflictError{Msg: "company already exists"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check company name: %w", err)
	}

	company := &entity.Company{
		Name:             name,
		AccountManagerID: in.AccountManagerID,
	}
	if err := s.repo.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	return company, nil
}

func (s *CompanyService) Update(ctx context.Context, id uint, in *CompanyInput) (*entity.Company, error) {
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" && !strings.EqualFold(name, company.Name) {
		if _, err := s.repo.FindByName(ctx, name); err == nil {
			return nil, &ConflictError{Msg: "company already exists"}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("check company name: %w", err)
		}
		company.Name = name
	} else if name != "" {
		company.Name = name
	}
	company.AccountManagerID = in.AccountManagerID

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	return company, nil
}

// Delete refuses to remove a company that still has bids; the bids must be
// deleted or reassigned first.
func (s *CompanyService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.bidRepo.CountByCompany(ctx, id)
	if err != nil {
		return fmt.Errorf("count company bids: %w", err)
	}
	if count > 0 {
		return &ConflictError{Msg: fmt.Sprintf("cannot delete company with %d associated bids", count)}
	}

	return s.repo.Delete(ctx, id)
}

type ActivityInput struct {
	Kind   string `json:"kind" binding:"required"`
	Detail string `json:"detail"`
}

func (s *CompanyService) AddActivity(ctx context.Context, caller Caller, companyID uint, in *ActivityInput) (*entity.ActivityEntry, error) {
	kind := strings.TrimSpace(in.Kind)
	if kind == "" {
		return nil, validationErrorf("kind is required")
	}
	if _, err := s.repo.FindByID(ctx, companyID); err != nil {
		return nil, err
	}

	actorID := caller.ID
	entry := &entity.ActivityEntry{
		CompanyID: companyID,
		Kind:      kind,
		Detail:    strings.TrimSpace(in.Detail),
		ActorID:   &actorID,
		CreatedAt: time.Now(),
	}
	if err := s.repo.AddActivity(ctx, entry); err != nil {
		return nil, fmt.Errorf("add activity: %w", err)
	}
	return entry, nil
}

func (s *CompanyService) ListActivity(ctx context.Context, companyID uint) ([]entity.ActivityEntry, error) {
	if _, err := s.repo.FindByID(ctx, companyID); err != nil {
		return nil, err
	}
	return s.repo.ListActivity(ctx, companyID)
}
