package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmtperez/track-my-bids/internal/model/entity"
	"github.com/tmtperez/track-my-bids/internal/policy"
	"github.com/tmtperez/track-my-bids/internal/repository"
	"github.com/xuri/excelize/v2"
)

// Caller is the authenticated user on whose behalf an operation runs,
// supplied by the JWT middleware.
type Caller struct {
	ID   uint
	Role string
}

// BidService implements the bid CRUD surface plus the derived read
// projections. All mutation goes through the repository's transactional
// operations.
type BidService struct {
	bidRepo     *repository.BidRepository
	companyRepo *repository.CompanyRepository
	contactRepo *repository.ContactRepository
	userRepo    *repository.UserRepository
	gate        *policy.Policy
	cache       *DashboardService
}

func NewBidService(
	bidRepo *repository.BidRepository,
	companyRepo *repository.CompanyRepository,
	contactRepo *repository.ContactRepository,
	userRepo *repository.UserRepository,
	gate *policy.Policy,
	cache *DashboardService,
) *BidService {
	return &BidService{
		bidRepo:     bidRepo,
		companyRepo: companyRepo,
		contactRepo: contactRepo,
		userRepo:    userRepo,
		gate:        gate,
		cache:       cache,
	}
}

// BidInput is the create/update payload. Dates arrive as loose strings so
// imported and hand-typed data share one path.
type BidInput struct {
	ProjectName     string       `json:"project_name" binding:"required"`
	ClientCompanyID uint         `json:"client_company_id" binding:"required"`
	ContactID       *uint        `json:"contact_id"`
	EstimatorID     *uint        `json:"estimator_id"`
	OwnerID         *uint        `json:"owner_id"`
	ProposalDate    string       `json:"proposal_date"`
	DueDate         string       `json:"due_date"`
	FollowUpOn      string       `json:"follow_up_on"`
	JobLocation     string       `json:"job_location"`
	LeadSource      string       `json:"lead_source"`
	BidStatus       string       `json:"bid_status"`
	Scopes          []ScopeInput `json:"scopes"`
}

// ListBidsQuery carries the list filters taken from the query string.
type ListBidsQuery struct {
	Status      string
	Search      string
	CreatedFrom string
	CreatedTo   string
}

// BidSummary is one row of the bid list: scalar fields plus the two derived
// projections and denormalized display info.
type BidSummary struct {
	ID             uint            `json:"id"`
	ProjectName    string          `json:"project_name"`
	ClientName     string          `json:"client_name"`
	Amount         float64         `json:"amount"`
	ProposalDate   *time.Time      `json:"proposal_date"`
	DueDate        *time.Time      `json:"due_date"`
	FollowUpOn     *time.Time      `json:"follow_up_on"`
	ScopeStatus    string          `json:"scope_status"`
	BidStatus      string          `json:"bid_status"`
	Estimator      *entity.UserRef `json:"estimator"`
	LastModifiedBy *entity.UserRef `json:"last_modified_by"`
	LastModifiedAt *time.Time      `json:"last_modified_at"`
}

// List returns bid summaries matching the query, most recently updated
// first. Owner-scoped callers only ever see their own bids.
func (s *BidService) List(ctx context.Context, caller Caller, q ListBidsQuery) ([]BidSummary, error) {
	if !s.gate.Can(caller.Role, policy.ActionRead) {
		return nil, ErrForbidden
	}

	filters := repository.BidFilters{
		Status: q.Status,
		Search: strings.TrimSpace(q.Search),
	}
	if q.Status != "" {
		normalized, ok := NormalizeBidStatus(q.Status)
		if !ok {
			return nil, validationErrorf("unknown bid status: " + q.Status)
		}
		filters.Status = normalized
	}
	if d := ParseDateLoose(q.CreatedFrom); d != nil {
		filters.CreatedFrom = d
	}
	if d := ParseDateLoose(q.CreatedTo); d != nil {
		// Inclusive upper bound: extend to end of day.
		end := d.Add(24*time.Hour - time.Nanosecond)
		filters.CreatedTo = &end
	}
	if s.gate.OwnerFilter(caller.Role) {
		id := caller.ID
		filters.OwnerID = &id
	}

	bids, err := s.bidRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}

	summaries := make([]BidSummary, 0, len(bids))
	for i := range bids {
		summaries = append(summaries, summarize(&bids[i]))
	}
	return summaries, nil
}

func summarize(b *entity.Bid) BidSummary {
	clientName := "—"
	if b.ClientCompany != nil {
		clientName = b.ClientCompany.Name
	}
	return BidSummary{
		ID:             b.ID,
		ProjectName:    b.ProjectName,
		ClientName:     clientName,
		Amount:         TotalAmount(b.Scopes),
		ProposalDate:   b.ProposalDate,
		DueDate:        b.DueDate,
		FollowUpOn:     b.FollowUpOn,
		ScopeStatus:    AggregateScopeStatus(b.Scopes),
		BidStatus:      b.BidStatus,
		Estimator:      b.Estimator.Ref(),
		LastModifiedBy: b.LastModifiedBy.Ref(),
		LastModifiedAt: b.LastModifiedAt,
	}
}

// Get loads a full bid. Owner-scoped callers may only read bids they own
// (or unowned bids, per the active policy).
func (s *BidService) Get(ctx context.Context, caller Caller, id uint) (*entity.Bid, error) {
	bid, err := s.bidRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.gate.CanAccessBid(caller.Role, caller.ID, bid.OwnerID, policy.ActionRead) {
		return nil, ErrForbidden
	}
	return bid, nil
}

// Create validates and persists a new bid with its sanitized scope set,
// stamping last-modified bookkeeping with the caller.
func (s *BidService) Create(ctx context.Context, caller Caller, in *BidInput) (*entity.Bid, error) {
	if !s.gate.Can(caller.Role, policy.ActionCreate) {
		return nil, ErrForbidden
	}

	bid, err := s.buildBid(ctx, caller, in)
	if err != nil {
		return nil, err
	}
	bid.Scopes = SanitizeScopes(in.Scopes)

	if err := s.bidRepo.Create(ctx, bid); err != nil {
		return nil, fmt.Errorf("create bid: %w", err)
	}

	s.cache.Invalidate(ctx)
	return s.bidRepo.FindByID(ctx, bid.ID)
}

// Update atomically replaces the bid's scalar fields and its entire scope
// set. Either both phases persist or neither does.
func (s *BidService) Update(ctx context.Context, caller Caller, id uint, in *BidInput) (*entity.Bid, error) {
	ownerID, err := s.bidRepo.FindOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.gate.CanAccessBid(caller.Role, caller.ID, ownerID, policy.ActionUpdate) {
		return nil, ErrForbidden
	}

	bid, err := s.buildBid(ctx, caller, in)
	if err != nil {
		return nil, err
	}
	bid.ID = id
	bid.OwnerID = ownerID
	if in.OwnerID != nil {
		bid.OwnerID = in.OwnerID
	}

	scopes := SanitizeScopes(in.Scopes)
	if err := s.bidRepo.ReplaceScopes(ctx, bid, scopes); err != nil {
		return nil, fmt.Errorf("update bid: %w", err)
	}

	s.cache.Invalidate(ctx)
	return s.bidRepo.FindByID(ctx, id)
}

// Delete removes the bid and every dependent row in one transaction.
func (s *BidService) Delete(ctx context.Context, caller Caller, id uint) error {
	ownerID, err := s.bidRepo.FindOwner(ctx, id)
	if err != nil {
		return err
	}
	if !s.gate.CanAccessBid(caller.Role, caller.ID, ownerID, policy.ActionDelete) {
		return ErrForbidden
	}

	if err := s.bidRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete bid: %w", err)
	}
	s.cache.Invalidate(ctx)
	return nil
}

// AddNote appends a note to a bid under the update gate.
func (s *BidService) AddNote(ctx context.Context, caller Caller, bidID uint, body string) (*entity.Note, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, validationErrorf("note body is required")
	}

	ownerID, err := s.bidRepo.FindOwner(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if !s.gate.CanAccessBid(caller.Role, caller.ID, ownerID, policy.ActionUpdate) {
		return nil, ErrForbidden
	}

	authorID := caller.ID
	note := &entity.Note{
		BidID:     bidID,
		Body:      body,
		AuthorID:  &authorID,
		CreatedAt: time.Now(),
	}
	if err := s.bidRepo.AddNote(ctx, note); err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	return note, nil
}

// buildBid validates the input and assembles the scalar bid record. The
// client company must exist; contact and estimator are verified only when
// supplied. Detection happens before any mutation so no partial state is
// ever created.
func (s *BidService) buildBid(ctx context.Context, caller Caller, in *BidInput) (*entity.Bid, error) {
	name := strings.TrimSpace(in.ProjectName)
	if name == "" {
		return nil, validationErrorf("project name is required")
	}
	if in.ClientCompanyID == 0 {
		return nil, validationErrorf("client company is required")
	}

	status, ok := NormalizeBidStatus(in.BidStatus)
	if !ok {
		return nil, validationErrorf("unknown bid status: " + in.BidStatus)
	}

	if _, err := s.companyRepo.FindByID(ctx, in.ClientCompanyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, validationErrorf("client company does not exist")
		}
		return nil, fmt.Errorf("verify company: %w", err)
	}
	if in.ContactID != nil {
		if _, err := s.contactRepo.FindByID(ctx, *in.ContactID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, validationErrorf("contact does not exist")
			}
			return nil, fmt.Errorf("verify contact: %w", err)
		}
	}
	if in.EstimatorID != nil {
		if _, err := s.userRepo.FindByID(ctx, *in.EstimatorID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, validationErrorf("estimator does not exist")
			}
			return nil, fmt.Errorf("verify estimator: %w", err)
		}
	}

	now := time.Now()
	callerID := caller.ID
	return &entity.Bid{
		ProjectName:      name,
		ClientCompanyID:  in.ClientCompanyID,
		ContactID:        in.ContactID,
		EstimatorID:      in.EstimatorID,
		OwnerID:          in.OwnerID,
		ProposalDate:     ParseDateLoose(in.ProposalDate),
		DueDate:          ParseDateLoose(in.DueDate),
		FollowUpOn:       ParseDateLoose(in.FollowUpOn),
		JobLocation:      strings.TrimSpace(in.JobLocation),
		LeadSource:       strings.TrimSpace(in.LeadSource),
		BidStatus:        status,
		LastModifiedByID: &callerID,
		LastModifiedAt:   &now,
		UpdatedAt:        now,
	}, nil
}

// Export renders the caller-visible bid summaries as an xlsx workbook.
func (s *BidService) Export(ctx context.Context, caller Caller, q ListBidsQuery) (*excelize.File, error) {
	summaries, err := s.List(ctx, caller, q)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Bids"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"ID", "Project", "Client", "Amount", "Proposal Date", "Due Date", "Follow Up", "Scope Status", "Bid Status", "Estimator"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	dateOrBlank := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	}

	for row, b := range summaries {
		estimator := ""
		if b.Estimator != nil {
			estimator = b.Estimator.Name
		}
		values := []interface{}{
			b.ID, b.ProjectName, b.ClientName, b.Amount,
			dateOrBlank(b.ProposalDate), dateOrBlank(b.DueDate), dateOrBlank(b.FollowUpOn),
			b.ScopeStatus, b.BidStatus, estimator,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f, nil
}
