package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tmtperez/track-my-bids/internal/model/entity"
	"github.com/tmtperez/track-my-bids/internal/policy"
	"github.com/tmtperez/track-my-bids/internal/repository"
)

// ImportService ingests bid spreadsheets exported as CSV. Rows sharing a
// project name and client company collapse into one bid whose scope lines
// are the individual rows.
type ImportService struct {
	bidRepo     *repository.BidRepository
	companyRepo *repository.CompanyRepository
	contactRepo *repository.ContactRepository
	userRepo    *repository.UserRepository
	gate        *policy.Policy
	cache       *DashboardService
	logger      *zap.Logger
}

func NewImportService(
	bidRepo *repository.BidRepository,
	companyRepo *repository.CompanyRepository,
	contactRepo *repository.ContactRepository,
	userRepo *repository.UserRepository,
	gate *policy.Policy,
	cache *DashboardService,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		bidRepo:     bidRepo,
		companyRepo: companyRepo,
		contactRepo: contactRepo,
		userRepo:    userRepo,
		gate:        gate,
		cache:       cache,
		logger:      logger,
	}
}

// ImportRow is one parsed CSV line with its fields resolved through the
// header alias table.
type ImportRow struct {
	ProjectName    string
	ClientCompany  string
	ContactName    string
	EstimatorEmail string
	ProposalDate   string
	DueDate        string
	FollowUpOn     string
	JobLocation    string
	LeadSource     string
	BidStatus      string
	ScopeName      string
	ScopeCost      float64
	ScopeStatus    string
}

// ImportGroup is one bid to create: the shared scalar fields plus the scope
// lines collected from its rows.
type ImportGroup struct {
	Key    string
	First  ImportRow
	Scopes []ScopeInput
}

// ImportError records why one group could not be imported.
type ImportError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// ImportResult is the summary returned to the client.
type ImportResult struct {
	Imported int           `json:"imported"`
	Errors   []ImportError `json:"errors"`
}

// headerAliases maps each logical field to the column names it may appear
// under. Matching is case-insensitive.
var headerAliases = map[string][]string{
	"project":    {"projectname", "project"},
	"company":    {"clientcompany", "company", "client"},
	"contact":    {"contactname", "contact"},
	"estimator":  {"estimatoremail", "estimator"},
	"proposal":   {"proposaldate", "proposal"},
	"due":        {"duedate", "due"},
	"followup":   {"followupon", "followup", "follow-up", "follow_up"},
	"location":   {"joblocation", "location"},
	"source":     {"leadsource", "source"},
	"status":     {"bidstatus", "status"},
	"scope":      {"scopename", "scope"},
	"cost":       {"scopecost", "cost"},
	"scopestate": {"scopestatus"},
}

// ParseBidCSV reads the CSV and resolves each line into an ImportRow. The
// first line must be a header; unknown columns are ignored.
func ParseBidCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, validationErrorf("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	// Column index per logical field.
	index := make(map[string]int)
	for i, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))
		for field, aliases := range headerAliases {
			if _, taken := index[field]; taken {
				continue
			}
			for _, alias := range aliases {
				if normalized == alias {
					index[field] = i
					break
				}
			}
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []ImportRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, ImportRow{
			ProjectName:    field(record, "project"),
			ClientCompany:  field(record, "company"),
			ContactName:    field(record, "contact"),
			EstimatorEmail: field(record, "estimator"),
			ProposalDate:   field(record, "proposal"),
			DueDate:        field(record, "due"),
			FollowUpOn:     field(record, "followup"),
			JobLocation:    field(record, "location"),
			LeadSource:     field(record, "source"),
			BidStatus:      field(record, "status"),
			ScopeName:      field(record, "scope"),
			ScopeCost:      parseCost(field(record, "cost")),
			ScopeStatus:    field(record, "scopestate"),
		})
	}
	return rows, nil
}

// parseCost tolerates thousands separators and blank cells.
func parseCost(s string) float64 {
	cleaned := strings.NewReplacer(",", "", " ", "", "$", "").Replace(s)
	if cleaned == "" {
		return 0
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return n
}

// GroupImportRows collapses rows into one group per project+company pair,
// preserving first-seen order. Rows missing either key are skipped.
func GroupImportRows(rows []ImportRow) []ImportGroup {
	byKey := make(map[string]*ImportGroup)
	var order []string

	for _, row := range rows {
		if row.ProjectName == "" || row.ClientCompany == "" {
			continue
		}
		key := row.ProjectName + "||" + row.ClientCompany
		group, ok := byKey[key]
		if !ok {
			group = &ImportGroup{Key: key, First: row}
			byKey[key] = group
			order = append(order, key)
		}
		group.Scopes = append(group.Scopes, ScopeInput{
			Name:   row.ScopeName,
			Cost:   row.ScopeCost,
			Status: row.ScopeStatus,
		})
	}

	groups := make([]ImportGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, *byKey[key])
	}
	return groups
}

// Import parses, groups and persists the upload. Failures are collected per
// group so one bad bid does not abort the rest of the file.
func (s *ImportService) Import(ctx context.Context, caller Caller, r io.Reader) (*ImportResult, error) {
	if !s.gate.Can(caller.Role, policy.ActionCreate) {
		return nil, ErrForbidden
	}

	rows, err := ParseBidCSV(r)
	if err != nil {
		return nil, err
	}
	groups := GroupImportRows(rows)

	result := &ImportResult{Errors: []ImportError{}}
	for _, g := range groups {
		if err := s.importGroup(ctx, caller, g); err != nil {
			result.Errors = append(result.Errors, ImportError{Key: g.Key, Message: err.Error()})
			continue
		}
		result.Imported++
	}

	if result.Imported > 0 {
		s.cache.Invalidate(ctx)
	}
	s.logger.Info("bid import finished",
		zap.Int("imported", result.Imported),
		zap.Int("failed", len(result.Errors)))
	return result, nil
}

func (s *ImportService) importGroup(ctx context.Context, caller Caller, g ImportGroup) error {
	company, err := s.upsertCompany(ctx, g.First.ClientCompany)
	if err != nil {
		return err
	}

	var contactID *uint
	if g.First.ContactName != "" {
		contact, err := s.upsertContact(ctx, g.First.ContactName, company.ID)
		if err != nil {
			return err
		}
		contactID = &contact.ID
	}

	var estimatorID *uint
	if g.First.EstimatorEmail != "" {
		estimator, err := s.userRepo.FindByEmail(ctx, g.First.EstimatorEmail)
		if err == nil {
			estimatorID = &estimator.ID
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("find estimator: %w", err)
		}
		// Unknown estimator emails import the bid without one.
	}

	status, ok := NormalizeBidStatus(g.First.BidStatus)
	if !ok {
		status = entity.BidStatusActive
	}

	callerID := caller.ID
	bid := &entity.Bid{
		ProjectName:      g.First.ProjectName,
		ClientCompanyID:  company.ID,
		ContactID:        contactID,
		EstimatorID:      estimatorID,
		ProposalDate:     ParseDateLoose(g.First.ProposalDate),
		DueDate:          ParseDateLoose(g.First.DueDate),
		FollowUpOn:       ParseDateLoose(g.First.FollowUpOn),
		JobLocation:      g.First.JobLocation,
		LeadSource:       g.First.LeadSource,
		BidStatus:        status,
		LastModifiedByID: &callerID,
		Scopes:           SanitizeScopes(g.Scopes),
	}
	if err := s.bidRepo.Create(ctx, bid); err != nil {
		return fmt.Errorf("create bid: %w", err)
	}
	return nil
}

func (s *ImportService) upsertCompany(ctx context.Context, name string) (*entity.Company, error) {
	company, err := s.companyRepo.FindByName(ctx, name)
	if err == nil {
		return company, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find company: %w", err)
	}
	company = &entity.Company{Name: name}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	return company, nil
}

func (s *ImportService) upsertContact(ctx context.Context, name string, companyID uint) (*entity.Contact, error) {
	contact, err := s.contactRepo.FindByNameAndCompany(ctx, name, companyID)
	if err == nil {
		return contact, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find contact: %w", err)
	}
	contact = &entity.Contact{Name: name, CompanyID: companyID}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return contact, nil
}
