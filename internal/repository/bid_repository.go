package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tmtperez/track-my-bids/internal/model/entity"
	"gorm.io/gorm"
)

// BidFilters narrows the bid list query. Zero values mean "no filter".
// OwnerID is injected by the service layer for owner-scoped roles, never
// taken from the request.
type BidFilters struct {
	Status      string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	OwnerID     *uint
}

// BidRepository owns all reads and writes for the Bid/Scope aggregate.
type BidRepository struct {
	db *gorm.DB
}

func NewBidRepository(db *gorm.DB) *BidRepository {
	return &BidRepository{db: db}
}

// FindByID loads a bid with every relation the detail view needs.
func (r *BidRepository) FindByID(ctx context.Context, id uint) (*entity.Bid, error) {
	var bid entity.Bid
	err := r.db.WithContext(ctx).
		Preload("ClientCompany").
		Preload("Contact").
		Preload("Scopes").
		Preload("Notes").
		Preload("Tags.Tag").
		Preload("Attachments").
		Preload("Estimator").
		Preload("LastModifiedBy").
		First(&bid, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bid, nil
}

// FindOwner returns just the owner reference of a bid, for the row-level
// policy check that runs before any full load.
func (r *BidRepository) FindOwner(ctx context.Context, id uint) (*uint, error) {
	var bid entity.Bid
	err := r.db.WithContext(ctx).
		Select("id", "owner_id").
		First(&bid, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return bid.OwnerID, nil
}

// List returns bids matching the filters, most recently updated first.
// Search is a case-sensitive substring match across project name, client
// company name and contact name, OR'd together.
func (r *BidRepository) List(ctx context.Context, f BidFilters) ([]entity.Bid, error) {
	query := r.db.WithContext(ctx).Model(&entity.Bid{})

	if f.OwnerID != nil {
		query = query.Where("bids.owner_id = ?", *f.OwnerID)
	}
	if f.Status != "" {
		query = query.Where("bids.bid_status = ?", f.Status)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		query = query.
			Joins("LEFT JOIN companies ON companies.id = bids.client_company_id").
			Joins("LEFT JOIN contacts ON contacts.id = bids.contact_id").
			Where("bids.project_name LIKE ? OR companies.name LIKE ? OR contacts.name LIKE ?",
				pattern, pattern, pattern)
	}
	if f.CreatedFrom != nil {
		query = query.Where("bids.created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		query = query.Where("bids.created_at <= ?", *f.CreatedTo)
	}

	var bids []entity.Bid
	err := query.
		Preload("ClientCompany").
		Preload("Contact").
		Preload("Scopes").
		Preload("Estimator").
		Preload("LastModifiedBy").
		Order("bids.updated_at DESC").
		Find(&bids).Error
	return bids, err
}

// Create persists a bid and its scope set in one insert.
func (r *BidRepository) Create(ctx context.Context, bid *entity.Bid) error {
	return r.db.WithContext(ctx).Create(bid).Error
}

// ReplaceScopes updates the bid's scalar fields and swaps the entire scope
// set in a single transaction. A concurrent reader never observes the bid
// scope-less, and a failure in either phase leaves the original set intact.
// CreatedAt is omitted from the save so the incoming struct, which carries a
// zero value there, cannot clobber the row's insertion timestamp.
func (r *BidRepository) ReplaceScopes(ctx context.Context, bid *entity.Bid, scopes []entity.Scope) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bid_id = ?", bid.ID).Delete(&entity.Scope{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("CreatedAt", "Scopes", "Notes", "Tags", "Attachments").Save(bid).Error; err != nil {
			return err
		}
		for i := range scopes {
			scopes[i].ID = 0
			scopes[i].BidID = bid.ID
		}
		if len(scopes) > 0 {
			if err := tx.Create(&scopes).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the bid and all dependent rows in one transaction, children
// first to satisfy referential constraints.
func (r *BidRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&entity.Scope{}, &entity.Note{}, &entity.Attachment{}, &entity.BidTag{},
		} {
			if err := tx.Where("bid_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&entity.Bid{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListWithScopes loads every bid with its scopes, used by the dashboard
// rollups which aggregate across the whole table.
func (r *BidRepository) ListWithScopes(ctx context.Context) ([]entity.Bid, error) {
	var bids []entity.Bid
	err := r.db.WithContext(ctx).
		Preload("Scopes").
		Find(&bids).Error
	return bids, err
}

// ListInProposalRange returns bids whose proposal date falls in [from, to],
// falling back to created_at for bids without a proposal date. Chart
// bucketing happens in the service on top of this.
func (r *BidRepository) ListInProposalRange(ctx context.Context, from, to time.Time) ([]entity.Bid, error) {
	var bids []entity.Bid
	err := r.db.WithContext(ctx).
		Preload("Scopes").
		Where("(proposal_date BETWEEN ? AND ?) OR (proposal_date IS NULL AND created_at BETWEEN ? AND ?)",
			from, to, from, to).
		Order("created_at ASC").
		Find(&bids).Error
	return bids, err
}

// ListFollowUpsDue returns bids whose follow-up date falls on the given day
// and whose status still warrants chasing.
func (r *BidRepository) ListFollowUpsDue(ctx context.Context, day time.Time) ([]entity.Bid, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)

	var bids []entity.Bid
	err := r.db.WithContext(ctx).
		Preload("ClientCompany").
		Preload("Contact").
		Where("follow_up_on BETWEEN ? AND ?", start, end).
		Where("bid_status IN ?", []string{entity.BidStatusActive, entity.BidStatusHot, entity.BidStatusCold}).
		Find(&bids).Error
	return bids, err
}

// AddNote appends a note to a bid.
func (r *BidRepository) AddNote(ctx context.Context, note *entity.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

// CountByCompany reports how many bids reference the given company.
func (r *BidRepository) CountByCompany(ctx context.Context, companyID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&entity.Bid{}).
		Where("client_company_id = ?", companyID).
		Count(&n).Error
	return n, err
}
