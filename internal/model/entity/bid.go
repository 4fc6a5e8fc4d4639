package entity

import "time"

// BidStatus closed set. "Completed" is accepted on input and normalized to
// "Complete" before it reaches storage.
const (
	BidStatusActive   = "Active"
	BidStatusComplete = "Complete"
	BidStatusArchived = "Archived"
	BidStatusHot      = "Hot"
	BidStatusCold     = "Cold"
)

// ScopeStatus values for a single cost line item.
const (
	ScopeStatusPending = "Pending"
	ScopeStatusWon     = "Won"
	ScopeStatusLost    = "Lost"

	// ScopeStatusUnknown is a derived aggregate value only; it is never stored.
	ScopeStatusUnknown = "Unknown"
)

// Bid is one prospective project/proposal. Its displayed amount is always the
// sum of its current scopes' costs, recomputed on read and never stored.
type Bid struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	ProjectName     string     `json:"project_name" gorm:"size:255;not null"`
	ClientCompanyID uint       `json:"client_company_id" gorm:"not null;index"`
	ContactID       *uint      `json:"contact_id"`
	EstimatorID     *uint      `json:"estimator_id"`
	OwnerID         *uint      `json:"owner_id" gorm:"index"`
	ProposalDate    *time.Time `json:"proposal_date" gorm:"type:date"`
	DueDate         *time.Time `json:"due_date" gorm:"type:date"`
	FollowUpOn      *time.Time `json:"follow_up_on" gorm:"type:date"`
	JobLocation     string     `json:"job_location" gorm:"size:255"`
	LeadSource      string     `json:"lead_source" gorm:"size:128"`
	BidStatus       string     `json:"bid_status" gorm:"size:16;not null;default:Active;index"`
	LastModifiedByID *uint     `json:"last_modified_by_id"`
	LastModifiedAt  *time.Time `json:"last_modified_at"`
	CreatedAt       time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"index"`

	ClientCompany  *Company     `json:"client_company,omitempty" gorm:"foreignKey:ClientCompanyID"`
	Contact        *Contact     `json:"contact,omitempty" gorm:"foreignKey:ContactID"`
	Estimator      *User        `json:"estimator,omitempty" gorm:"foreignKey:EstimatorID"`
	Owner          *User        `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	LastModifiedBy *User        `json:"last_modified_by,omitempty" gorm:"foreignKey:LastModifiedByID"`
	Scopes         []Scope      `json:"scopes,omitempty" gorm:"foreignKey:BidID"`
	Notes          []Note       `json:"notes,omitempty" gorm:"foreignKey:BidID"`
	Tags           []BidTag     `json:"tags,omitempty" gorm:"foreignKey:BidID"`
	Attachments    []Attachment `json:"attachments,omitempty" gorm:"foreignKey:BidID"`
}

func (Bid) TableName() string {
	return "bids"
}

// Scope is one cost line item within a bid. Scopes exist only as part of
// their parent bid: a bid update replaces the whole set.
type Scope struct {
	ID     uint    `json:"id" gorm:"primaryKey"`
	BidID  uint    `json:"bid_id" gorm:"not null;index"`
	Name   string  `json:"name" gorm:"size:128;not null"`
	Cost   float64 `json:"cost" gorm:"type:decimal(14,2);not null;default:0"`
	Status string  `json:"status" gorm:"size:16;not null;default:Pending"`
}

func (Scope) TableName() string {
	return "scopes"
}

// Note is a free-form remark attached to a bid.
type Note struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BidID     uint      `json:"bid_id" gorm:"not null;index"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	AuthorID  *uint     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

func (Note) TableName() string {
	return "notes"
}

// Tag is a flat label; BidTag links tags to bids.
type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:64;not null;uniqueIndex"`
}

func (Tag) TableName() string {
	return "tags"
}

type BidTag struct {
	ID    uint `json:"id" gorm:"primaryKey"`
	BidID uint `json:"bid_id" gorm:"not null;index"`
	TagID uint `json:"tag_id" gorm:"not null;index"`

	Tag *Tag `json:"tag,omitempty" gorm:"foreignKey:TagID"`
}

func (BidTag) TableName() string {
	return "bid_tags"
}

// Attachment is a file stored in object storage and linked to a bid.
type Attachment struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	BidID        uint      `json:"bid_id" gorm:"not null;index"`
	OriginalName string    `json:"original_name" gorm:"size:255;not null"`
	ObjectKey    string    `json:"object_key" gorm:"size:512;not null"`
	MimeType     string    `json:"mime_type" gorm:"size:128"`
	Size         int64     `json:"size" gorm:"not null"`
	UploadedByID *uint     `json:"uploaded_by_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Attachment) TableName() string {
	return "attachments"
}

// ScopeCatalogEntry is a suggested scope name used for autocomplete in the
// client. It is distinct from per-bid Scope rows and carries no cost/status.
type ScopeCatalogEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:128;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ScopeCatalogEntry) TableName() string {
	return "scope_catalog"
}
