package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("conflict")
)

// Repositories bundles every repository behind a single constructor so main
// can wire the service layer in one call.
type Repositories struct {
	User         *UserRepository
	Company      *CompanyRepository
	Contact      *ContactRepository
	Bid          *BidRepository
	ScopeCatalog *ScopeCatalogRepository
	Attachment   *AttachmentRepository
}

// NewRepositories creates the repository set over one shared gorm handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Company:      NewCompanyRepository(db),
		Contact:      NewContactRepository(db),
		Bid:          NewBidRepository(db),
		ScopeCatalog: NewScopeCatalogRepository(db),
		Attachment:   NewAttachmentRepository(db),
	}
}
