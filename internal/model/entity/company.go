package entity

import "time"

// Company is a client organization. Bids and contacts reference it.
type Company struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	Name             string     `json:"name" gorm:"size:255;not null;index"`
	AccountManagerID *uint      `json:"account_manager_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	AccountManager *User           `json:"account_manager,omitempty" gorm:"foreignKey:AccountManagerID"`
	Contacts       []Contact       `json:"contacts,omitempty" gorm:"foreignKey:CompanyID"`
	Bids           []Bid           `json:"bids,omitempty" gorm:"foreignKey:ClientCompanyID"`
	Activity       []ActivityEntry `json:"activity,omitempty" gorm:"foreignKey:CompanyID"`
}

func (Company) TableName() string {
	return "companies"
}

// Contact is a person at a company.
type Contact struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	Email     string    `json:"email" gorm:"size:255"`
	Phone     string    `json:"phone" gorm:"size:64"`
	CompanyID uint      `json:"company_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
}

func (Contact) TableName() string {
	return "contacts"
}

// ActivityEntry is one line in a company's activity log.
type ActivityEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CompanyID uint      `json:"company_id" gorm:"not null;index"`
	Kind      string    `json:"kind" gorm:"size:32;not null"`
	Detail    string    `json:"detail" gorm:"type:text"`
	ActorID   *uint     `json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`

	Actor *User `json:"actor,omitempty" gorm:"foreignKey:ActorID"`
}

func (ActivityEntry) TableName() string {
	return "activity_entries"
}
