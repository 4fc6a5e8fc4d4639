package entity

import "time"

// Role values. The application currently runs the three-role scheme; the
// legacy four-role scheme (ESTIMATOR/VIEWER) is still understood by the
// policy package for older deployments.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleUser    = "USER"

	RoleEstimator = "ESTIMATOR"
	RoleViewer    = "VIEWER"
)

// User is an application account. It is both an actor (the authenticated
// caller) and a reference target (estimator, account manager, last-modified-by).
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:128;not null"`
	Email        string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"`
	Role         string    `json:"role" gorm:"size:16;not null;default:USER"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserRef is the denormalized user shape embedded in bid summaries.
type UserRef struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Ref returns the public reference shape for embedding in responses.
func (u *User) Ref() *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}
