package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmtperez/track-my-bids/internal/model/entity"
	"github.com/tmtperez/track-my-bids/internal/repository"
)

// UserService is the admin account management surface. Every mutating
// operation requires the ADMIN role.
type UserService struct {
	repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

type UserInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

var validRoles = map[string]bool{
	entity.RoleAdmin:     true,
	entity.RoleManager:   true,
	entity.RoleUser:      true,
	entity.RoleEstimator: true,
	entity.RoleViewer:    true,
}

func (s *UserService) List(ctx context.Context, caller Caller) ([]entity.User, error) {
	if caller.Role != entity.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx)
}

// Estimators lists the users assignable as a bid's estimator. Any
// authenticated caller may read it; the bid form needs it.
func (s *UserService) Estimators(ctx context.Context) ([]entity.UserRef, error) {
	users, err := s.repo.ListEstimators(ctx)
	if err != nil {
		return nil, fmt.Errorf("list estimators: %w", err)
	}
	refs := make([]entity.UserRef, 0, len(users))
	for i := range users {
		refs = append(refs, *users[i].Ref())
	}
	return refs, nil
}

func (s *UserService) Create(ctx context.Context, caller Caller, in *UserInput) (*entity.User, error) {
	if caller.Role != entity.RoleAdmin {
		return nil, ErrForbidden
	}

	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" {
		return nil, validationErrorf("name and email are required")
	}
	if len(in.Password) < 8 {
		return nil, validationErrorf("password must be at least 8 characters")
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !validRoles[role] {
		return nil, validationErrorf("unknown role: " + role)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, &ConflictError{Msg: "a user with this email already exists"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, caller Caller, id uint, in *UserInput) (*entity.User, error) {
	if caller.Role != entity.RoleAdmin {
		return nil, ErrForbidden
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" && email != user.Email {
		if _, err := s.repo.FindByEmail(ctx, email); err == nil {
			return nil, &ConflictError{Msg: "a user with this email already exists"}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		}
		user.Email = email
	}
	if in.Role != "" {
		if !validRoles[in.Role] {
			return nil, validationErrorf("unknown role: " + in.Role)
		}
		user.Role = in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// ChangePassword sets a new password for the target account. Admins may set
// anyone's; other callers only their own.
func (s *UserService) ChangePassword(ctx context.Context, caller Caller, id uint, newPassword string) error {
	if caller.Role != entity.RoleAdmin && caller.ID != id {
		return ErrForbidden
	}
	if len(newPassword) < 8 {
		return validationErrorf("password must be at least 8 characters")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// Delete removes an account. Admins cannot delete themselves, which keeps
// at least one working admin login around.
func (s *UserService) Delete(ctx context.Context, caller Caller, id uint) error {
	if caller.Role != entity.RoleAdmin {
		return ErrForbidden
	}
	if caller.ID == id {
		return validationErrorf("cannot delete your own account")
	}
	return s.repo.Delete(ctx, id)
}
