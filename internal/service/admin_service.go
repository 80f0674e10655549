package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"zhiyu.io/assistantportal/internal/dto"
	"zhiyu.io/assistantportal/internal/model"
	"zhiyu.io/assistantportal/internal/repository"
)

// DefaultPassword is assigned when the admin creates a user without one.
const DefaultPassword = "DefaultPassword123!"

type AdminService interface {
	CreateUser(ctx context.Context, input dto.CreateUserInput) (*model.User, error)
	ListUsers(ctx context.Context, page, perPage int) (*dto.UserListData, error)
	UpdateUser(ctx context.Context, id uint, input dto.UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) error
	GetUserRoles(ctx context.Context, userID uint) ([]model.Role, error)
	ReplaceUserRoles(ctx context.Context, userID uint, roleIDs []uint) error
}

type adminService struct {
	users repository.UserRepository
	roles repository.RoleRepository
}

func NewAdminService(users repository.UserRepository, roles repository.RoleRepository) AdminService {
	return &adminService{
		users: users,
		roles: roles,
	}
}

// CreateUser creates the user and its role associations in one atomic unit:
// an invalid role id rolls back the user insert as well.
func (s *adminService) CreateUser(ctx context.Context, input dto.CreateUserInput) (*model.User, error) {
	if err := s.ensureUserUnique(ctx, input.Username, input.Email, 0); err != nil {
		return nil, err
	}

	roleIDs, err := s.requireRoles(ctx, input.RoleIDs)
	if err != nil {
		return nil, err
	}

	password := input.Password
	if password == "" {
		password = DefaultPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     input.Username,
		RealName:     input.RealName,
		Email:        input.Email,
		PasswordHash: string(hashed),
	}

	if err := s.users.Create(ctx, user, roleIDs); err != nil {
		return nil, translateStoreError(err, "user")
	}

	created, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *adminService) ListUsers(ctx context.Context, page, perPage int) (*dto.UserListData, error) {
	users, total, err := s.users.List(ctx, page, perPage)
	if err != nil {
		return nil, err
	}

	if users == nil {
		users = []model.User{}
	}

	return &dto.UserListData{
		Users:      users,
		Pagination: dto.NewPaginationMeta(page, perPage, total),
	}, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id uint, input dto.UpdateUserInput) (*model.User, error) {
	if input.Username == nil && input.RealName == nil && input.Email == nil {
		return nil, invalidInput("no updatable fields provided")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "user")
	}

	if input.Username != nil && *input.Username != user.Username {
		if err := s.ensureUsernameFree(ctx, *input.Username, id); err != nil {
			return nil, err
		}
		user.Username = *input.Username
	}

	if input.Email != nil && *input.Email != user.Email {
		if err := s.ensureEmailFree(ctx, *input.Email, id); err != nil {
			return nil, err
		}
		user.Email = *input.Email
	}

	if input.RealName != nil {
		user.RealName = *input.RealName
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, translateStoreError(err, "user")
	}

	return user, nil
}

func (s *adminService) DeleteUser(ctx context.Context, id uint) error {
	return translateStoreError(s.users.Delete(ctx, id), "user")
}

func (s *adminService) GetUserRoles(ctx context.Context, userID uint) ([]model.Role, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, translateStoreError(err, "user")
	}

	roles, err := s.users.GetRoles(ctx, userID)
	if err != nil {
		return nil, err
	}

	if roles == nil {
		roles = []model.Role{}
	}

	return roles, nil
}

// ReplaceUserRoles swaps the user's association set. The whole operation
// fails with NotFound when any requested role id does not exist; a partial
// failure leaves the prior set unchanged.
func (s *adminService) ReplaceUserRoles(ctx context.Context, userID uint, roleIDs []uint) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return translateStoreError(err, "user")
	}

	ids, err := s.requireRoles(ctx, roleIDs)
	if err != nil {
		return err
	}

	return s.users.ReplaceRoles(ctx, userID, ids)
}

// requireRoles dedupes the requested ids and verifies every one exists.
func (s *adminService) requireRoles(ctx context.Context, roleIDs []uint) ([]uint, error) {
	ids := dedupeIDs(roleIDs)
	if len(ids) == 0 {
		return ids, nil
	}

	found, err := s.roles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	if len(found) != len(ids) {
		return nil, notFound("one or more roles not found")
	}

	return ids, nil
}

func (s *adminService) ensureUserUnique(ctx context.Context, username, email string, excludeID uint) error {
	if err := s.ensureUsernameFree(ctx, username, excludeID); err != nil {
		return err
	}
	return s.ensureEmailFree(ctx, email, excludeID)
}

func (s *adminService) ensureUsernameFree(ctx context.Context, username string, excludeID uint) error {
	existing, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		if existing.ID != excludeID {
			return duplicate("username already taken")
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (s *adminService) ensureEmailFree(ctx context.Context, email string, excludeID uint) error {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		if existing.ID != excludeID {
			return duplicate("email already registered")
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}
