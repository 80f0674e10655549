package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"zhiyu.io/assistantportal/internal/dto"
	"zhiyu.io/assistantportal/internal/model"
	"zhiyu.io/assistantportal/internal/repository"
)

type RoleService interface {
	CreateRole(ctx context.Context, name string) (*model.Role, error)
	UpdateRole(ctx context.Context, id uint, name string) (*model.Role, error)
	DeleteRole(ctx context.Context, id uint) error
	ListRoles(ctx context.Context, page, perPage int) (*dto.RoleListData, error)
	GrantedAssistants(ctx context.Context, roleID uint) (*dto.RolePermissionsData, error)
	Grant(ctx context.Context, roleID, assistantID uint) error
	Revoke(ctx context.Context, roleID, assistantID uint) error
}

type roleService struct {
	roles      repository.RoleRepository
	assistants repository.AssistantRepository
}

func NewRoleService(roles repository.RoleRepository, assistants repository.AssistantRepository) RoleService {
	return &roleService{
		roles:      roles,
		assistants: assistants,
	}
}

// CreateRole stores the trimmed name; the comparison against existing roles
// is exact and case-sensitive.
func (s *roleService) CreateRole(ctx context.Context, name string) (*model.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("role name must not be empty")
	}

	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	role := &model.Role{Name: name}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, translateStoreError(err, "role name")
	}

	return role, nil
}

func (s *roleService) UpdateRole(ctx context.Context, id uint, name string) (*model.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("role name must not be empty")
	}

	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "role")
	}

	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	role.Name = name
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, translateStoreError(err, "role name")
	}

	return role, nil
}

func (s *roleService) DeleteRole(ctx context.Context, id uint) error {
	return translateStoreError(s.roles.Delete(ctx, id), "role")
}

func (s *roleService) ListRoles(ctx context.Context, page, perPage int) (*dto.RoleListData, error) {
	roles, total, err := s.roles.List(ctx, page, perPage)
	if err != nil {
		return nil, err
	}

	if roles == nil {
		roles = []model.Role{}
	}

	return &dto.RoleListData{
		Roles:      roles,
		Pagination: dto.NewPaginationMeta(page, perPage, total),
	}, nil
}

func (s *roleService) GrantedAssistants(ctx context.Context, roleID uint) (*dto.RolePermissionsData, error) {
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return nil, translateStoreError(err, "role")
	}

	ids, err := s.roles.GrantedAssistantIDs(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if ids == nil {
		ids = []uint{}
	}

	return &dto.RolePermissionsData{
		RoleID:           roleID,
		AuthorizedAppIDs: ids,
	}, nil
}

// Grant authorizes an assistant for a role. Granting an existing pair is a
// successful no-op.
func (s *roleService) Grant(ctx context.Context, roleID, assistantID uint) error {
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return translateStoreError(err, "role")
	}

	if _, err := s.assistants.FindByID(ctx, assistantID); err != nil {
		return translateStoreError(err, "assistant")
	}

	return s.roles.Grant(ctx, roleID, assistantID)
}

// Revoke removes an authorization. Revoking a missing pair is a successful
// no-op.
func (s *roleService) Revoke(ctx context.Context, roleID, assistantID uint) error {
	return s.roles.Revoke(ctx, roleID, assistantID)
}

func (s *roleService) ensureNameFree(ctx context.Context, name string, excludeID uint) error {
	existing, err := s.roles.FindByName(ctx, name)
	if err == nil {
		if existing.ID != excludeID {
			return duplicate("role name already exists")
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}
