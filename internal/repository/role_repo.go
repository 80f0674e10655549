package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"zhiyu.io/assistantportal/internal/model"
)

type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	FindByID(ctx context.Context, id uint) (*model.Role, error)
	FindByName(ctx context.Context, name string) (*model.Role, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Role, error)
	Update(ctx context.Context, role *model.Role) error
	// Delete removes the role together with every user_roles and
	// role_assistants row referencing it.
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, page, perPage int) ([]model.Role, int64, error)
	GrantedAssistantIDs(ctx context.Context, roleID uint) ([]uint, error)
	// Grant is idempotent: inserting an existing pair is a no-op.
	Grant(ctx context.Context, roleID, assistantID uint) error
	// Revoke is idempotent: removing a missing pair is a no-op.
	Revoke(ctx context.Context, roleID, assistantID uint) error
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepository) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, err
	}

	return &role, nil
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}

	return &role, nil
}

func (r *roleRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Role, error) {
	var roles []model.Role
	if len(ids) == 0 {
		return roles, nil
	}

	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&roles).Error; err != nil {
		return nil, err
	}

	return roles, nil
}

func (r *roleRepository) Update(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

func (r *roleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&model.UserRole{}).Error; err != nil {
			return err
		}

		if err := tx.Where("role_id = ?", id).Delete(&model.RoleAssistant{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Role{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func (r *roleRepository) List(ctx context.Context, page, perPage int) ([]model.Role, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Role{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var roles []model.Role
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&roles).Error; err != nil {
		return nil, 0, err
	}

	return roles, total, nil
}

func (r *roleRepository) GrantedAssistantIDs(ctx context.Context, roleID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&model.RoleAssistant{}).
		Where("role_id = ?", roleID).
		Pluck("assistant_id", &ids).Error; err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *roleRepository) Grant(ctx context.Context, roleID, assistantID uint) error {
	link := model.RoleAssistant{RoleID: roleID, AssistantID: assistantID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link).Error
}

func (r *roleRepository) Revoke(ctx context.Context, roleID, assistantID uint) error {
	return r.db.WithContext(ctx).
		Where("role_id = ? AND assistant_id = ?", roleID, assistantID).
		Delete(&model.RoleAssistant{}).Error
}
