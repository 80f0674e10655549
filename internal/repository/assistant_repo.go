package repository

import (
	"context"

	"gorm.io/gorm"
	"zhiyu.io/assistantportal/internal/model"
)

type AssistantRepository interface {
	Create(ctx context.Context, assistant *model.Assistant) error
	FindByID(ctx context.Context, id uint) (*model.Assistant, error)
	FindByAssistantID(ctx context.Context, assistantID string) (*model.Assistant, error)
	Update(ctx context.Context, assistant *model.Assistant) error
	// Delete removes the assistant together with referencing role_assistants rows.
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, page, perPage int) ([]model.Assistant, int64, error)
	// FindGrantedByUserID runs the user -> roles -> assistants join. The result
	// may contain the same assistant once per granting role; callers dedupe.
	FindGrantedByUserID(ctx context.Context, userID uint) ([]model.Assistant, error)
}

type assistantRepository struct {
	db *gorm.DB
}

func NewAssistantRepository(db *gorm.DB) AssistantRepository {
	return &assistantRepository{db: db}
}

func (r *assistantRepository) Create(ctx context.Context, assistant *model.Assistant) error {
	return r.db.WithContext(ctx).Create(assistant).Error
}

func (r *assistantRepository) FindByID(ctx context.Context, id uint) (*model.Assistant, error) {
	var assistant model.Assistant
	if err := r.db.WithContext(ctx).First(&assistant, id).Error; err != nil {
		return nil, err
	}

	return &assistant, nil
}

func (r *assistantRepository) FindByAssistantID(ctx context.Context, assistantID string) (*model.Assistant, error) {
	var assistant model.Assistant
	if err := r.db.WithContext(ctx).
		Where("assistant_id = ?", assistantID).
		First(&assistant).Error; err != nil {
		return nil, err
	}

	return &assistant, nil
}

func (r *assistantRepository) Update(ctx context.Context, assistant *model.Assistant) error {
	return r.db.WithContext(ctx).Save(assistant).Error
}

func (r *assistantRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assistant_id = ?", id).Delete(&model.RoleAssistant{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Assistant{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func (r *assistantRepository) List(ctx context.Context, page, perPage int) ([]model.Assistant, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Assistant{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var assistants []model.Assistant
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&assistants).Error; err != nil {
		return nil, 0, err
	}

	return assistants, total, nil
}

func (r *assistantRepository) FindGrantedByUserID(ctx context.Context, userID uint) ([]model.Assistant, error) {
	var assistants []model.Assistant
	if err := r.db.WithContext(ctx).
		Joins("JOIN role_assistants ON role_assistants.assistant_id = assistants.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_assistants.role_id").
		Where("user_roles.user_id = ?", userID).
		Find(&assistants).Error; err != nil {
		return nil, err
	}

	return assistants, nil
}
