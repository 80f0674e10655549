package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"
	"zhiyu.io/assistantportal/internal/dto"
	"zhiyu.io/assistantportal/internal/model"
	"zhiyu.io/assistantportal/internal/repository"
)

type AssistantService interface {
	CreateAssistant(ctx context.Context, input dto.CreateAssistantInput) (*model.Assistant, error)
	UpdateAssistant(ctx context.Context, id uint, input dto.UpdateAssistantInput) (*model.Assistant, error)
	DeleteAssistant(ctx context.Context, id uint) error
	ListAssistants(ctx context.Context, page, perPage int) (*dto.AssistantListData, error)
	ResolveForUser(ctx context.Context, username string) ([]dto.AssistantSummary, error)
}

type assistantService struct {
	assistants repository.AssistantRepository
	users      repository.UserRepository
}

func NewAssistantService(assistants repository.AssistantRepository, users repository.UserRepository) AssistantService {
	return &assistantService{
		assistants: assistants,
		users:      users,
	}
}

func (s *assistantService) CreateAssistant(ctx context.Context, input dto.CreateAssistantInput) (*model.Assistant, error) {
	if err := s.ensureExternalIDFree(ctx, input.AssistantID, 0); err != nil {
		return nil, err
	}

	assistant := &model.Assistant{
		AssistantID: input.AssistantID,
		Name:        input.Name,
		Description: input.Description,
		IconURL:     input.IconURL,
		Status:      normalizeStatus(input.Status),
	}

	if err := s.assistants.Create(ctx, assistant); err != nil {
		return nil, translateStoreError(err, "assistant id")
	}

	return assistant, nil
}

func (s *assistantService) UpdateAssistant(ctx context.Context, id uint, input dto.UpdateAssistantInput) (*model.Assistant, error) {
	if input.AssistantID == nil && input.Name == nil && input.Description == nil &&
		input.IconURL == nil && input.Status == nil {
		return nil, invalidInput("no updatable fields provided")
	}

	assistant, err := s.assistants.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "assistant")
	}

	if input.AssistantID != nil && *input.AssistantID != assistant.AssistantID {
		if err := s.ensureExternalIDFree(ctx, *input.AssistantID, id); err != nil {
			return nil, err
		}
		assistant.AssistantID = *input.AssistantID
	}

	if input.Name != nil {
		assistant.Name = *input.Name
	}
	if input.Description != nil {
		assistant.Description = input.Description
	}
	if input.IconURL != nil {
		assistant.IconURL = input.IconURL
	}
	if input.Status != nil {
		assistant.Status = normalizeStatus(*input.Status)
	}

	if err := s.assistants.Update(ctx, assistant); err != nil {
		return nil, translateStoreError(err, "assistant id")
	}

	return assistant, nil
}

func (s *assistantService) DeleteAssistant(ctx context.Context, id uint) error {
	return translateStoreError(s.assistants.Delete(ctx, id), "assistant")
}

func (s *assistantService) ListAssistants(ctx context.Context, page, perPage int) (*dto.AssistantListData, error) {
	assistants, total, err := s.assistants.List(ctx, page, perPage)
	if err != nil {
		return nil, err
	}

	if assistants == nil {
		assistants = []model.Assistant{}
	}

	return &dto.AssistantListData{
		Assistants: assistants,
		Pagination: dto.NewPaginationMeta(page, perPage, total),
	}, nil
}

// ResolveForUser answers "which assistants can this user open". A user may
// reach the same assistant through several roles; only active assistants
// count, each one once, ordered by ascending id. No roles or no active
// grants is a normal empty result, not an error.
func (s *assistantService) ResolveForUser(ctx context.Context, username string) ([]dto.AssistantSummary, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, translateStoreError(err, "user")
	}

	granted, err := s.assistants.FindGrantedByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(granted))
	active := make([]model.Assistant, 0, len(granted))
	for _, a := range granted {
		if a.Status != model.AssistantStatusActive {
			continue
		}
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		active = append(active, a)
	}

	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })

	summaries := make([]dto.AssistantSummary, 0, len(active))
	for _, a := range active {
		summaries = append(summaries, dto.AssistantSummary{
			AssistantID: a.AssistantID,
			Name:        a.Name,
			Description: a.Description,
			IconURL:     a.IconURL,
		})
	}

	return summaries, nil
}

func (s *assistantService) ensureExternalIDFree(ctx context.Context, assistantID string, excludeID uint) error {
	existing, err := s.assistants.FindByAssistantID(ctx, assistantID)
	if err == nil {
		if existing.ID != excludeID {
			return duplicate("assistant id already in use")
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func normalizeStatus(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "", model.AssistantStatusActive:
		return model.AssistantStatusActive
	default:
		return model.AssistantStatusInactive
	}
}
