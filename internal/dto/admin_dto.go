package dto

import "zhiyu.io/assistantportal/internal/model"

type CreateUserInput struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	RealName string `json:"real_name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"omitempty,min=8"`
	RoleIDs  []uint `json:"role_ids"`
}

// UpdateUserInput is a typed partial update: nil means "leave unchanged".
// Only these three fields may be changed through the admin console.
type UpdateUserInput struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	RealName *string `json:"real_name" binding:"omitempty,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

type ReplaceUserRolesInput struct {
	RoleIDs []uint `json:"role_ids"`
}

type CreateRoleInput struct {
	Name string `json:"name" binding:"required,max=50"`
}

type UpdateRoleInput struct {
	Name string `json:"name" binding:"required,max=50"`
}

// RoleGrantInput carries a (role, application) authorization pair.
// The json key app_id matches the admin frontend.
type RoleGrantInput struct {
	RoleID      uint `json:"role_id" binding:"required"`
	AssistantID uint `json:"app_id" binding:"required"`
}

type CreateAssistantInput struct {
	AssistantID string  `json:"assistant_id" binding:"required,max=100"`
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
	IconURL     *string `json:"icon_url"`
	Status      string  `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE active inactive"`
}

// UpdateAssistantInput is a typed partial update; nil means "leave unchanged".
type UpdateAssistantInput struct {
	AssistantID *string `json:"assistant_id" binding:"omitempty,max=100"`
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
	IconURL     *string `json:"icon_url"`
	Status      *string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE active inactive"`
}

type UserListData struct {
	Users      []model.User   `json:"users"`
	Pagination PaginationMeta `json:"pagination"`
}

type RoleListData struct {
	Roles      []model.Role   `json:"roles"`
	Pagination PaginationMeta `json:"pagination"`
}

type AssistantListData struct {
	Assistants []model.Assistant `json:"assistants"`
	Pagination PaginationMeta    `json:"pagination"`
}

type UserRolesData struct {
	Roles []model.Role `json:"roles"`
}

type RolePermissionsData struct {
	RoleID           uint   `json:"role_id"`
	AuthorizedAppIDs []uint `json:"authorized_app_ids"`
}

// AssistantSummary is what the resolver returns to the portal home page.
type AssistantSummary struct {
	AssistantID string  `json:"assistant_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IconURL     *string `json:"icon_url"`
}
