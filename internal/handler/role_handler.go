package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"zhiyu.io/assistantportal/internal/dto"
	"zhiyu.io/assistantportal/internal/service"
	"zhiyu.io/assistantportal/pkg/response"
	"zhiyu.io/assistantportal/pkg/validator"
)

type RoleHandler struct {
	roleService service.RoleService
}

func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
	}
}

func (h *RoleHandler) ListRoles(c *gin.Context) {
	var query dto.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}
	query.Normalize()

	data, err := h.roleService.ListRoles(c.Request.Context(), query.Page, query.PerPage)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "", data)
}

func (h *RoleHandler) CreateRole(c *gin.Context) {
	var input dto.CreateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), input.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "role created successfully", role)
}

func (h *RoleHandler) UpdateRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input dto.UpdateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	role, err := h.roleService.UpdateRole(c.Request.Context(), id, input.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "role updated successfully", role)
}

func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.roleService.DeleteRole(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "role deleted successfully", nil)
}

func (h *RoleHandler) GetRolePermissions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	data, err := h.roleService.GrantedAssistants(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "", data)
}

func (h *RoleHandler) AddRolePermission(c *gin.Context) {
	var input dto.RoleGrantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	if err := h.roleService.Grant(c.Request.Context(), input.RoleID, input.AssistantID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "authorization granted", nil)
}

func (h *RoleHandler) RemoveRolePermission(c *gin.Context) {
	var input dto.RoleGrantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	if err := h.roleService.Revoke(c.Request.Context(), input.RoleID, input.AssistantID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "authorization revoked", nil)
}
