package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"zhiyu.io/assistantportal/internal/dto"
	"zhiyu.io/assistantportal/internal/service"
	"zhiyu.io/assistantportal/pkg/response"
	"zhiyu.io/assistantportal/pkg/validator"
)

type AdminUserHandler struct {
	adminService service.AdminService
}

func NewAdminUserHandler(adminService service.AdminService) *AdminUserHandler {
	return &AdminUserHandler{
		adminService: adminService,
	}
}

func (h *AdminUserHandler) CreateUser(c *gin.Context) {
	var input dto.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	user, err := h.adminService.CreateUser(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "user created successfully", user)
}

func (h *AdminUserHandler) ListUsers(c *gin.Context) {
	var query dto.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}
	query.Normalize()

	data, err := h.adminService.ListUsers(c.Request.Context(), query.Page, query.PerPage)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "", data)
}

func (h *AdminUserHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input dto.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	user, err := h.adminService.UpdateUser(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "user updated successfully", user)
}

func (h *AdminUserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "user deleted successfully", nil)
}

func (h *AdminUserHandler) GetUserRoles(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	roles, err := h.adminService.GetUserRoles(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "", dto.UserRolesData{Roles: roles})
}

func (h *AdminUserHandler) ReplaceUserRoles(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input dto.ReplaceUserRolesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	if err := h.adminService.ReplaceUserRoles(c.Request.Context(), id, input.RoleIDs); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "user roles updated successfully", nil)
}

// pathID parses the numeric :id parameter; on failure it writes the error
// response and returns false.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid id parameter")
		return 0, false
	}
	return uint(id), true
}
