package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"zhiyu.io/assistantportal/internal/dto"
	"zhiyu.io/assistantportal/internal/service"
	"zhiyu.io/assistantportal/pkg/response"
	"zhiyu.io/assistantportal/pkg/validator"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Flat shape: the login page reads token and user directly.
	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input dto.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), input); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "password reset successful", nil)
}
