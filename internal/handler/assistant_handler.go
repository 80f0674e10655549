package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"zhiyu.io/assistantportal/internal/dto"
	"zhiyu.io/assistantportal/internal/service"
	"zhiyu.io/assistantportal/pkg/response"
	"zhiyu.io/assistantportal/pkg/validator"
)

type AssistantHandler struct {
	assistantService service.AssistantService
}

func NewAssistantHandler(assistantService service.AssistantService) *AssistantHandler {
	return &AssistantHandler{
		assistantService: assistantService,
	}
}

func (h *AssistantHandler) ListAssistants(c *gin.Context) {
	var query dto.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}
	query.Normalize()

	data, err := h.assistantService.ListAssistants(c.Request.Context(), query.Page, query.PerPage)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "", data)
}

func (h *AssistantHandler) CreateAssistant(c *gin.Context) {
	var input dto.CreateAssistantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	assistant, err := h.assistantService.CreateAssistant(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "assistant created successfully", assistant)
}

func (h *AssistantHandler) UpdateAssistant(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input dto.UpdateAssistantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	assistant, err := h.assistantService.UpdateAssistant(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "assistant updated successfully", assistant)
}

func (h *AssistantHandler) DeleteAssistant(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.assistantService.DeleteAssistant(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "assistant deleted successfully", nil)
}

// GetUserAssistants resolves which assistants the named user may open.
func (h *AssistantHandler) GetUserAssistants(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		response.BadRequest(c, "missing username parameter")
		return
	}

	assistants, err := h.assistantService.ResolveForUser(c.Request.Context(), username)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "", gin.H{"assistants": assistants})
}
