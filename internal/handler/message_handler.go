package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniapply/uniapply-api/internal/service"
	appErrors "github.com/uniapply/uniapply-api/pkg/errors"
	"github.com/uniapply/uniapply-api/pkg/response"
)

// MessageHandler exposes per-application conversation endpoints.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler constructs MessageHandler.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// List godoc
// @Summary List application messages
// @Tags Messages
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /applications/{id}/messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	messages, err := h.messages.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages)
}

// Post godoc
// @Summary Post an application message
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body service.PostMessageRequest true "Message payload"
// @Success 201 {object} response.Envelope
// @Router /applications/{id}/messages [post]
func (h *MessageHandler) Post(c *gin.Context) {
	var req service.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "sender and message required"))
		return
	}
	msg, err := h.messages.Post(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}
