package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pairchat/internal/service"
)

// MessageHandler mantiene dependencias para endpoints de mensajería.
type MessageHandler struct {
	logger   *zap.Logger
	chatServ *service.ChatService
}

func NewMessageHandler(logger *zap.Logger, chatServ *service.ChatService) *MessageHandler {
	return &MessageHandler{
		logger:   logger,
		chatServ: chatServ,
	}
}

// Send maneja POST /messages/send/:id. El :id es el receptor; el emisor sale
// de los claims. Devuelve ambas copias: el cliente del emisor renderiza la
// suya, la del receptor viaja por el canal en vivo.
func (h *MessageHandler) Send(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid send message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	pair, err := h.chatServ.Send(c.Request.Context(), claims.UserID, c.Param("id"), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChatInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message"})
		case errors.Is(err, service.ErrSendRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many messages"})
		default:
			h.logger.Error("send message failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send message"})
		}
		return
	}

	c.JSON(http.StatusCreated, pair)
}

// List maneja GET /messages/:id. Devuelve solo las copias del solicitante en
// la conversación con :id; un par sin historial responde lista vacía.
func (h *MessageHandler) List(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	messages, err := h.chatServ.ListOwned(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrChatInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		h.logger.Error("list messages failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// Delete maneja DELETE /messages/delete/:id. Solo el dueño de la copia puede
// borrarla; la copia gemela del otro participante no se toca.
func (h *MessageHandler) Delete(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	messageID, err := h.chatServ.DeleteOwned(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChatInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		case errors.Is(err, service.ErrMessageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		case errors.Is(err, service.ErrMessageForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized to delete this message"})
		default:
			h.logger.Error("delete message failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete message"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message_id": messageID})
}

// AdminDelete maneja DELETE /admin/messages/:id: borrado por id sin chequeo
// de ownership ni actualización del índice de conversación.
func (h *MessageHandler) AdminDelete(c *gin.Context) {
	err := h.chatServ.DeleteByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChatInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		case errors.Is(err, service.ErrMessageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		default:
			h.logger.Error("admin delete message failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete message"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "message deleted successfully"})
}
