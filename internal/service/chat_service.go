package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"pairchat/internal/domain"
	"pairchat/internal/realtime"
	"pairchat/internal/repository"
)

// ChatService orquesta el fanout de mensajes: cada envío lógico se materializa
// como dos copias independientes, una por participante, emparejadas por
// referencia. Borrar una copia nunca toca la gemela.
type ChatService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	pusher        realtime.Pusher
	limiter       SendRateLimiter
	logger        *zap.Logger
}

var (
	ErrChatServiceNotConfigured = errors.New("chat service not configured")
	ErrChatInvalidInput         = errors.New("chat invalid input")
	ErrMessageNotFound          = errors.New("message not found")
	ErrMessageForbidden         = errors.New("message not owned by requester")
	ErrSendRateLimited          = errors.New("send rate limited")
)

func NewChatService(
	logger *zap.Logger,
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	pusher realtime.Pusher,
	limiter SendRateLimiter,
) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		pusher:        pusher,
		limiter:       limiter,
		logger:        logger,
	}
}

// Send crea las dos copias del mensaje, las indexa en la conversación del par
// (creada lazy si es el primer intercambio) y empuja la copia del receptor a
// su canal en vivo si está conectado. El push es best-effort: nunca falla el
// envío ya persistido.
func (s *ChatService) Send(ctx context.Context, senderID, receiverID, body string) (domain.MessagePair, error) {
	if s == nil || s.conversations == nil || s.messages == nil {
		return domain.MessagePair{}, ErrChatServiceNotConfigured
	}

	senderID = strings.TrimSpace(senderID)
	receiverID = strings.TrimSpace(receiverID)
	body = strings.TrimSpace(body)

	if senderID == "" || receiverID == "" || body == "" {
		return domain.MessagePair{}, ErrChatInvalidInput
	}
	if senderID == receiverID {
		return domain.MessagePair{}, ErrChatInvalidInput
	}
	if s.limiter != nil && !s.limiter.Allow(senderID) {
		return domain.MessagePair{}, ErrSendRateLimited
	}

	conv, err := s.conversations.GetOrCreate(ctx, senderID, receiverID)
	if err != nil {
		return domain.MessagePair{}, err
	}

	now := time.Now().UTC()
	senderCopyID := uuid.NewString()
	receiverCopyID := uuid.NewString()

	senderCopy := domain.Message{
		ID:              senderCopyID,
		SenderID:        senderID,
		ReceiverID:      receiverID,
		OwnerID:         senderID,
		PairedMessageID: receiverCopyID,
		Body:            body,
		CreatedAt:       now,
	}
	receiverCopy := domain.Message{
		ID:              receiverCopyID,
		SenderID:        senderID,
		ReceiverID:      receiverID,
		OwnerID:         receiverID,
		PairedMessageID: senderCopyID,
		Body:            body,
		CreatedAt:       now,
	}

	if err := s.messages.CreatePair(ctx, conv.ID, senderCopy, receiverCopy); err != nil {
		return domain.MessagePair{}, err
	}

	if s.pusher != nil {
		s.pusher.Push(receiverID, realtime.EventNewMessage, receiverCopy)
	}

	return domain.MessagePair{SenderCopy: senderCopy, ReceiverCopy: receiverCopy}, nil
}

// ListOwned devuelve las copias del solicitante en la conversación con peer,
// ordenadas por fecha de creación. Este filtro por owner es la frontera de
// privacidad: nunca se devuelve la copia del otro participante. Un par sin
// conversación es un estado inicial válido, no un error.
func (s *ChatService) ListOwned(ctx context.Context, requesterID, peerID string) ([]domain.Message, error) {
	if s == nil || s.conversations == nil || s.messages == nil {
		return nil, ErrChatServiceNotConfigured
	}

	requesterID = strings.TrimSpace(requesterID)
	peerID = strings.TrimSpace(peerID)
	if requesterID == "" || peerID == "" {
		return nil, ErrChatInvalidInput
	}

	conv, err := s.conversations.FindByParticipants(ctx, requesterID, peerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return []domain.Message{}, nil
	}
	if err != nil {
		return nil, err
	}

	messages, err := s.messages.ListOwned(ctx, conv.ID, requesterID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// DeleteOwned borra la copia del solicitante y la saca del índice de su
// conversación. La copia gemela queda intacta. Al otro participante se le
// avisa por su canal en vivo para que descarte la referencia de render.
func (s *ChatService) DeleteOwned(ctx context.Context, requesterID, messageID string) (string, error) {
	if s == nil || s.conversations == nil || s.messages == nil {
		return "", ErrChatServiceNotConfigured
	}

	requesterID = strings.TrimSpace(requesterID)
	messageID = strings.TrimSpace(messageID)
	if requesterID == "" || messageID == "" {
		return "", ErrChatInvalidInput
	}

	msg, err := s.messages.GetByID(ctx, messageID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrMessageNotFound
	}
	if err != nil {
		return "", err
	}

	if msg.OwnerID != requesterID {
		return "", ErrMessageForbidden
	}

	conv, err := s.conversations.FindByMessageID(ctx, messageID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// Copia sin entrada de índice (p. ej. borrado administrativo previo
		// dejó el índice desalineado); se borra solo el registro.
		if err := s.messages.DeleteByID(ctx, messageID); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return "", err
		}
	case err != nil:
		return "", err
	default:
		if err := s.messages.DeleteFromConversation(ctx, conv.ID, messageID); err != nil {
			return "", err
		}
	}

	if s.pusher != nil {
		s.pusher.Push(msg.OtherParticipant(requesterID), realtime.EventMessageDeleted, messageID)
	}

	return messageID, nil
}

// DeleteByID borra una copia por identificador sin chequeo de ownership, sin
// actualizar el índice de la conversación y sin notificar. Es el camino
// administrativo; la asimetría con DeleteOwned es intencional.
func (s *ChatService) DeleteByID(ctx context.Context, messageID string) error {
	if s == nil || s.messages == nil {
		return ErrChatServiceNotConfigured
	}

	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return ErrChatInvalidInput
	}

	err := s.messages.DeleteByID(ctx, messageID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrMessageNotFound
	}
	return err
}
