package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"pairchat/internal/domain"
)

// ConversationRepository define el contrato de persistencia para conversaciones.
// La clave es el par no ordenado de participantes; los lookups devuelven
// pgx.ErrNoRows cuando no existe conversación para el par.
type ConversationRepository interface {
	FindByParticipants(ctx context.Context, userA, userB string) (domain.Conversation, error)
	GetOrCreate(ctx context.Context, userA, userB string) (domain.Conversation, error)
	FindByMessageID(ctx context.Context, messageID string) (domain.Conversation, error)
}

// PgConversationRepository implementa ConversationRepository usando pgxpool.
type PgConversationRepository struct {
	pool *pgxpool.Pool
}

func NewPgConversationRepository(pool *pgxpool.Pool) *PgConversationRepository {
	return &PgConversationRepository{pool: pool}
}

func (r *PgConversationRepository) FindByParticipants(ctx context.Context, userA, userB string) (domain.Conversation, error) {
	low, high := domain.NormalizePair(userA, userB)
	const query = `
		SELECT id, participant_low, participant_high, created_at
		FROM conversations
		WHERE participant_low = $1 AND participant_high = $2
	`
	var c domain.Conversation
	err := r.pool.QueryRow(ctx, query, low, high).Scan(
		&c.ID,
		&c.ParticipantA,
		&c.ParticipantB,
		&c.CreatedAt,
	)
	if err != nil {
		return domain.Conversation{}, err
	}
	return c, nil
}

// GetOrCreate busca la conversación del par y la crea si no existe. El unique
// sobre (participant_low, participant_high) más ON CONFLICT DO NOTHING absorbe
// la carrera entre dos envíos concurrentes del mismo par: ambos terminan
// leyendo la misma fila.
func (r *PgConversationRepository) GetOrCreate(ctx context.Context, userA, userB string) (domain.Conversation, error) {
	low, high := domain.NormalizePair(userA, userB)
	const insert = `
		INSERT INTO conversations (id, participant_low, participant_high, created_at)
		VALUES (gen_random_uuid(), $1, $2, now())
		ON CONFLICT (participant_low, participant_high) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, insert, low, high); err != nil {
		return domain.Conversation{}, err
	}
	return r.FindByParticipants(ctx, low, high)
}

// FindByMessageID localiza la conversación cuyo índice contiene la copia.
func (r *PgConversationRepository) FindByMessageID(ctx context.Context, messageID string) (domain.Conversation, error) {
	const query = `
		SELECT c.id, c.participant_low, c.participant_high, c.created_at
		FROM conversations c
		JOIN conversation_messages cm ON cm.conversation_id = c.id
		WHERE cm.message_id = $1
	`
	var c domain.Conversation
	err := r.pool.QueryRow(ctx, query, messageID).Scan(
		&c.ID,
		&c.ParticipantA,
		&c.ParticipantB,
		&c.CreatedAt,
	)
	if err != nil {
		return domain.Conversation{}, err
	}
	return c, nil
}
