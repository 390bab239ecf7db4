package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pairchat/internal/domain"
)

// MessageRepository define el contrato de persistencia para copias de mensajes.
// El orden de inserción en una conversación se conserva en la tabla índice
// conversation_messages.
type MessageRepository interface {
	// CreatePair inserta ambas copias y sus entradas de índice en una sola
	// transacción: o todas las escrituras quedan, o ninguna.
	CreatePair(ctx context.Context, conversationID string, senderCopy, receiverCopy domain.Message) error
	GetByID(ctx context.Context, id string) (domain.Message, error)
	ListOwned(ctx context.Context, conversationID, ownerID string) ([]domain.Message, error)
	// DeleteFromConversation borra la copia y su entrada en el índice de la
	// conversación, sin tocar la copia gemela.
	DeleteFromConversation(ctx context.Context, conversationID, messageID string) error
	// DeleteByID borra solo la copia; no actualiza índices de conversación.
	DeleteByID(ctx context.Context, id string) error
}

// PgMessageRepository implementa MessageRepository usando pgxpool.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

const insertMessageQuery = `
	INSERT INTO messages (id, sender_id, receiver_id, owner_id, paired_message_id, body, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

const appendIndexQuery = `
	INSERT INTO conversation_messages (conversation_id, message_id)
	VALUES ($1, $2)
`

func (r *PgMessageRepository) CreatePair(ctx context.Context, conversationID string, senderCopy, receiverCopy domain.Message) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, msg := range []domain.Message{senderCopy, receiverCopy} {
		_, err = tx.Exec(ctx, insertMessageQuery,
			msg.ID,
			msg.SenderID,
			msg.ReceiverID,
			msg.OwnerID,
			msg.PairedMessageID,
			msg.Body,
			msg.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	// Copia del emisor primero para conservar el orden de inserción.
	for _, id := range []string{senderCopy.ID, receiverCopy.ID} {
		if _, err = tx.Exec(ctx, appendIndexQuery, conversationID, id); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PgMessageRepository) GetByID(ctx context.Context, id string) (domain.Message, error) {
	const query = `
		SELECT id, sender_id, receiver_id, owner_id, paired_message_id, body, created_at
		FROM messages
		WHERE id = $1
	`
	var m domain.Message
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.SenderID,
		&m.ReceiverID,
		&m.OwnerID,
		&m.PairedMessageID,
		&m.Body,
		&m.CreatedAt,
	)
	if err != nil {
		return domain.Message{}, err
	}
	return m, nil
}

func (r *PgMessageRepository) ListOwned(ctx context.Context, conversationID, ownerID string) ([]domain.Message, error) {
	// Orden por fecha de creación; empates se resuelven por orden de inserción
	// en el índice (position es un bigserial).
	const query = `
		SELECT m.id, m.sender_id, m.receiver_id, m.owner_id, m.paired_message_id, m.body, m.created_at
		FROM conversation_messages cm
		JOIN messages m ON m.id = cm.message_id
		WHERE cm.conversation_id = $1 AND m.owner_id = $2
		ORDER BY m.created_at ASC, cm.position ASC
	`

	rows, err := r.pool.Query(ctx, query, conversationID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		err = rows.Scan(
			&m.ID,
			&m.SenderID,
			&m.ReceiverID,
			&m.OwnerID,
			&m.PairedMessageID,
			&m.Body,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *PgMessageRepository) DeleteFromConversation(ctx context.Context, conversationID, messageID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const removeIndex = `
		DELETE FROM conversation_messages
		WHERE conversation_id = $1 AND message_id = $2
	`
	if _, err = tx.Exec(ctx, removeIndex, conversationID, messageID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM messages WHERE id = $1`, messageID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func (r *PgMessageRepository) DeleteByID(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
