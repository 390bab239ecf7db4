package domain

import "time"

// Message es una copia de un mensaje lógico. Cada envío produce dos copias,
// una por participante; OwnerID indica a quién pertenece esta copia y
// PairedMessageID apunta a la copia gemela (referencia de lookup, sin ownership).
type Message struct {
	ID              string    `json:"id"`
	SenderID        string    `json:"sender_id"`
	ReceiverID      string    `json:"receiver_id"`
	OwnerID         string    `json:"owner_id"`
	PairedMessageID string    `json:"paired_message_id"`
	Body            string    `json:"body"`
	CreatedAt       time.Time `json:"created_at"`
}

// MessagePair agrupa las dos copias creadas por un envío.
type MessagePair struct {
	SenderCopy   Message `json:"sender_message"`
	ReceiverCopy Message `json:"receiver_message"`
}

// OtherParticipant devuelve el participante del intercambio que no es userID.
func (m Message) OtherParticipant(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}
