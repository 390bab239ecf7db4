package domain

import "time"

// Conversation indexa las copias de mensajes de un par no ordenado de usuarios.
// La clave del par se normaliza (menor/mayor) para que exista a lo sumo una
// conversación por par. Se crea de forma lazy en el primer envío y nunca se borra.
type Conversation struct {
	ID           string    `json:"id"`
	ParticipantA string    `json:"participant_a"`
	ParticipantB string    `json:"participant_b"`
	CreatedAt    time.Time `json:"created_at"`
}

// NormalizePair ordena el par de identidades para obtener una clave estable.
func NormalizePair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// HasParticipant indica si userID pertenece a la conversación.
func (c Conversation) HasParticipant(userID string) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}
