package realtime

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Eventos de entrega en vivo.
const (
	EventNewMessage     = "newMessage"
	EventMessageDeleted = "messageDeleted"
)

// Pusher es el canal de notificaciones fire-and-forget hacia clientes
// conectados. Nunca bloquea ni devuelve error: un fallo de entrega se registra
// y se descarta, el camino durable ya se completó.
type Pusher interface {
	Push(userID, event string, payload any)
}

// Event es el sobre JSON que viaja por el websocket.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Notifier implementa Pusher sobre el Registry.
type Notifier struct {
	logger   *zap.Logger
	registry *Registry
}

func NewNotifier(logger *zap.Logger, registry *Registry) *Notifier {
	return &Notifier{logger: logger, registry: registry}
}

func (n *Notifier) Push(userID, event string, payload any) {
	if n == nil || n.registry == nil {
		return
	}

	ch, ok := n.registry.Lookup(userID)
	if !ok {
		return
	}

	raw, err := json.Marshal(Event{Event: event, Data: payload})
	if err != nil {
		if n.logger != nil {
			n.logger.Warn("marshal push event failed", zap.String("event", event), zap.Error(err))
		}
		return
	}

	if err := ch.Send(raw); err != nil {
		if n.logger != nil {
			n.logger.Warn("push delivery failed",
				zap.String("user_id", userID),
				zap.String("event", event),
				zap.Error(err),
			)
		}
	}
}
