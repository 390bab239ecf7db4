package realtime

import "sync"

// Channel es el destino de entrega en vivo de un usuario conectado.
type Channel interface {
	Send(payload []byte) error
	Close()
}

// Registry mantiene el canal activo por identidad de usuario. A lo sumo un
// canal por usuario: registrar de nuevo reemplaza (y cierra) el anterior,
// last-write-wins. Seguro para uso concurrente.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]Channel
}

func NewRegistry() *Registry {
	return &Registry{channels: make(map[string]Channel)}
}

// Register asocia el canal al usuario, reemplazando el existente si lo hay.
func (r *Registry) Register(userID string, ch Channel) {
	r.mu.Lock()
	prev := r.channels[userID]
	r.channels[userID] = ch
	r.mu.Unlock()

	if prev != nil && prev != ch {
		prev.Close()
	}
}

// Unregister elimina la entrada del usuario solo si sigue apuntando a ch;
// así un register/unregister cruzado no tira la conexión de reemplazo.
func (r *Registry) Unregister(userID string, ch Channel) {
	r.mu.Lock()
	if r.channels[userID] == ch {
		delete(r.channels, userID)
	}
	r.mu.Unlock()
}

// Lookup devuelve el canal activo del usuario, si está conectado.
func (r *Registry) Lookup(userID string) (Channel, bool) {
	r.mu.RLock()
	ch, ok := r.channels[userID]
	r.mu.RUnlock()
	return ch, ok
}

// Shutdown cierra todos los canales registrados y vacía el registro.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	channels := r.channels
	r.channels = make(map[string]Channel)
	r.mu.Unlock()

	for _, ch := range channels {
		ch.Close()
	}
}
