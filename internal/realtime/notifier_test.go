package realtime

import (
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestNotifierPush_DeliversEnvelope(t *testing.T) {
	registry := NewRegistry()
	ch := &fakeChannel{}
	registry.Register("u2", ch)

	notifier := NewNotifier(zap.NewNop(), registry)
	notifier.Push("u2", EventNewMessage, map[string]string{"id": "m1"})

	if len(ch.payloads) != 1 {
		t.Fatalf("expected one payload, got %d", len(ch.payloads))
	}

	var ev struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(ch.payloads[0], &ev); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if ev.Event != "newMessage" {
		t.Fatalf("unexpected event %q", ev.Event)
	}
	var data map[string]string
	if err := json.Unmarshal(ev.Data, &data); err != nil || data["id"] != "m1" {
		t.Fatalf("unexpected data: %s (%v)", ev.Data, err)
	}
}

func TestNotifierPush_NoopWhenOffline(t *testing.T) {
	notifier := NewNotifier(zap.NewNop(), NewRegistry())
	// No hay canal registrado: no debe entrar en pánico ni bloquear.
	notifier.Push("u9", EventMessageDeleted, "m1")
}

func TestNotifierPush_SwallowsSendFailure(t *testing.T) {
	registry := NewRegistry()
	ch := &fakeChannel{sendErr: errors.New("buffer full")}
	registry.Register("u2", ch)

	notifier := NewNotifier(zap.NewNop(), registry)
	notifier.Push("u2", EventNewMessage, "payload")
	// El fallo de entrega se registra y se descarta.
}
