package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pairchat/internal/realtime"
)

// WSHandler expone el endpoint de entrega en vivo. Cada usuario autenticado
// mantiene a lo sumo una conexión registrada; conectarse de nuevo reemplaza
// la anterior.
type WSHandler struct {
	logger   *zap.Logger
	registry *realtime.Registry
	upgrader websocket.Upgrader
}

func NewWSHandler(logger *zap.Logger, registry *realtime.Registry) *WSHandler {
	return &WSHandler{
		logger:   logger,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
	}
}

// Connect maneja GET /ws (detrás del middleware JWT).
func (h *WSHandler) Connect(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := realtime.NewConn(claims.UserID, ws)
	conn.Start()
	h.registry.Register(claims.UserID, conn)
	h.logger.Info("websocket connected", zap.String("user_id", claims.UserID))

	// El canal es solo de salida: el read loop existe para detectar el cierre
	// y responder pings del cliente.
	go func() {
		defer func() {
			h.registry.Unregister(claims.UserID, conn)
			conn.Close()
			h.logger.Info("websocket disconnected", zap.String("user_id", claims.UserID))
		}()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
