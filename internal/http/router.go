package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pairchat/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	adminToken string,
	authH *AuthHandler,
	msgH *MessageHandler,
	wsH *WSHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	auth := r.Group("/auth")
	auth.POST("/signup", authH.Signup)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)
	auth.POST("/logout", authH.Logout)

	messages := r.Group("/messages", JWTAuthMiddleware(jwtSvc))
	messages.GET("/:id", msgH.List)
	messages.POST("/send/:id", msgH.Send)
	messages.DELETE("/delete/:id", msgH.Delete)

	admin := r.Group("/admin", AdminAuthMiddleware(adminToken))
	admin.DELETE("/messages/:id", msgH.AdminDelete)

	r.GET("/ws", JWTAuthMiddleware(jwtSvc), wsH.Connect)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
