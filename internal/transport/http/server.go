package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/okcomputer/watchtogether-server/internal/config"
	"github.com/okcomputer/watchtogether-server/internal/core"
)

// NewServer builds the HTTP server: status root, health, the read-only room
// API, and the WebSocket gateway.
func NewServer(hub *core.Hub, reg *core.Registry, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(LoggerMiddleware(logger), gin.Recovery())

	roomHandlers := NewRoomHandlers(reg, logger)
	engine.GET("/", roomHandlers.Status)
	engine.GET("/health", healthHandler)
	engine.GET("/api/rooms", roomHandlers.ListRooms)
	engine.GET("/api/rooms/:id", roomHandlers.GetRoom)
	engine.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg, logger)))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.CORSOrigin},
		AllowedMethods: []string{stdhttp.MethodGet, stdhttp.MethodPost},
	})

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           corsHandler.Handler(engine),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
