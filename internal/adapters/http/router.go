package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/omEAGRAWAL/peercall/internal/adapters/signal"
	"github.com/omEAGRAWAL/peercall/internal/app"
	"github.com/omEAGRAWAL/peercall/internal/config"
)

// SetupRouter wires HTTP routes (static + REST + WS) to the coordinator.
func SetupRouter(ctx context.Context, cfg *config.Config, coord *app.Coordinator) (*gin.Engine, error) {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	// ICE catalogue is validated once at startup; clients fetch it
	// before creating their peer connections.
	iceServers, err := cfg.ICEServers()
	if err != nil {
		return nil, err
	}

	api := r.Group("/api")

	api.GET("/ice", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": iceServers})
	})

	api.GET("/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, coord.Registry.Snapshot())
	})

	ctl := signal.NewController(coord, cfg)
	api.GET("/ws/signal", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Msg("ws signal endpoint hit")
		ctl.HandleSignal(ctx, c)
	})

	return r, nil
}
