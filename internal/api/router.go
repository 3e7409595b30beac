package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/conversa/internal/api/handlers"
	"github.com/your-org/conversa/internal/api/ws"
	"github.com/your-org/conversa/internal/auth"
	"github.com/your-org/conversa/internal/conversations"
	"github.com/your-org/conversa/internal/people"
	"github.com/your-org/conversa/internal/queue"
	"github.com/your-org/conversa/internal/storage"
)

type RouterConfig struct {
	APIKey      string
	CORSOrigins []string
	Store       storage.Store
	MinIO       *storage.MinIOStore
	Producer    *queue.Producer
	Hub         *ws.Hub
	People      *people.Service
	Convs       *conversations.Service
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	if len(cfg.CORSOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
		corsCfg.AddAllowHeaders("X-API-Key")
		r.Use(cors.New(corsCfg))
	} else {
		r.Use(cors.Default())
	}

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.Store, cfg.MinIO, cfg.Producer)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var events handlers.EventPublisher
	if cfg.Producer != nil {
		events = cfg.Producer
	}

	// API v1 (with auth)
	v1 := r.Group("/api/v1")
	v1.Use(auth.APIKeyMiddleware(cfg.APIKey))

	// WebSocket
	if cfg.Hub != nil {
		v1.GET("/ws", cfg.Hub.HandleWS)
	}

	// People
	peopleH := handlers.NewPeopleHandler(cfg.People, events)
	v1.GET("/people", peopleH.List)
	v1.POST("/people", peopleH.Create)
	v1.GET("/people/:id", peopleH.Get)
	v1.PUT("/people/:id", peopleH.Update)
	v1.DELETE("/people/:id", peopleH.Delete)
	v1.GET("/people/:id/thumbnail", peopleH.Thumbnail)
	v1.POST("/people/match", peopleH.Match)

	// Conversations & action items
	convH := handlers.NewConversationsHandler(cfg.Convs, events)
	v1.GET("/conversations", convH.List)
	v1.POST("/conversations", convH.Create)
	v1.GET("/conversations/:id", convH.Get)
	v1.PUT("/conversations/:id", convH.Update)
	v1.DELETE("/conversations/:id", convH.Delete)
	v1.PATCH("/conversations/:id/action-items/:itemId", convH.UpdateActionItem)

	return r
}
