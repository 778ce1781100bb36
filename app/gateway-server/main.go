package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/nyayaline/gateway/config"
	"github.com/nyayaline/gateway/internal/analytics"
	"github.com/nyayaline/gateway/internal/api/handlers"
	"github.com/nyayaline/gateway/internal/api/middleware"
	"github.com/nyayaline/gateway/internal/api/routes"
	"github.com/nyayaline/gateway/internal/cache"
	"github.com/nyayaline/gateway/internal/convo"
	"github.com/nyayaline/gateway/internal/logger"
	"github.com/nyayaline/gateway/internal/messaging"
	"github.com/nyayaline/gateway/internal/orchestrator"
	"github.com/nyayaline/gateway/internal/providers/knowledge"
	"github.com/nyayaline/gateway/internal/providers/stt"
	"github.com/nyayaline/gateway/internal/providers/tts"
	"github.com/nyayaline/gateway/internal/registry"
	"github.com/nyayaline/gateway/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	l := logger.New()

	// Answer cache: redis when configured, in-process otherwise
	var answerCache cache.Cache
	connected, err := config.InitRedis()
	switch {
	case err != nil:
		log.Fatalf("Redis init error: %v", err)
	case connected:
		answerCache = cache.NewRedisCache(config.RedisClient)
		fmt.Println("Redis connected")
	default:
		answerCache = cache.NewMemoryCache()
	}

	sessions := store.NewMemory(cfg.SessionTTL, cfg.SweepInterval, l)
	defer sessions.Close()

	knowledgeAPI := knowledge.NewHTTPProvider(cfg.KnowledgeAPIURL, cfg.ExternalTimeout)

	orch := &orchestrator.Orchestrator{
		STT:         stt.NewHTTPProvider(cfg.SpeechAPIURL, cfg.ExternalTimeout),
		Knowledge:   knowledgeAPI,
		TTS:         tts.NewHTTPProvider(cfg.TTSAPIURL, cfg.ExternalTimeout),
		Cache:       answerCache,
		CacheTTL:    cfg.AnswerCacheTTL,
		StepTimeout: cfg.ExternalTimeout,
		Log:         l,
	}

	stats := analytics.New()

	var sender messaging.Sender
	var overflow *messaging.Dispatcher
	if cfg.GatewaySendURL != "" {
		gw := messaging.NewGatewaySender(cfg.GatewaySendURL, cfg.GatewayNumber, cfg.GatewayToken, cfg.ExternalTimeout)
		sender = gw
		overflow = messaging.NewDispatcher(gw, l, cfg.ExternalTimeout)
		defer overflow.Close()
	} else {
		l.Warn("GATEWAY_SEND_URL not set, direct sends disabled")
	}

	dispatcher := &convo.Dispatcher{
		Store:        sessions,
		Registry:     registry.Default(),
		Orch:         orch,
		Knowledge:    knowledgeAPI,
		Stats:        stats,
		Sender:       sender,
		Log:          l,
		ProbeTimeout: 5 * time.Second,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		Voice: handlers.NewVoiceHandler(dispatcher, l),
		Chat:  handlers.NewChatHandler(dispatcher, overflow, cfg.ChunkLimit, l),
		Ops:   handlers.NewOpsHandler(sessions, knowledgeAPI, stats),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	l.WithField("addr", addr).Info("gateway starting up")
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
