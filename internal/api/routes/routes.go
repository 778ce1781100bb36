package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nyayaline/gateway/internal/api/handlers"
	"github.com/nyayaline/gateway/internal/convo"
)

type Deps struct {
	Voice *handlers.VoiceHandler
	Chat  *handlers.ChatHandler
	Ops   *handlers.OpsHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.POST(convo.PathVoice, d.Voice.Webhook)
	r.POST(convo.PathVoiceRecording, d.Voice.Recording)
	r.POST(convo.PathVoiceStatus, d.Voice.Status)

	r.POST(convo.PathChat, d.Chat.Webhook)

	r.GET("/health", d.Ops.Health)
	r.GET("/status", d.Ops.Status)
	r.GET("/debug/sessions", d.Ops.DebugSessions)
}
