package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nyayaline/gateway/internal/convo"
	"github.com/nyayaline/gateway/internal/messaging"
	"github.com/nyayaline/gateway/internal/models"
	"github.com/nyayaline/gateway/internal/render"
)

// ChatHandler adapts messaging webhook fields and answers with plain text.
// Replies longer than the chunk limit return their first part synchronously
// and hand the rest to the background dispatcher, order preserved.
type ChatHandler struct {
	dispatcher *convo.Dispatcher
	overflow   *messaging.Dispatcher // nil disables direct sends
	chunkLimit int
	log        *logrus.Logger
}

func NewChatHandler(d *convo.Dispatcher, overflow *messaging.Dispatcher, chunkLimit int, log *logrus.Logger) *ChatHandler {
	return &ChatHandler{dispatcher: d, overflow: overflow, chunkLimit: chunkLimit, log: log}
}

// Webhook handles one inbound message.
func (h *ChatHandler) Webhook(c *gin.Context) {
	ev := models.Event{
		ConversationID: c.PostForm("From"),
		Channel:        models.ChannelChat,
		Text:           c.PostForm("Body"),
		Sender:         c.PostForm("From"),
		To:             c.PostForm("To"),
	}

	reply := h.dispatcher.HandleChat(c.Request.Context(), ev)

	parts := render.Chat(reply, h.chunkLimit)
	if len(parts) > 1 {
		if h.overflow != nil {
			h.overflow.Enqueue(ev.Sender, parts[1:]...)
		} else {
			h.log.WithField("parts", len(parts)-1).Warn("no direct-send capability, overflow parts dropped")
		}
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(parts[0]))
}
