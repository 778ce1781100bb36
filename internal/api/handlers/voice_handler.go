package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nyayaline/gateway/internal/convo"
	"github.com/nyayaline/gateway/internal/models"
	"github.com/nyayaline/gateway/internal/render"
)

// VoiceHandler adapts telephony webhook form fields to channel-agnostic
// events and renders the returned reply as the XML control document. Every
// request is answered 200 with a document; a handler error would make the
// telephony provider retry or drop the call.
type VoiceHandler struct {
	dispatcher *convo.Dispatcher
	log        *logrus.Logger
}

func NewVoiceHandler(d *convo.Dispatcher, log *logrus.Logger) *VoiceHandler {
	return &VoiceHandler{dispatcher: d, log: log}
}

func voiceEvent(c *gin.Context) models.Event {
	return models.Event{
		ConversationID:  c.PostForm("CallSid"),
		Channel:         models.ChannelVoice,
		Digits:          c.PostForm("Digits"),
		RecordingURL:    c.PostForm("RecordingUrl"),
		RecordingStatus: c.PostForm("RecordingStatus"),
		CallStatus:      c.PostForm("CallStatus"),
		Sender:          c.PostForm("From"),
		To:              c.PostForm("To"),
	}
}

// Webhook handles call entry and every digit gather round trip.
func (h *VoiceHandler) Webhook(c *gin.Context) {
	h.respond(c, h.dispatcher.HandleVoice(c.Request.Context(), voiceEvent(c)))
}

// Recording handles the record-callback carrying the captured question.
func (h *VoiceHandler) Recording(c *gin.Context) {
	ev := voiceEvent(c)
	if ev.RecordingStatus == "" {
		ev.RecordingStatus = "completed"
	}
	h.respond(c, h.dispatcher.HandleVoice(c.Request.Context(), ev))
}

// Status receives call lifecycle events; terminal statuses drop the session.
func (h *VoiceHandler) Status(c *gin.Context) {
	ev := voiceEvent(c)
	if ev.CallStatus == "" {
		ev.CallStatus = "completed"
	}
	h.respond(c, h.dispatcher.HandleVoice(c.Request.Context(), ev))
}

func (h *VoiceHandler) respond(c *gin.Context, reply render.Reply) {
	doc, err := render.Voice(reply)
	if err != nil {
		h.log.WithError(err).Error("voice rendering failed")
		doc, _ = render.Voice(render.Reply{
			Segments: []render.Segment{{Say: "Sorry, there was an error processing your request."}},
			Hangup:   true,
		})
	}
	c.Data(http.StatusOK, "application/xml", []byte(doc))
}
