package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nyayaline/gateway/internal/analytics"
	"github.com/nyayaline/gateway/internal/convo"
	"github.com/nyayaline/gateway/internal/messaging"
	"github.com/nyayaline/gateway/internal/orchestrator"
	"github.com/nyayaline/gateway/internal/providers/knowledge"
	"github.com/nyayaline/gateway/internal/registry"
	"github.com/nyayaline/gateway/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var errUnavailable = errors.New("service unavailable")

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeSTT struct {
	text string
	err  error
}

func (f *fakeSTT) Transcribe(context.Context, string, string) (string, error) {
	return f.text, f.err
}

type fakeTTS struct {
	ref string
	err error
}

func (f *fakeTTS) Synthesize(context.Context, string, string) (string, error) {
	return f.ref, f.err
}

type fakeKnowledge struct {
	answer   string
	sources  []knowledge.Source
	queryErr error

	bots      []knowledge.BotInfo
	botsErr   error
	healthErr error

	queries atomic.Int64
}

func (f *fakeKnowledge) Query(context.Context, string, string) (*knowledge.Result, error) {
	f.queries.Add(1)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &knowledge.Result{Answer: f.answer, Sources: f.sources}, nil
}

func (f *fakeKnowledge) AvailableBots(context.Context) ([]knowledge.BotInfo, error) {
	return f.bots, f.botsErr
}

func (f *fakeKnowledge) Health(context.Context) error {
	return f.healthErr
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string
	to   []string
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.sent = append(f.sent, body)
	return nil
}

func (f *fakeSender) bodies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

// rig wires the webhook handlers against fake collaborators for one test.
type rig struct {
	store    *store.Memory
	kb       *fakeKnowledge
	sender   *fakeSender
	overflow *messaging.Dispatcher
	router   *gin.Engine
}

func allAvailable() []knowledge.BotInfo {
	var bots []knowledge.BotInfo
	for _, b := range registry.Default().All() {
		bots = append(bots, knowledge.BotInfo{Name: b.Name, Available: true})
	}
	return bots
}

func newRig(t *testing.T, chunkLimit int) *rig {
	t.Helper()
	log := quietLogger()

	r := &rig{
		store:  store.NewMemory(0, 0, nil),
		kb:     &fakeKnowledge{answer: "Section 420 covers cheating.", bots: allAvailable()},
		sender: &fakeSender{},
	}
	t.Cleanup(r.store.Close)

	orch := &orchestrator.Orchestrator{
		STT:         &fakeSTT{text: "what is section 420"},
		Knowledge:   r.kb,
		TTS:         &fakeTTS{ref: "static/out/abc.mp3"},
		StepTimeout: 2 * time.Second,
		Log:         log,
	}
	disp := &convo.Dispatcher{
		Store:        r.store,
		Registry:     registry.Default(),
		Orch:         orch,
		Knowledge:    r.kb,
		Stats:        analytics.New(),
		Sender:       r.sender,
		Log:          log,
		ProbeTimeout: 2 * time.Second,
	}
	r.overflow = messaging.NewDispatcher(r.sender, log, 2*time.Second)
	t.Cleanup(r.overflow.Close)

	voice := NewVoiceHandler(disp, log)
	chat := NewChatHandler(disp, r.overflow, chunkLimit, log)

	r.router = gin.New()
	r.router.POST(convo.PathVoice, voice.Webhook)
	r.router.POST(convo.PathVoiceRecording, voice.Recording)
	r.router.POST(convo.PathVoiceStatus, voice.Status)
	r.router.POST(convo.PathChat, chat.Webhook)
	return r
}

func (r *rig) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("POST %s: status %d", path, w.Code)
	}
	return w
}

func (r *rig) chat(t *testing.T, from, body string) string {
	t.Helper()
	w := r.post(t, convo.PathChat, url.Values{"From": {from}, "Body": {body}})
	return w.Body.String()
}
