package orchestrator

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nyayaline/gateway/internal/cache"
	"github.com/nyayaline/gateway/internal/models"
	"github.com/nyayaline/gateway/internal/providers/knowledge"
	"github.com/nyayaline/gateway/internal/providers/stt"
	"github.com/nyayaline/gateway/internal/providers/tts"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// collaborators bundles fake speech, knowledge and synthesis services and
// counts the calls each receives.
type collaborators struct {
	stt, query, tts *httptest.Server

	sttCalls   atomic.Int64
	queryCalls atomic.Int64
	ttsCalls   atomic.Int64
}

func newCollaborators(t *testing.T, transcript, answer string, queryDelay time.Duration) *collaborators {
	t.Helper()
	c := &collaborators{}

	c.stt = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.sttCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"text":"`+transcript+`"}`)
	}))
	c.query = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.queryCalls.Add(1)
		if queryDelay > 0 {
			time.Sleep(queryDelay)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"answer":"`+answer+`","sources":[{"source":"docs/ipc/sections.pdf","page":12}]}`)
	}))
	c.tts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.ttsCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"audio_file":"static/out/abc.mp3"}`)
	}))

	t.Cleanup(func() {
		c.stt.Close()
		c.query.Close()
		c.tts.Close()
	})
	return c
}

func (c *collaborators) orchestrator(stepTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		STT:         stt.NewHTTPProvider(c.stt.URL, 5*time.Second),
		Knowledge:   knowledge.NewHTTPProvider(c.query.URL, 5*time.Second),
		TTS:         tts.NewHTTPProvider(c.tts.URL, 5*time.Second),
		StepTimeout: stepTimeout,
		Log:         quietLogger(),
	}
}

func TestVoicePipeline(t *testing.T) {
	c := newCollaborators(t, "what is section 420", "Section 420 covers cheating.", 0)
	o := c.orchestrator(2 * time.Second)

	reply := o.Answer(context.Background(), Input{
		Channel:    models.ChannelVoice,
		AudioRef:   "https://recordings.example/CA100.wav",
		DomainKey:  "1",
		DomainName: "IPC Bot",
		Language:   "en-IN",
	})

	if !reply.Succeeded {
		t.Fatal("expected a successful reply")
	}
	if reply.Question != "what is section 420" {
		t.Errorf("transcript not carried: %q", reply.Question)
	}
	if reply.Answer != "Section 420 covers cheating." {
		t.Errorf("wrong answer: %q", reply.Answer)
	}
	if reply.AudioRef != "static/out/abc.mp3" {
		t.Errorf("synthesized audio not carried: %q", reply.AudioRef)
	}
	if c.ttsCalls.Load() != 1 {
		t.Errorf("expected 1 synthesis call, got %d", c.ttsCalls.Load())
	}
}

func TestChatPipelineSkipsSpeech(t *testing.T) {
	c := newCollaborators(t, "", "Section 420 covers cheating.", 0)
	o := c.orchestrator(2 * time.Second)

	reply := o.Answer(context.Background(), Input{
		Channel:    models.ChannelChat,
		Text:       "  What is section 420?  ",
		DomainName: "IPC Bot",
	})

	if !reply.Succeeded {
		t.Fatal("expected a successful reply")
	}
	if reply.Question != "What is section 420?" {
		t.Errorf("question not trimmed: %q", reply.Question)
	}
	if c.sttCalls.Load() != 0 || c.ttsCalls.Load() != 0 {
		t.Errorf("chat must not touch the speech services: stt=%d tts=%d", c.sttCalls.Load(), c.ttsCalls.Load())
	}
	if reply.AudioRef != "" {
		t.Errorf("chat reply carries audio: %q", reply.AudioRef)
	}
}

func TestEmptyTranscriptionSkipsQuery(t *testing.T) {
	c := newCollaborators(t, "", "unused", 0)
	o := c.orchestrator(2 * time.Second)

	reply := o.Answer(context.Background(), Input{
		Channel:  models.ChannelVoice,
		AudioRef: "https://recordings.example/CA100.wav",
		Language: "en-IN",
	})

	if !reply.Unintelligible {
		t.Error("expected an unintelligible reply")
	}
	if reply.Succeeded {
		t.Error("unintelligible reply must not report success")
	}
	if c.queryCalls.Load() != 0 {
		t.Errorf("knowledge service must not be queried, got %d calls", c.queryCalls.Load())
	}
}

func TestQueryTimeoutFails(t *testing.T) {
	c := newCollaborators(t, "", "slow answer", 300*time.Millisecond)
	o := c.orchestrator(50 * time.Millisecond)

	reply := o.Answer(context.Background(), Input{
		Channel:    models.ChannelChat,
		Text:       "what is section 420",
		DomainName: "IPC Bot",
	})

	if reply.Succeeded {
		t.Error("timed-out query must not succeed")
	}
	if reply.Question != "what is section 420" {
		t.Errorf("question should survive a failed query: %q", reply.Question)
	}
	if c.ttsCalls.Load() != 0 {
		t.Error("no synthesis after a failed query")
	}
}

func TestSynthesisFailureFallsBackToCannedAudio(t *testing.T) {
	c := newCollaborators(t, "what is section 420", "Section 420 covers cheating.", 0)
	c.tts.Close()
	c.tts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	o := c.orchestrator(2 * time.Second)

	reply := o.Answer(context.Background(), Input{
		Channel:    models.ChannelVoice,
		AudioRef:   "https://recordings.example/CA100.wav",
		DomainKey:  "1",
		DomainName: "IPC Bot",
		Language:   "en-IN",
	})

	if !reply.Succeeded {
		t.Fatal("synthesis failure must not fail the answer")
	}
	if reply.AudioRef != CannedAudioRef("1") {
		t.Errorf("expected the canned fallback, got %q", reply.AudioRef)
	}
}

func TestAnswerCacheHitSkipsQuery(t *testing.T) {
	c := newCollaborators(t, "", "Section 420 covers cheating.", 0)
	o := c.orchestrator(2 * time.Second)
	o.Cache = cache.NewMemoryCache()
	o.CacheTTL = time.Minute

	in := Input{Channel: models.ChannelChat, Text: "What is section 420?", DomainName: "IPC Bot"}

	first := o.Answer(context.Background(), in)
	second := o.Answer(context.Background(), in)

	if !first.Succeeded || !second.Succeeded {
		t.Fatal("both answers should succeed")
	}
	if second.Answer != first.Answer {
		t.Errorf("cached answer diverges: %q vs %q", second.Answer, first.Answer)
	}
	if c.queryCalls.Load() != 1 {
		t.Errorf("expected 1 knowledge call with a warm cache, got %d", c.queryCalls.Load())
	}
}

func TestCitationNormalization(t *testing.T) {
	srcs := []knowledge.Source{
		{Source: "docs/ipc/sections.pdf", Page: 12},
		{Source: "constitution.pdf", Page: 3},
		{Source: "docs/extra/ignored.pdf", Page: 9},
	}

	out := normalizeCitations(srcs)
	if len(out) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(out))
	}
	if out[0].Source != "sections.pdf" || out[0].Page != 12 {
		t.Errorf("path not stripped: %+v", out[0])
	}
	if out[1].Source != "constitution.pdf" {
		t.Errorf("plain filename mangled: %+v", out[1])
	}

	if got := normalizeCitations(nil); got != nil {
		t.Errorf("no sources should yield no citations, got %+v", got)
	}
}
