package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nyayaline/gateway/internal/cache"
	"github.com/nyayaline/gateway/internal/models"
	"github.com/nyayaline/gateway/internal/providers/knowledge"
	"github.com/nyayaline/gateway/internal/providers/stt"
	"github.com/nyayaline/gateway/internal/providers/tts"
)

// Input is one captured question plus the session context it arrived in.
// Voice input carries an audio reference, chat input literal text.
type Input struct {
	Channel    models.Channel
	AudioRef   string
	Text       string
	DomainKey  string
	DomainName string
	Language   string
}

// Orchestrator runs the sequential answer pipeline: speech-to-text, then the
// knowledge query, then optional speech synthesis. Each step is bounded by
// StepTimeout; a timed-out step counts as a failed one and the pipeline
// falls back instead of erroring out.
type Orchestrator struct {
	STT       stt.Provider
	Knowledge knowledge.Provider
	TTS       tts.Provider

	Cache    cache.Cache
	CacheTTL time.Duration

	StepTimeout time.Duration
	Log         *logrus.Logger
}

const maxCitations = 2

func (o *Orchestrator) Answer(ctx context.Context, in Input) models.ExternalReply {
	log := o.Log.WithFields(logrus.Fields{
		"channel": in.Channel,
		"domain":  in.DomainName,
	})

	question := strings.TrimSpace(in.Text)
	if in.Channel == models.ChannelVoice {
		text, err := o.transcribe(ctx, in.AudioRef, in.Language)
		if err != nil {
			log.WithError(err).Warn("transcription failed")
			return models.ExternalReply{}
		}
		question = strings.TrimSpace(text)
	}

	if question == "" {
		log.Info("empty transcription, skipping query")
		return models.ExternalReply{Unintelligible: true}
	}

	result, err := o.query(ctx, in.DomainName, question)
	if err != nil {
		log.WithError(err).Error("knowledge query failed")
		return models.ExternalReply{Question: question}
	}

	reply := models.ExternalReply{
		Question:  question,
		Answer:    result.Answer,
		Sources:   normalizeCitations(result.Sources),
		Succeeded: true,
	}

	if in.Channel == models.ChannelVoice {
		reply.AudioRef = o.synthesize(ctx, in, result.Answer, log)
	}
	return reply
}

func (o *Orchestrator) transcribe(ctx context.Context, audioRef, language string) (string, error) {
	sctx, cancel := context.WithTimeout(ctx, o.StepTimeout)
	defer cancel()
	return o.STT.Transcribe(sctx, audioRef, language)
}

func (o *Orchestrator) query(ctx context.Context, domainName, question string) (*knowledge.Result, error) {
	key := answerCacheKey(domainName, question)

	if o.Cache != nil {
		var cached knowledge.Result
		if hit, err := o.Cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	sctx, cancel := context.WithTimeout(ctx, o.StepTimeout)
	defer cancel()
	result, err := o.Knowledge.Query(sctx, domainName, question)
	if err != nil {
		return nil, err
	}

	if o.Cache != nil {
		if err := o.Cache.SetJSON(ctx, key, result, o.CacheTTL); err != nil {
			o.Log.WithError(err).Debug("answer cache write failed")
		}
	}
	return result, nil
}

// synthesize degrades to the per-domain canned recording when the synthesis
// service fails; a spoken generic answer beats a dropped call.
func (o *Orchestrator) synthesize(ctx context.Context, in Input, answer string, log *logrus.Entry) string {
	sctx, cancel := context.WithTimeout(ctx, o.StepTimeout)
	defer cancel()

	audioRef, err := o.TTS.Synthesize(sctx, answer, in.Language)
	if err != nil || audioRef == "" {
		log.WithError(err).Warn("speech synthesis failed, using canned answer audio")
		return CannedAudioRef(in.DomainKey)
	}
	return audioRef
}

// CannedAudioRef is the pre-recorded per-domain fallback played when
// synthesis is unavailable.
func CannedAudioRef(domainKey string) string {
	return "static/answers/generic_" + domainKey + ".mp3"
}

func answerCacheKey(domainName, question string) string {
	return "answer:" + domainName + ":" + strings.ToLower(strings.TrimSpace(question))
}

// normalizeCitations keeps at most the first two sources and reduces each
// label to the filename without its path.
func normalizeCitations(sources []knowledge.Source) []models.Citation {
	var out []models.Citation
	for _, s := range sources {
		if len(out) == maxCitations {
			break
		}
		label := s.Source
		if i := strings.LastIndex(label, "/"); i >= 0 {
			label = label[i+1:]
		}
		if label == "" {
			continue
		}
		out = append(out, models.Citation{Source: label, Page: s.Page})
	}
	return out
}
