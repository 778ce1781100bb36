package convo

import (
	"strings"

	"github.com/nyayaline/gateway/internal/models"
	"github.com/nyayaline/gateway/internal/orchestrator"
	"github.com/nyayaline/gateway/internal/registry"
	"github.com/nyayaline/gateway/internal/render"
)

// Decision is the outcome of one state-machine step. When Ask is set the
// caller must run the answer pipeline and build the final reply from its
// result; otherwise Reply is complete as-is.
type Decision struct {
	Reply    render.Reply
	Terminal bool // delete the session after rendering

	Ask            *orchestrator.Input
	SendAnswerText bool // voice follow-up: text the last answer to the caller

	LanguageSelected string // language display name, when this step chose one
}

// Step advances the session for one inbound event. It mutates the session's
// stage and selections in place; persistence and external calls stay with
// the caller. available reports whether a domain's knowledge base is
// currently queryable.
//
// A domain digit wins over stage-specific handling whenever the stage
// accepts selections, so re-selection keeps working mid-conversation.
func Step(reg *registry.Registry, sess *models.Session, ev models.Event, available func(string) bool) Decision {
	if sess.Language == "" {
		sess.Language = registry.DefaultLanguage
	}
	if sess.Channel == models.ChannelVoice {
		return stepVoice(reg, sess, ev, available)
	}
	return stepChat(reg, sess, ev, available)
}

func stepVoice(reg *registry.Registry, sess *models.Session, ev models.Event, available func(string) bool) Decision {
	switch sess.Stage {
	case models.StageGreeting:
		if ev.Digits == "" {
			return Decision{Reply: voiceWelcome()}
		}
		if lang, ok := registry.LanguageByKey(ev.Digits); ok {
			sess.Language = lang.Code
			sess.Stage = models.StageSelectingDomain
			return Decision{
				Reply:            voiceDomainMenu(reg, sess.Language),
				LanguageSelected: lang.Name,
			}
		}
		return Decision{Reply: voiceInvalid(voiceWelcome(), sess.Language)}

	case models.StageSelectingDomain:
		if bot, ok := reg.Lookup(ev.Digits); ok {
			return selectDomain(sess, bot, available)
		}
		return Decision{Reply: voiceInvalid(voiceDomainMenu(reg, sess.Language), sess.Language)}

	case models.StageAskingQuestion:
		if bot, ok := reg.Lookup(ev.Digits); ok && ev.Digits != "" {
			return selectDomain(sess, bot, available)
		}
		if ev.RecordingURL != "" {
			if ev.RecordingStatus != "" && ev.RecordingStatus != "completed" {
				sess.Stage = models.StageFollowUp
				return Decision{Reply: voiceCouldNotUnderstand(sess.Language)}
			}
			return Decision{Ask: &orchestrator.Input{
				Channel:    models.ChannelVoice,
				AudioRef:   ev.RecordingURL,
				DomainKey:  sess.DomainKey,
				DomainName: sess.DomainName,
				Language:   sess.Language,
			}}
		}
		if ev.RecordingStatus != "" {
			// recording callback without a usable reference
			sess.Stage = models.StageFollowUp
			return Decision{Reply: voiceCouldNotUnderstand(sess.Language)}
		}
		return Decision{Reply: voiceAskQuestion(sess.Language, sess.DomainName, "")}

	case models.StageFollowUp:
		switch ev.Digits {
		case "1":
			sess.Stage = models.StageAskingQuestion
			return Decision{Reply: voiceAskNext(sess.Language)}
		case "3":
			if sess.LastAnswer != "" && sess.CallerID != "" {
				return Decision{SendAnswerText: true}
			}
		}
		return Decision{Reply: voiceGoodbye(sess.Language), Terminal: true}
	}

	// unknown stage, restart the flow
	sess.Stage = models.StageGreeting
	return Decision{Reply: voiceWelcome()}
}

func stepChat(reg *registry.Registry, sess *models.Session, ev models.Event, available func(string) bool) Decision {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return Decision{Reply: chatEmpty()}
	}

	if bot, ok := reg.Lookup(text); ok {
		return selectDomain(sess, bot, available)
	}

	switch sess.Stage {
	case models.StageGreeting:
		sess.Stage = models.StageSelectingDomain
		return Decision{Reply: chatWelcome(reg)}

	case models.StageSelectingDomain:
		return Decision{Reply: chatInvalid(reg)}

	default: // asking a question, or following up with another one
		return Decision{Ask: &orchestrator.Input{
			Channel:    models.ChannelChat,
			Text:       text,
			DomainKey:  sess.DomainKey,
			DomainName: sess.DomainName,
			Language:   sess.Language,
		}}
	}
}

// selectDomain applies a domain digit from any stage that accepts one.
// Re-selection overrides the previous domain with a note; an unavailable
// domain leaves the stage untouched.
func selectDomain(sess *models.Session, bot registry.Bot, available func(string) bool) Decision {
	if available != nil && !available(bot.Name) {
		if sess.Channel == models.ChannelVoice {
			return Decision{Reply: voiceUnavailable(sess.Language, bot.Name)}
		}
		if sess.Stage == models.StageGreeting {
			sess.Stage = models.StageSelectingDomain
		}
		return Decision{Reply: chatUnavailable(bot.Name)}
	}

	var note string
	if sess.DomainKey != "" && sess.DomainKey != bot.Key {
		if sess.Channel == models.ChannelVoice {
			note = "Switching domains."
		} else {
			note = "You were previously using " + sess.DomainName + ". Switching to "
		}
	}

	sess.DomainKey = bot.Key
	sess.DomainName = bot.Name
	sess.Stage = models.StageAskingQuestion

	if sess.Channel == models.ChannelVoice {
		return Decision{Reply: voiceAskQuestion(sess.Language, bot.Name, note)}
	}
	if note == "" {
		note = "Selected: "
	}
	return Decision{Reply: chatSelected(bot.Name, note)}
}
