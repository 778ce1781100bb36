package convo

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nyayaline/gateway/internal/analytics"
	"github.com/nyayaline/gateway/internal/messaging"
	"github.com/nyayaline/gateway/internal/models"
	"github.com/nyayaline/gateway/internal/orchestrator"
	"github.com/nyayaline/gateway/internal/providers/knowledge"
	"github.com/nyayaline/gateway/internal/registry"
	"github.com/nyayaline/gateway/internal/render"
	"github.com/nyayaline/gateway/internal/store"
)

// Dispatcher glues one inbound event through the command interceptor, the
// session store, the state machine and the answer pipeline, and always
// comes back with a renderable reply. A webhook the gateway can structurally
// answer never surfaces an error to the transport.
type Dispatcher struct {
	Store     store.Store
	Registry  *registry.Registry
	Orch      *orchestrator.Orchestrator
	Knowledge knowledge.Provider
	Stats     *analytics.Stats
	Sender    messaging.Sender // optional; enables the answer-by-text follow-up
	Log       *logrus.Logger

	// ProbeTimeout bounds the availability lookup on domain selection and
	// the diagnostic health probe.
	ProbeTimeout time.Duration
}

var terminalCallStatuses = map[string]bool{
	"completed": true,
	"failed":    true,
	"busy":      true,
	"no-answer": true,
	"canceled":  true,
}

// HandleVoice processes one voice webhook and returns the reply to render
// as the XML control document.
func (d *Dispatcher) HandleVoice(ctx context.Context, ev models.Event) (reply render.Reply) {
	log := d.Log.WithFields(logrus.Fields{
		"conversation_id": ev.ConversationID,
		"channel":         models.ChannelVoice,
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("voice handling panicked")
			reply = voiceFatal()
		}
	}()

	if terminalCallStatuses[ev.CallStatus] {
		d.Store.Delete(ev.ConversationID)
		log.WithField("call_status", ev.CallStatus).Info("call ended, session dropped")
		return render.Reply{}
	}

	d.Store.Do(ev.ConversationID, func() {
		_, existed := d.Store.Get(ev.ConversationID)
		sess := d.Store.GetOrCreate(ev.ConversationID, models.ChannelVoice)
		if !existed {
			sess.CallerID = ev.Sender
			d.Stats.CallStarted()
		}
		reply = d.step(ctx, sess, ev, log)
	})
	return reply
}

// HandleChat processes one chat webhook; the returned reply carries the
// full text, chunking is the renderer's business.
func (d *Dispatcher) HandleChat(ctx context.Context, ev models.Event) (reply render.Reply) {
	log := d.Log.WithFields(logrus.Fields{
		"conversation_id": ev.ConversationID,
		"channel":         models.ChannelChat,
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("chat handling panicked")
			reply = chatApology()
		}
	}()

	d.Stats.MessageReceived()

	if cmd := ParseCommand(ev.Text); cmd != CmdNone {
		if out, handled := d.runCommand(ctx, cmd, ev, log); handled {
			return out
		}
	}

	d.Store.Do(ev.ConversationID, func() {
		sess := d.Store.GetOrCreate(ev.ConversationID, models.ChannelChat)
		sess.CallerID = ev.Sender
		reply = d.step(ctx, sess, ev, log)
	})
	return reply
}

// runCommand executes a global keyword. Greeting is reported unhandled so
// the machine can render the menu through its normal restart path.
func (d *Dispatcher) runCommand(ctx context.Context, cmd Command, ev models.Event, log *logrus.Entry) (render.Reply, bool) {
	switch cmd {
	case CmdHelp:
		return chatHelp(), true
	case CmdMenu:
		d.Store.Do(ev.ConversationID, func() {
			sess := d.Store.GetOrCreate(ev.ConversationID, models.ChannelChat)
			sess.Reset()
			sess.UpdatedAt = time.Now().UTC()
		})
		return chatWelcome(d.Registry), true
	case CmdExit:
		d.Store.Delete(ev.ConversationID)
		return chatResetAck(), true
	case CmdGreeting:
		d.Store.Do(ev.ConversationID, func() {
			sess := d.Store.GetOrCreate(ev.ConversationID, models.ChannelChat)
			sess.Reset()
			sess.CallerID = ev.Sender
			sess.UpdatedAt = time.Now().UTC()
		})
		return chatWelcome(d.Registry), true
	case CmdJoin:
		return chatJoinAck(), true
	case CmdTest:
		return chatTestAck(), true
	case CmdDiag:
		pctx, cancel := context.WithTimeout(ctx, d.ProbeTimeout)
		defer cancel()
		err := d.Knowledge.Health(pctx)
		if err != nil {
			log.WithError(err).Warn("diagnostic probe failed")
		}
		return chatDiag(err), true
	}
	return render.Reply{}, false
}

func (d *Dispatcher) step(ctx context.Context, sess *models.Session, ev models.Event, log *logrus.Entry) render.Reply {
	dec := Step(d.Registry, sess, ev, d.availability(ctx))
	sess.UpdatedAt = time.Now().UTC()

	if dec.LanguageSelected != "" {
		d.Stats.LanguageChosen(dec.LanguageSelected)
	}

	if dec.Ask != nil {
		return d.answer(ctx, sess, *dec.Ask, log)
	}
	if dec.SendAnswerText {
		return d.sendAnswerText(ctx, sess, log)
	}
	if dec.Terminal {
		d.Store.Delete(sess.ConversationID)
	}
	return dec.Reply
}

// answer runs the external pipeline and folds its outcome back into the
// session: every path lands the conversation on the follow-up stage with a
// coherent next step for the user.
func (d *Dispatcher) answer(ctx context.Context, sess *models.Session, in orchestrator.Input, log *logrus.Entry) render.Reply {
	start := time.Now()
	result := d.Orch.Answer(ctx, in)
	sess.Stage = models.StageFollowUp
	sess.UpdatedAt = time.Now().UTC()

	switch {
	case result.Unintelligible:
		if sess.Channel == models.ChannelVoice {
			return voiceCouldNotUnderstand(sess.Language)
		}
		return chatCouldNotUnderstand()

	case !result.Succeeded:
		if sess.Channel == models.ChannelVoice {
			return voiceApology(sess.Language)
		}
		return chatApology()
	}

	sess.LastQuestion = result.Question
	sess.LastAnswer = result.Answer
	d.Stats.QueryCompleted(sess.DomainName, time.Since(start))
	log.WithFields(logrus.Fields{
		"domain":  sess.DomainName,
		"took_ms": time.Since(start).Milliseconds(),
	}).Info("question answered")

	if sess.Channel == models.ChannelVoice {
		offerText := d.Sender != nil && sess.CallerID != ""
		return voiceAnswer(sess.Language, result.Question, result.AudioRef, offerText)
	}
	return chatAnswer(result.Question, result)
}

// sendAnswerText delivers the last exchange to the caller's number through
// the messaging gateway, truncated the way a multi-part text tops out.
func (d *Dispatcher) sendAnswerText(ctx context.Context, sess *models.Session, log *logrus.Entry) render.Reply {
	const maxTextLength = 1500

	if d.Sender == nil {
		return voiceTextSent(sess.Language, false)
	}

	answer := sess.LastAnswer
	if len(answer) > maxTextLength {
		answer = answer[:maxTextLength-3] + "..."
	}
	body := "Your legal question: " + sess.LastQuestion + "\n\nAnswer: " + answer + "\n\n- Legal Assistant"

	sctx, cancel := context.WithTimeout(ctx, d.ProbeTimeout)
	defer cancel()
	if err := d.Sender.Send(sctx, sess.CallerID, body); err != nil {
		log.WithError(err).Warn("answer text delivery failed")
		return voiceTextSent(sess.Language, false)
	}
	return voiceTextSent(sess.Language, true)
}

// availability asks the knowledge service which domains are queryable; when
// the listing itself fails, selection proceeds as if all domains were up
// rather than blocking the caller.
func (d *Dispatcher) availability(ctx context.Context) func(string) bool {
	return func(name string) bool {
		pctx, cancel := context.WithTimeout(ctx, d.ProbeTimeout)
		defer cancel()

		bots, err := d.Knowledge.AvailableBots(pctx)
		if err != nil {
			d.Log.WithError(err).Warn("availability listing failed, assuming available")
			return true
		}
		for _, b := range bots {
			if b.Name == name {
				return b.Available
			}
		}
		return false
	}
}
