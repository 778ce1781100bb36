package convo

import (
	"fmt"
	"strings"

	"github.com/nyayaline/gateway/internal/models"
	"github.com/nyayaline/gateway/internal/registry"
	"github.com/nyayaline/gateway/internal/render"
)

// Voice prompts are localized for English and Hindi and fall back to
// English for the other registered languages, the same coverage the phone
// line always had.

func isHindi(lang string) bool { return strings.HasPrefix(lang, "hi") }

func ttsLang(lang string) string {
	if l, ok := registry.LanguageByCode(lang); ok {
		return l.TTS
	}
	return "en-US"
}

func voiceWelcome() render.Reply {
	return render.Reply{
		Segments: []render.Segment{
			render.Say("Welcome to the Legal Assistant System.", "en-US"),
			render.Say("Please select your language. "+
				"Press 1 for English. "+
				"Press 2 for Hindi. "+
				"Press 3 for Tamil. "+
				"Press 4 for Telugu. "+
				"Press 5 for Marathi.", "en-US"),
		},
		Expect:   render.ExpectDigits,
		Action:   PathVoice,
		Redirect: PathVoice,
	}
}

func voiceDomainMenu(reg *registry.Registry, lang string) render.Reply {
	text := domainMenuSpoken(reg, lang)
	return render.Reply{
		Segments: []render.Segment{render.Say(text, ttsLang(lang))},
		Expect:   render.ExpectDigits,
		Action:   PathVoice,
	}
}

func domainMenuSpoken(reg *registry.Registry, lang string) string {
	if isHindi(lang) {
		return "कृपया एक कानूनी क्षेत्र चुनें। " +
			"भारतीय दंड संहिता के लिए 1 दबाएं। " +
			"सूचना के अधिकार के लिए 2 दबाएं। " +
			"श्रम कानून के लिए 3 दबाएं। " +
			"संविधान के लिए 4 दबाएं।"
	}
	var b strings.Builder
	b.WriteString("Please select a legal domain.")
	for _, bot := range reg.All() {
		fmt.Fprintf(&b, " Press %s for %s.", bot.Key, bot.Spoken)
	}
	return b.String()
}

func voiceInvalid(into render.Reply, lang string) render.Reply {
	say := "Invalid selection. Please try again."
	if isHindi(lang) {
		say = "अमान्य चयन। कृपया पुनः प्रयास करें।"
	}
	into.Segments = append([]render.Segment{render.Say(say, ttsLang(lang))}, into.Segments...)
	return into
}

func voiceAskQuestion(lang, domainName, note string) render.Reply {
	say := fmt.Sprintf("You have selected %s. Please ask your legal question after the beep. You will have 30 seconds for your question.", domainName)
	if isHindi(lang) {
		say = fmt.Sprintf("आपने %s चुना है। कृपया बीप के बाद अपना कानूनी प्रश्न पूछें। आपके पास अपने प्रश्न के लिए 30 सेकंड होंगे।", domainName)
	}
	if note != "" {
		say = note + " " + say
	}
	return render.Reply{
		Segments: []render.Segment{render.Say(say, ttsLang(lang))},
		Expect:   render.ExpectRecording,
		Action:   PathVoiceRecording,
	}
}

func voiceAskNext(lang string) render.Reply {
	say := "Please ask your next question after the beep."
	if isHindi(lang) {
		say = "कृपया बीप के बाद अपना अगला सवाल पूछें।"
	}
	return render.Reply{
		Segments: []render.Segment{render.Say(say, ttsLang(lang))},
		Expect:   render.ExpectRecording,
		Action:   PathVoiceRecording,
	}
}

func voiceFollowUpMenu(lang string, offerText bool) render.Reply {
	say := "To ask another question, press 1. To end this call, press 2."
	if offerText {
		say += " To receive this answer as a text message, press 3."
	}
	if isHindi(lang) {
		say = "एक और प्रश्न पूछने के लिए 1 दबाएं। इस कॉल को समाप्त करने के लिए 2 दबाएं।"
		if offerText {
			say += " इस उत्तर को एसएमएस के रूप में प्राप्त करने के लिए 3 दबाएं।"
		}
	}
	return render.Reply{
		Segments: []render.Segment{render.Say(say, ttsLang(lang))},
		Expect:   render.ExpectDigits,
		Action:   PathVoice,
	}
}

func voiceAnswer(lang, question, audioRef string, offerText bool) render.Reply {
	intro := fmt.Sprintf("Here's the answer to your question: %s", question)
	if isHindi(lang) {
		intro = fmt.Sprintf("आपके प्रश्न का उत्तर यहां है: %s", question)
	}
	followUp := voiceFollowUpMenu(lang, offerText)
	segments := []render.Segment{render.Say(intro, ttsLang(lang))}
	if audioRef != "" {
		segments = append(segments, render.Play(audioRef))
	}
	followUp.Segments = append(segments, followUp.Segments...)
	return followUp
}

func voiceUnavailable(lang, domainName string) render.Reply {
	say := fmt.Sprintf("Sorry, the %s is not available at this time.", domainName)
	if isHindi(lang) {
		say = fmt.Sprintf("क्षमा करें, %s इस समय उपलब्ध नहीं है।", domainName)
	}
	menu := render.Reply{
		Segments: []render.Segment{render.Say(say, ttsLang(lang))},
		Expect:   render.ExpectDigits,
		Action:   PathVoice,
	}
	return menu
}

func voiceApology(lang string) render.Reply {
	say := "Sorry, we couldn't process your question. Please try again later."
	reply := voiceFollowUpMenu(lang, false)
	reply.Segments = append([]render.Segment{render.Say(say, ttsLang(lang))}, reply.Segments...)
	return reply
}

func voiceCouldNotUnderstand(lang string) render.Reply {
	say := "Sorry, I couldn't understand your question."
	reply := voiceFollowUpMenu(lang, false)
	reply.Segments = append([]render.Segment{render.Say(say, ttsLang(lang))}, reply.Segments...)
	return reply
}

func voiceGoodbye(lang string) render.Reply {
	say := "Thank you for using the Legal Assistant. Goodbye."
	if isHindi(lang) {
		say = "कानूनी सहायक का उपयोग करने के लिए धन्यवाद। अलविदा।"
	}
	return render.Reply{
		Segments: []render.Segment{render.Say(say, ttsLang(lang))},
		Hangup:   true,
	}
}

func voiceTextSent(lang string, sent bool) render.Reply {
	say := "Answer sent to your phone as a text message."
	if !sent {
		say = "Sorry, couldn't send the text message."
	} else if isHindi(lang) {
		say = "उत्तर आपके फोन पर एसएमएस के रूप में भेजा गया है।"
	}
	reply := voiceFollowUpMenu(lang, false)
	reply.Segments = append([]render.Segment{render.Say(say, ttsLang(lang))}, reply.Segments...)
	return reply
}

func voiceFatal() render.Reply {
	return render.Reply{
		Segments: []render.Segment{render.Say("Sorry, there was an error processing your request. Please try again later.", "en-US")},
		Hangup:   true,
	}
}

// Chat prompts keep the messaging markup of the WhatsApp line.

var chatDigitEmoji = map[string]string{
	"1": "1️⃣", "2": "2️⃣", "3": "3️⃣", "4": "4️⃣",
}

func chatWelcome(reg *registry.Registry) render.Reply {
	var b strings.Builder
	b.WriteString("🔍 *Welcome to Legal Assistant!*\n\nPlease select a legal domain by replying with the number:\n\n")
	for _, bot := range reg.All() {
		digit := chatDigitEmoji[bot.Key]
		if digit == "" {
			digit = bot.Key
		}
		fmt.Fprintf(&b, "%s *%s* (%s)\n", digit, bot.Name, bot.Spoken)
	}
	b.WriteString("\n_Example: Send \"1\" to select ")
	if all := reg.All(); len(all) > 0 {
		b.WriteString(all[0].Name)
	}
	b.WriteString("_")
	return render.Reply{Text: b.String(), Expect: render.ExpectText}
}

func chatHelp() render.Reply {
	return render.Reply{Text: "🔎 *Legal Assistant Commands*\n\n" +
		"• Send a *number (1-4)* to select a legal domain\n" +
		"• Type your *legal question* after selecting a domain\n" +
		"• Type *\"menu\"* to see the domain selection options again\n" +
		"• Type *\"help\"* to see this help message\n" +
		"• Type *\"exit\"* to reset the conversation",
		Expect: render.ExpectText}
}

func chatResetAck() render.Reply {
	return render.Reply{Text: "Conversation reset. Type 'menu' to start again.", Expect: render.ExpectText}
}

func chatJoinAck() render.Reply {
	return render.Reply{Text: "Welcome to the Legal Assistant! You've successfully joined. " +
		"Type 'menu' to see available options or 'test' to verify connection.",
		Expect: render.ExpectText}
}

func chatTestAck() render.Reply {
	return render.Reply{Text: "This is a test response from the Legal Assistant. " +
		"If you can see this message, the connection is working correctly!",
		Expect: render.ExpectText}
}

func chatEmpty() render.Reply {
	return render.Reply{Text: "I couldn't understand your message. Please try again or type 'help' for assistance.", Expect: render.ExpectText}
}

func chatSelected(domainName, note string) render.Reply {
	return render.Reply{
		Text:   fmt.Sprintf("✅ %s*%s*\n\nPlease ask your legal question and I'll provide an answer based on relevant legal documents.", note, domainName),
		Expect: render.ExpectText,
	}
}

func chatUnavailable(domainName string) render.Reply {
	return render.Reply{
		Text:   fmt.Sprintf("❌ Sorry, %s is not available. Please select another option.", domainName),
		Expect: render.ExpectText,
	}
}

func chatInvalid(reg *registry.Registry) render.Reply {
	welcome := chatWelcome(reg)
	welcome.Text = "Please select a legal domain by replying with a number from 1-4:\n\n" + welcome.Text
	return welcome
}

func chatAnswer(question string, reply models.ExternalReply) render.Reply {
	var sourceText string
	if len(reply.Sources) > 0 {
		lines := make([]string, 0, len(reply.Sources))
		for i, src := range reply.Sources {
			lines = append(lines, fmt.Sprintf("Source %d: %s, Page: %d", i+1, src.Source, src.Page))
		}
		sourceText = "\n\n*Sources:*\n" + strings.Join(lines, "\n")
	}
	text := fmt.Sprintf("🔍 *Question:*\n%s\n\n📝 *Answer:*\n%s%s\n\n_(Ask another question or type 'menu' to change legal domain)_",
		question, reply.Answer, sourceText)
	return render.Reply{Text: text, Expect: render.ExpectText}
}

func chatApology() render.Reply {
	return render.Reply{
		Text:   "❌ Sorry, I encountered an error while processing your question. Please try again or type 'menu' to restart.",
		Expect: render.ExpectText,
	}
}

func chatCouldNotUnderstand() render.Reply {
	return render.Reply{
		Text:   "❌ Sorry, I couldn't make out a question there. Please try again or type 'menu' to restart.",
		Expect: render.ExpectText,
	}
}

func chatDiag(err error) render.Reply {
	if err != nil {
		return render.Reply{Text: fmt.Sprintf("❌ Failed to reach the knowledge service: %v", err), Expect: render.ExpectText}
	}
	return render.Reply{Text: "✅ Successfully connected to the knowledge service", Expect: render.ExpectText}
}
