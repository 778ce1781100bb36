package registry

// Language is one selectable spoken language for the voice channel. Code is
// used for speech recognition, TTS for speech synthesis prompts.
type Language struct {
	Key  string
	Code string
	Name string
	TTS  string
}

const DefaultLanguage = "en-IN"

var languages = map[string]Language{
	"1": {Key: "1", Code: "en-IN", Name: "English", TTS: "en-US"},
	"2": {Key: "2", Code: "hi-IN", Name: "Hindi", TTS: "hi-IN"},
	"3": {Key: "3", Code: "ta-IN", Name: "Tamil", TTS: "ta-IN"},
	"4": {Key: "4", Code: "te-IN", Name: "Telugu", TTS: "te-IN"},
	"5": {Key: "5", Code: "mr-IN", Name: "Marathi", TTS: "mr-IN"},
}

func LanguageByKey(key string) (Language, bool) {
	l, ok := languages[key]
	return l, ok
}

func LanguageByCode(code string) (Language, bool) {
	for _, l := range languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}
