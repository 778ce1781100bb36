package render

// Expect names the input the channel should collect after the reply plays.
type Expect int

const (
	ExpectNone Expect = iota
	ExpectDigits
	ExpectRecording
	ExpectText
)

// Segment is one ordered speak-or-play step of a voice reply.
type Segment struct {
	Say      string
	Play     string
	Language string
}

// Reply is the channel-agnostic descriptor the conversation core produces.
// Voice rendering consumes Segments plus the gather/record directives; chat
// rendering consumes Text.
type Reply struct {
	Segments []Segment
	Text     string

	Expect    Expect
	Action    string // callback target for the next webhook
	NumDigits int
	TimeoutS  int // gather timeout
	MaxLenS   int // record cap
	Redirect  string

	Hangup bool
}

func Say(text, lang string) Segment { return Segment{Say: text, Language: lang} }
func Play(ref string) Segment       { return Segment{Play: ref} }
