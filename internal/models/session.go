package models

import "time"

type Channel string

const (
	ChannelVoice Channel = "voice"
	ChannelChat  Channel = "chat"
)

// Stage is the conversation's position in the dialog flow.
type Stage string

const (
	StageGreeting        Stage = "greeting"
	StageSelectingDomain Stage = "selecting_domain"
	StageAskingQuestion  Stage = "asking_question"
	StageFollowUp        Stage = "follow_up"
)

// Session is one active conversation, keyed by the channel-supplied
// identifier (call SID for voice, sender address for chat). Sessions live
// only in memory; a lost session restarts the flow from greeting.
type Session struct {
	ConversationID string  `json:"conversation_id"`
	Channel        Channel `json:"channel"`
	Stage          Stage   `json:"stage"`

	Language   string `json:"language"`              // BCP-47 tag, ex: "en-IN"
	DomainKey  string `json:"domain_key,omitempty"`  // registry digit, set once a domain is chosen
	DomainName string `json:"domain_name,omitempty"` // display name of the chosen domain

	CallerID     string `json:"caller_id,omitempty"`
	LastQuestion string `json:"last_question,omitempty"`
	LastAnswer   string `json:"last_answer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reset returns the session to the domain menu, dropping the chosen domain
// and the last exchange. The language preference is kept.
func (s *Session) Reset() {
	s.Stage = StageSelectingDomain
	s.DomainKey = ""
	s.DomainName = ""
	s.LastQuestion = ""
	s.LastAnswer = ""
}
