package models

// Citation points at a source document backing an answer. At most two are
// kept per answer, label reduced to the bare filename.
type Citation struct {
	Source string `json:"source"`
	Page   int    `json:"page"`
}

// ExternalReply is the transient outcome of one orchestrated exchange. It is
// never persisted beyond the transition that produced it.
type ExternalReply struct {
	Question string     `json:"question"` // the text actually queried; the transcription on voice
	Answer   string     `json:"answer"`
	AudioRef string     `json:"audio_ref,omitempty"`
	Sources  []Citation `json:"sources,omitempty"`

	Succeeded      bool `json:"succeeded"`
	Unintelligible bool `json:"unintelligible"` // transcription came back empty
}
