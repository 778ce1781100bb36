package convo

// Callback targets the voice renderer points gather/record directives at.
const (
	PathVoice          = "/webhooks/voice"
	PathVoiceRecording = "/webhooks/voice/recording"
	PathVoiceStatus    = "/webhooks/voice/status"
	PathChat           = "/webhooks/chat"
)
