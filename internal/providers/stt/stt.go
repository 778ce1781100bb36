package stt

import "context"

type Provider interface {
	// Transcribe converts a recorded question to text. audioRef is the
	// recording URL handed over by the telephony webhook.
	Transcribe(ctx context.Context, audioRef, language string) (string, error)
}
