package tts

import "context"

type Provider interface {
	// Synthesize turns answer text into a playable audio reference.
	Synthesize(ctx context.Context, text, language string) (string, error)
}
