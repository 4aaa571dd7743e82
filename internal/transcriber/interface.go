package transcriber

import (
	"context"
	"errors"
)

// ErrNoSpeech is returned when the backend ran but recognized nothing.
var ErrNoSpeech = errors.New("speech not understood")

// Transcriber converts one audio file into text for the given locale
// ("it-IT", "en", "auto"). Implementations bound their own run time.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, locale string) (string, error)
}
