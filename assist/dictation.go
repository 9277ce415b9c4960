package assist

import (
	"context"
	"errors"
)

// ErrDictationUnsupported is returned by Listen on platforms without speech
// recognition. Callers probe Supported() and hide the affordance.
var ErrDictationUnsupported = errors.New("dictation not supported on this platform")

// Dictation produces one finalized transcript per listening session. The
// session ends when the recognizer finalizes or the context is canceled;
// cancellation discards any not-yet-finalized result.
type Dictation interface {
	Supported() bool
	Listen(ctx context.Context) (string, error)
}

// NoDictation is the server-side implementation: speech capture happens on
// the client, so the platform always reports unsupported.
type NoDictation struct{}

func (NoDictation) Supported() bool { return false }

func (NoDictation) Listen(context.Context) (string, error) {
	return "", ErrDictationUnsupported
}
