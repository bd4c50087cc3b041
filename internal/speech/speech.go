// Package speech provides the assistant's speech input and output adapters:
// microphone capture with whisper.cpp transcription, espeak-ng synthesis,
// a websocket channel for remote frontends, and a console fallback.
package speech

import "time"

// Input acquires one spoken command. An empty string with a nil error means
// no usable input (silence or timeout) and the caller should just listen
// again.
type Input interface {
	Listen(timeout, phraseLimit time.Duration) (string, error)
}

// Output renders text as speech, synchronously, and echoes it to the
// console channel.
type Output interface {
	Speak(text string)
}
