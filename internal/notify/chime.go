// Package notify plays the short listening chime.
package notify

import (
	"fmt"
	log "log/slog"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// Chime plays the mp3 at path and blocks until it finishes. A missing or
// undecodable file is logged, not fatal: the chime is a convenience.
func Chime(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open chime: %w", err)
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode chime: %w", err)
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))
	<-done

	return nil
}

// Chimer adapts Chime for callers that just want a fire-and-log callback.
func Chimer(path string) func() {
	return func() {
		if err := Chime(path); err != nil {
			log.Debug("Chime skipped", "err", err)
		}
	}
}
