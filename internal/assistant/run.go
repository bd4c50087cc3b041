package assistant

import (
	"context"
	log "log/slog"
	"time"

	"aide/internal/intent"
)

// Assistant is the main loop: greet once, then listen, classify and
// dispatch until an exit intent or cancellation.
type Assistant struct {
	d          *Dispatcher
	classifier *intent.Classifier

	// IdleDelay is the pause after each dispatched command. Zeroed in
	// tests.
	IdleDelay time.Duration
}

func New(d *Dispatcher) *Assistant {
	return &Assistant{
		d:          d,
		classifier: intent.NewClassifier(d.Shortcuts.Keys()),
		IdleDelay:  500 * time.Millisecond,
	}
}

// Greet speaks the hour-appropriate greeting and the capability intro.
func (a *Assistant) Greet() {
	hour := time.Now().Hour()
	switch {
	case hour >= 5 && hour < 12:
		a.d.speak("Good morning!")
	case hour >= 12 && hour < 18:
		a.d.speak("Good afternoon!")
	case hour >= 18 && hour < 22:
		a.d.speak("Good evening!")
	default:
		a.d.speak("Hello!")
	}
	a.d.speak("I am your voice assistant. How can I help you?")
}

// Run drives the dispatch loop. Empty or failed recognitions loop back to
// listening; only an exit intent or ctx cancellation ends the loop.
func (a *Assistant) Run(ctx context.Context) {
	a.Greet()

	for {
		select {
		case <-ctx.Done():
			a.d.speak("Assistant terminated by user. Bye!")
			return
		default:
		}

		a.d.speak("Listening for your command.")
		text := a.d.listen()
		if text == "" {
			continue
		}

		cmd := a.classifier.Classify(text)
		log.Debug("Classified", "intent", cmd.Intent.String(), "arg", cmd.Arg)

		if a.d.Dispatch(cmd) {
			return
		}

		if a.IdleDelay > 0 {
			time.Sleep(a.IdleDelay)
		}
	}
}
