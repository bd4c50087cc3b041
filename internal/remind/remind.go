// Package remind schedules one-shot spoken reminders on detached timers.
package remind

import (
	log "log/slog"
	"time"
)

// Scheduler fires each reminder exactly once on its own timer goroutine.
// Pending timers never keep the process alive: exiting the program simply
// drops them, which is the intended lifecycle.
type Scheduler struct {
	speak func(string)
}

func NewScheduler(speak func(string)) *Scheduler {
	return &Scheduler{speak: speak}
}

// Schedule arranges for "Reminder: {message}" to be spoken after d. The
// callback runs detached from the dispatch loop and only writes to the
// speech output.
func (s *Scheduler) Schedule(d time.Duration, message string) {
	time.AfterFunc(d, func() {
		log.Info("Reminder fired", "message", message)
		s.speak("Reminder: " + message)
	})
}
