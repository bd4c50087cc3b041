// Package assistant wires classified commands to their handlers. Dispatch
// is strictly sequential: one command, including every nested prompt it
// opens, is resolved before the loop listens again.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"aide/internal/camera"
	"aide/internal/intent"
	"aide/internal/speech"
	"aide/internal/web"
	"aide/internal/wiki"
)

const spokenSentences = 2

type Knowledge interface {
	Lookup(ctx context.Context, topic string) (wiki.Summary, error)
}

type Browser interface {
	OpenURL(url string) error
}

type FileOpener interface {
	OpenFile(path string) error
}

type Power interface {
	Shutdown() error
	Restart() error
}

type Camera interface {
	Available() bool
	Capture() (string, error)
}

type NoteStore interface {
	Append(content string) error
	Path() string
}

type Reminders interface {
	Schedule(d time.Duration, message string)
}

// Dispatcher owns the collaborators and runs exactly one handler per
// command. Handlers speak their own prompts and block on further input, so
// no two commands are ever in flight.
type Dispatcher struct {
	In        speech.Input
	Out       speech.Output
	Knowledge Knowledge
	Browser   Browser
	Opener    FileOpener
	Power     Power
	Camera    Camera
	Notes     NoteStore
	Reminders Reminders
	Shortcuts *web.Shortcuts

	// Console receives the long non-spoken excerpts. Defaults to stdout.
	Console io.Writer

	ListenTimeout time.Duration
	PhraseLimit   time.Duration
}

// Dispatch runs the handler for cmd and reports whether the main loop
// should terminate.
func (d *Dispatcher) Dispatch(cmd intent.Command) bool {
	switch cmd.Intent {
	case intent.Exit:
		d.speak("Goodbye. Have a nice day!")
		return true
	case intent.WikipediaLookup:
		d.lookupWikipedia(cmd.Arg)
	case intent.OpenWebsite:
		d.openWebsite(cmd.Arg)
	case intent.WebSearch:
		d.searchWeb(cmd.Arg)
	case intent.TellTime:
		d.speak("The time is " + time.Now().Format("03:04 PM"))
	case intent.TellDate:
		d.speak("Today's date is " + time.Now().Format("January 02, 2006"))
	case intent.WriteNote:
		d.writeNote()
	case intent.SetReminder:
		d.setReminder()
	case intent.TakePhoto:
		d.takePhoto()
	case intent.ShutdownSystem:
		d.powerAction("shutdown", "Shutting down...", "Shutdown canceled.", d.Power.Shutdown)
	case intent.RestartSystem:
		d.powerAction("restart", "Restarting...", "Restart canceled.", d.Power.Restart)
	case intent.SmallTalk:
		d.smallTalk(cmd.Arg)
	}
	return false
}

func (d *Dispatcher) speak(text string) { d.Out.Speak(text) }

// listen acquires one response. Recognition errors become a spoken apology
// and an empty result; they never abort the surrounding handler by
// themselves.
func (d *Dispatcher) listen() string {
	text, err := d.In.Listen(d.ListenTimeout, d.PhraseLimit)
	if err != nil {
		log.Warn("Listen failed", "err", err)
		d.speak("Sorry, I didn't understand that. Please say it again.")
		return ""
	}
	return strings.TrimSpace(text)
}

func (d *Dispatcher) ask(prompt string) string {
	d.speak(prompt)
	return d.listen()
}

// confirmed applies the deliberately loose confirmation rule: "yes" or
// "confirm" anywhere in the response counts.
func confirmed(answer string) bool {
	answer = strings.ToLower(answer)
	return strings.Contains(answer, "yes") || strings.Contains(answer, "confirm")
}

func (d *Dispatcher) console() io.Writer {
	if d.Console != nil {
		return d.Console
	}
	return os.Stdout
}

func (d *Dispatcher) lookupWikipedia(topic string) {
	if topic == "" {
		topic = d.ask("What should I search on Wikipedia?")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sum, err := d.Knowledge.Lookup(ctx, topic)
	if err != nil {
		log.Error("Wikipedia lookup failed", "topic", topic, "err", err)
		d.speak("I couldn't reach Wikipedia right now.")
		return
	}
	if !sum.Exists {
		d.speak("I couldn't find that page on Wikipedia.")
		return
	}

	short := firstSentences(sum.Extract, spokenSentences)
	if short == "" {
		short = truncate(sum.Extract, 500)
	}
	d.speak("According to Wikipedia: " + short)

	fmt.Fprintln(d.console(), "--- full summary start ---")
	fmt.Fprintln(d.console(), truncate(sum.Extract, 1500))
	fmt.Fprintln(d.console(), "--- full summary end ---")
}

func (d *Dispatcher) openWebsite(key string) {
	if u, ok := d.Shortcuts.Resolve(key); ok {
		d.openURL(u)
		d.speak(fmt.Sprintf("Opening %s.", key))
		return
	}

	// a dot suggests a bare domain
	if strings.Contains(key, ".") {
		d.openURL("http://" + key)
		d.speak("Opening " + key)
		return
	}

	d.speak(fmt.Sprintf("I don't have a direct shortcut for %s. I'll search it on Google.", key))
	d.openURL(web.SearchURL(key))
}

func (d *Dispatcher) searchWeb(query string) {
	if query == "" {
		query = d.ask("What should I search for?")
	}
	d.openURL(web.SearchURL(query))
	d.speak(fmt.Sprintf("Here are the search results for %s.", query))
}

func (d *Dispatcher) openURL(u string) {
	if err := d.Browser.OpenURL(u); err != nil {
		log.Warn("Browser launch failed", "url", u, "err", err)
	}
}

func (d *Dispatcher) writeNote() {
	content := d.ask("What should I write in the note?")
	if content == "" {
		d.speak("No content provided; note canceled.")
		return
	}

	if err := d.Notes.Append(content); err != nil {
		log.Error("Note save failed", "err", err)
		d.speak("I couldn't save the note.")
		return
	}
	d.speak("Note saved.")

	if confirmed(d.ask("Do you want me to open the notes file? Say yes or no.")) {
		if err := d.Opener.OpenFile(d.Notes.Path()); err != nil {
			log.Warn("Open notes file failed", "err", err)
			d.speak("Unable to open file.")
		}
	}
}

func (d *Dispatcher) setReminder() {
	message := d.ask("What should I remind you about?")
	if message == "" {
		d.speak("No message provided. Reminder canceled.")
		return
	}

	response := d.ask("In how many minutes should I remind you?")
	minutes, ok := firstInt(response)
	if !ok {
		d.speak("I couldn't parse the time in minutes. Reminder canceled.")
		return
	}

	d.Reminders.Schedule(time.Duration(minutes)*time.Minute, message)
	d.speak(fmt.Sprintf("Okay, I will remind you in %d minutes.", minutes))
}

func (d *Dispatcher) takePhoto() {
	if d.Camera == nil || !d.Camera.Available() {
		d.speak("No camera is available on this machine.")
		return
	}

	path, err := d.Camera.Capture()
	switch {
	case errors.Is(err, camera.ErrNoDevice):
		d.speak("Could not access the camera.")
	case err != nil:
		log.Error("Photo capture failed", "err", err)
		d.speak("Failed to capture photo.")
	default:
		d.speak("Photo taken and saved as " + filepath.Base(path))
		if err := d.Opener.OpenFile(path); err != nil {
			log.Warn("Open photo failed", "err", err)
			d.speak("Unable to open file.")
		}
	}
}

// powerAction gates a destructive system command behind an explicit
// confirmation sub-dialogue.
func (d *Dispatcher) powerAction(name, progress, canceled string, run func() error) {
	answer := d.ask(fmt.Sprintf("Do you really want to %s the computer? Say 'yes' to confirm.", name))
	if !confirmed(answer) {
		d.speak(canceled)
		return
	}

	d.speak(progress)
	if err := run(); err != nil {
		log.Error("Power command failed", "action", name, "err", err)
	}
}

func (d *Dispatcher) smallTalk(text string) {
	switch {
	case strings.Contains(text, "how are you"):
		d.speak("I am a program, but I'm functioning correctly. How can I help you?")
	case strings.Contains(text, "your name") || strings.Contains(text, "who are you"):
		d.speak("I am your voice assistant. You can call me Assistant.")
	default:
		d.speak("Sorry, I didn't understand that. I can open websites, search Google, fetch Wikipedia, set reminders, write notes, and run system commands.")
	}
}

// firstSentences keeps the first n dot-separated pieces, rejoined the way
// the spoken summary has always been assembled.
func firstSentences(s string, n int) string {
	parts := strings.Split(s, ".")
	if len(parts) > n {
		parts = parts[:n]
	}
	return strings.TrimSpace(strings.Join(parts, ". "))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// firstInt returns the first whitespace-delimited token that parses as an
// integer.
func firstInt(s string) (int, bool) {
	for _, tok := range strings.Fields(s) {
		if v, err := strconv.Atoi(tok); err == nil {
			return v, true
		}
	}
	return 0, false
}
