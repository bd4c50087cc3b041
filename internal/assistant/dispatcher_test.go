package assistant

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aide/internal/camera"
	"aide/internal/intent"
	"aide/internal/web"
	"aide/internal/wiki"
)

type scriptedInput struct {
	responses []string
}

func (s *scriptedInput) Listen(timeout, phraseLimit time.Duration) (string, error) {
	if len(s.responses) == 0 {
		return "", nil
	}
	r := s.responses[0]
	s.responses = s.responses[1:]
	return r, nil
}

type recordingOutput struct {
	spoken []string
}

func (r *recordingOutput) Speak(text string) { r.spoken = append(r.spoken, text) }

func (r *recordingOutput) saidContaining(sub string) bool {
	for _, s := range r.spoken {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type fakeKnowledge struct {
	sum    wiki.Summary
	err    error
	topics []string
}

func (f *fakeKnowledge) Lookup(ctx context.Context, topic string) (wiki.Summary, error) {
	f.topics = append(f.topics, topic)
	return f.sum, f.err
}

type fakeBrowser struct {
	urls []string
}

func (f *fakeBrowser) OpenURL(u string) error {
	f.urls = append(f.urls, u)
	return nil
}

type fakeOpener struct {
	paths []string
}

func (f *fakeOpener) OpenFile(path string) error {
	f.paths = append(f.paths, path)
	return nil
}

type fakePower struct {
	shutdowns int
	restarts  int
}

func (f *fakePower) Shutdown() error { f.shutdowns++; return nil }
func (f *fakePower) Restart() error  { f.restarts++; return nil }

type fakeCamera struct {
	available bool
	path      string
	err       error
}

func (f *fakeCamera) Available() bool          { return f.available }
func (f *fakeCamera) Capture() (string, error) { return f.path, f.err }

type fakeNotes struct {
	contents []string
	err      error
}

func (f *fakeNotes) Append(content string) error {
	if f.err != nil {
		return f.err
	}
	f.contents = append(f.contents, content)
	return nil
}

func (f *fakeNotes) Path() string { return "/tmp/notes.json" }

type fakeReminders struct {
	delays   []time.Duration
	messages []string
}

func (f *fakeReminders) Schedule(d time.Duration, message string) {
	f.delays = append(f.delays, d)
	f.messages = append(f.messages, message)
}

type fixture struct {
	d         *Dispatcher
	in        *scriptedInput
	out       *recordingOutput
	knowledge *fakeKnowledge
	browser   *fakeBrowser
	opener    *fakeOpener
	power     *fakePower
	camera    *fakeCamera
	notes     *fakeNotes
	reminders *fakeReminders
	console   *bytes.Buffer
}

func newFixture(responses ...string) *fixture {
	f := &fixture{
		in:        &scriptedInput{responses: responses},
		out:       &recordingOutput{},
		knowledge: &fakeKnowledge{},
		browser:   &fakeBrowser{},
		opener:    &fakeOpener{},
		power:     &fakePower{},
		camera:    &fakeCamera{},
		notes:     &fakeNotes{},
		reminders: &fakeReminders{},
		console:   &bytes.Buffer{},
	}
	f.d = &Dispatcher{
		In:        f.in,
		Out:       f.out,
		Knowledge: f.knowledge,
		Browser:   f.browser,
		Opener:    f.opener,
		Power:     f.power,
		Camera:    f.camera,
		Notes:     f.notes,
		Reminders: f.reminders,
		Shortcuts: web.DefaultShortcuts(),
		Console:   f.console,
	}
	return f
}

func TestDispatchExit(t *testing.T) {
	f := newFixture()

	done := f.d.Dispatch(intent.Command{Intent: intent.Exit})

	assert.True(t, done)
	assert.True(t, f.out.saidContaining("Goodbye"))
}

func TestDispatchUnknownIsNoOp(t *testing.T) {
	f := newFixture()

	done := f.d.Dispatch(intent.Command{Intent: intent.Unknown})

	assert.False(t, done)
	assert.Empty(t, f.out.spoken)
}

func TestWikipediaSpeaksFirstTwoSentences(t *testing.T) {
	f := newFixture()
	f.knowledge.sum = wiki.Summary{
		Exists:  true,
		Extract: "First sentence. Second sentence. Third sentence.",
	}

	f.d.Dispatch(intent.Command{Intent: intent.WikipediaLookup, Arg: "anything"})

	require.NotEmpty(t, f.out.spoken)
	assert.Equal(t, "According to Wikipedia: First sentence.  Second sentence", f.out.spoken[0])
	assert.Contains(t, f.console.String(), "Third sentence")
	assert.Contains(t, f.console.String(), "--- full summary start ---")
}

func TestWikipediaEmptyTopicPrompts(t *testing.T) {
	f := newFixture("the moon")
	f.knowledge.sum = wiki.Summary{Exists: true, Extract: "The moon is a moon."}

	f.d.Dispatch(intent.Command{Intent: intent.WikipediaLookup})

	require.Len(t, f.knowledge.topics, 1)
	assert.Equal(t, "the moon", f.knowledge.topics[0])
	assert.True(t, f.out.saidContaining("What should I search on Wikipedia?"))
}

func TestWikipediaNotFound(t *testing.T) {
	f := newFixture()
	f.knowledge.sum = wiki.Summary{Exists: false}

	f.d.Dispatch(intent.Command{Intent: intent.WikipediaLookup, Arg: "gibberish"})

	assert.True(t, f.out.saidContaining("couldn't find that page"))
	assert.Empty(t, f.console.String())
}

func TestWikipediaLookupError(t *testing.T) {
	f := newFixture()
	f.knowledge.err = errors.New("network down")

	f.d.Dispatch(intent.Command{Intent: intent.WikipediaLookup, Arg: "anything"})

	assert.True(t, f.out.saidContaining("couldn't reach Wikipedia"))
}

func TestOpenWebsiteShortcut(t *testing.T) {
	f := newFixture()

	f.d.Dispatch(intent.Command{Intent: intent.OpenWebsite, Arg: "youtube"})

	require.Len(t, f.browser.urls, 1)
	assert.Equal(t, "https://www.youtube.com", f.browser.urls[0])
	assert.True(t, f.out.saidContaining("Opening youtube"))
}

func TestOpenWebsiteBareDomain(t *testing.T) {
	f := newFixture()

	f.d.Dispatch(intent.Command{Intent: intent.OpenWebsite, Arg: "example.com"})

	require.Len(t, f.browser.urls, 1)
	assert.Equal(t, "http://example.com", f.browser.urls[0])
}

func TestOpenWebsiteFallsBackToSearch(t *testing.T) {
	f := newFixture()

	f.d.Dispatch(intent.Command{Intent: intent.OpenWebsite, Arg: "flying toasters"})

	require.Len(t, f.browser.urls, 1)
	assert.Equal(t, web.SearchURL("flying toasters"), f.browser.urls[0])
	assert.True(t, f.out.saidContaining("don't have a direct shortcut"))
}

func TestWebSearch(t *testing.T) {
	f := newFixture()

	f.d.Dispatch(intent.Command{Intent: intent.WebSearch, Arg: "rust programming"})

	require.Len(t, f.browser.urls, 1)
	assert.Equal(t, "https://www.google.com/search?q=rust+programming", f.browser.urls[0])
	assert.True(t, f.out.saidContaining("search results for rust programming"))
}

func TestWebSearchEmptyQueryPrompts(t *testing.T) {
	f := newFixture("cooking pasta")

	f.d.Dispatch(intent.Command{Intent: intent.WebSearch})

	assert.True(t, f.out.saidContaining("What should I search for?"))
	require.Len(t, f.browser.urls, 1)
	assert.Equal(t, web.SearchURL("cooking pasta"), f.browser.urls[0])
}

func TestTellTimeAndDate(t *testing.T) {
	f := newFixture()

	f.d.Dispatch(intent.Command{Intent: intent.TellTime})
	f.d.Dispatch(intent.Command{Intent: intent.TellDate})

	require.Len(t, f.out.spoken, 2)
	assert.True(t, strings.HasPrefix(f.out.spoken[0], "The time is "))
	assert.True(t, strings.HasSuffix(f.out.spoken[0], "AM") || strings.HasSuffix(f.out.spoken[0], "PM"))
	assert.True(t, strings.HasPrefix(f.out.spoken[1], "Today's date is "))
}

func TestWriteNote(t *testing.T) {
	f := newFixture("buy milk", "no thanks")

	f.d.Dispatch(intent.Command{Intent: intent.WriteNote})

	assert.Equal(t, []string{"buy milk"}, f.notes.contents)
	assert.True(t, f.out.saidContaining("Note saved."))
	assert.Empty(t, f.opener.paths, "declined, file must stay closed")
}

func TestWriteNoteEmptyContentCancels(t *testing.T) {
	f := newFixture("")

	f.d.Dispatch(intent.Command{Intent: intent.WriteNote})

	assert.Empty(t, f.notes.contents)
	assert.True(t, f.out.saidContaining("note canceled"))
}

func TestWriteNoteOpensFileWhenConfirmed(t *testing.T) {
	f := newFixture("buy milk", "yes please")

	f.d.Dispatch(intent.Command{Intent: intent.WriteNote})

	assert.Equal(t, []string{"/tmp/notes.json"}, f.opener.paths)
}

func TestWriteNoteSaveFailureSpoken(t *testing.T) {
	f := newFixture("buy milk")
	f.notes.err = errors.New("disk full")

	f.d.Dispatch(intent.Command{Intent: intent.WriteNote})

	assert.True(t, f.out.saidContaining("couldn't save the note"))
}

func TestSetReminderParsesFirstIntegerToken(t *testing.T) {
	f := newFixture("drink water", "please in 5 minutes ok")

	f.d.Dispatch(intent.Command{Intent: intent.SetReminder})

	require.Len(t, f.reminders.delays, 1)
	assert.Equal(t, 5*time.Minute, f.reminders.delays[0])
	assert.Equal(t, "drink water", f.reminders.messages[0])
	assert.True(t, f.out.saidContaining("remind you in 5 minutes"))
}

func TestSetReminderEmptyMessageCancels(t *testing.T) {
	f := newFixture("")

	f.d.Dispatch(intent.Command{Intent: intent.SetReminder})

	assert.Empty(t, f.reminders.delays)
	assert.True(t, f.out.saidContaining("Reminder canceled"))
}

func TestSetReminderUnparseableMinutesCancels(t *testing.T) {
	f := newFixture("drink water", "soon maybe later")

	f.d.Dispatch(intent.Command{Intent: intent.SetReminder})

	assert.Empty(t, f.reminders.delays)
	assert.True(t, f.out.saidContaining("couldn't parse the time in minutes"))
}

func TestTakePhotoUnavailable(t *testing.T) {
	f := newFixture()
	f.camera.available = false

	f.d.Dispatch(intent.Command{Intent: intent.TakePhoto})

	assert.True(t, f.out.saidContaining("No camera is available"))
	assert.Empty(t, f.opener.paths)
}

func TestTakePhotoDeviceFailure(t *testing.T) {
	f := newFixture()
	f.camera.available = true
	f.camera.err = camera.ErrNoDevice

	f.d.Dispatch(intent.Command{Intent: intent.TakePhoto})

	assert.True(t, f.out.saidContaining("Could not access the camera"))
}

func TestTakePhotoCaptureFailure(t *testing.T) {
	f := newFixture()
	f.camera.available = true
	f.camera.err = errors.New("frame grab failed")

	f.d.Dispatch(intent.Command{Intent: intent.TakePhoto})

	assert.True(t, f.out.saidContaining("Failed to capture photo"))
}

func TestTakePhotoSuccess(t *testing.T) {
	f := newFixture()
	f.camera.available = true
	f.camera.path = "/tmp/photo_123.png"

	f.d.Dispatch(intent.Command{Intent: intent.TakePhoto})

	assert.True(t, f.out.saidContaining("saved as photo_123.png"))
	assert.Equal(t, []string{"/tmp/photo_123.png"}, f.opener.paths)
}

func TestShutdownDeclined(t *testing.T) {
	f := newFixture("absolutely not")

	f.d.Dispatch(intent.Command{Intent: intent.ShutdownSystem})

	assert.Zero(t, f.power.shutdowns)
	assert.True(t, f.out.saidContaining("Shutdown canceled"))
}

func TestShutdownConfirmed(t *testing.T) {
	for _, answer := range []string{"yes do it", "I confirm"} {
		f := newFixture(answer)

		f.d.Dispatch(intent.Command{Intent: intent.ShutdownSystem})

		assert.Equal(t, 1, f.power.shutdowns, "answer %q", answer)
		assert.True(t, f.out.saidContaining("Shutting down"))
	}
}

func TestRestartDeclinedAndConfirmed(t *testing.T) {
	declined := newFixture("never")
	declined.d.Dispatch(intent.Command{Intent: intent.RestartSystem})
	assert.Zero(t, declined.power.restarts)
	assert.True(t, declined.out.saidContaining("Restart canceled"))

	confirmed := newFixture("yes")
	confirmed.d.Dispatch(intent.Command{Intent: intent.RestartSystem})
	assert.Equal(t, 1, confirmed.power.restarts)
}

func TestSmallTalk(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"how are you", "functioning correctly"},
		{"what is your name", "call me Assistant"},
		{"who are you really", "call me Assistant"},
		{"blah blah", "I can open websites"},
	}

	for _, tc := range cases {
		f := newFixture()
		f.d.Dispatch(intent.Command{Intent: intent.SmallTalk, Arg: tc.text})
		assert.True(t, f.out.saidContaining(tc.want), "text %q", tc.text)
	}
}

func TestFirstInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"please in 5 minutes ok", 5, true},
		{"10", 10, true},
		{"in 3 or 4 minutes", 3, true},
		{"soon", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		got, ok := firstInt(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestRunLoopExitsOnExitIntent(t *testing.T) {
	f := newFixture("", "what time is it", "exit")
	a := New(f.d)
	a.IdleDelay = 0

	a.Run(context.Background())

	assert.True(t, f.out.saidContaining("I am your voice assistant"))
	assert.True(t, f.out.saidContaining("The time is "))
	assert.True(t, f.out.saidContaining("Goodbye"))
}

func TestRunLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newFixture()
	a := New(f.d)
	a.IdleDelay = 0

	a.Run(ctx)

	assert.True(t, f.out.saidContaining("terminated by user"))
}
