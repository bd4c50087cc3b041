// Package intent maps normalized command text onto a closed set of intents
// using ordered substring rules. Classification is pure: no I/O, no state.
package intent

import "strings"

type Intent int

const (
	Unknown Intent = iota
	Exit
	WikipediaLookup
	OpenWebsite
	WebSearch
	TellTime
	TellDate
	WriteNote
	SetReminder
	TakePhoto
	ShutdownSystem
	RestartSystem
	SmallTalk
)

var intentNames = map[Intent]string{
	Unknown:         "unknown",
	Exit:            "exit",
	WikipediaLookup: "wikipedia",
	OpenWebsite:     "open_website",
	WebSearch:       "web_search",
	TellTime:        "tell_time",
	TellDate:        "tell_date",
	WriteNote:       "write_note",
	SetReminder:     "set_reminder",
	TakePhoto:       "take_photo",
	ShutdownSystem:  "shutdown",
	RestartSystem:   "restart",
	SmallTalk:       "small_talk",
}

func (i Intent) String() string {
	if s, ok := intentNames[i]; ok {
		return s
	}
	return "unknown"
}

// Command is a classified utterance: the intent plus whatever argument the
// matching rule extracted (search topic, site key, or the full text for
// small talk).
type Command struct {
	Intent Intent
	Arg    string
}

type rule struct {
	match func(string) bool
	build func(string) Command
}

// Classifier evaluates an ordered rule list, first match wins. The order is
// part of the contract: a command containing both "time" and "note" is a
// time query because the time rule comes first.
type Classifier struct {
	rules []rule
}

var exitWords = []string{"exit", "quit", "goodbye", "stop", "bye"}

// NewClassifier builds the rule chain. shortcutKeys are the site keys of the
// website shortcut table, checked in the given order by the open-shortcut
// rule near the end of the chain.
func NewClassifier(shortcutKeys []string) *Classifier {
	keys := append([]string(nil), shortcutKeys...)

	c := &Classifier{}
	c.rules = []rule{
		{
			match: func(s string) bool { return containsAny(s, exitWords) },
			build: func(s string) Command { return Command{Intent: Exit} },
		},
		{
			match: func(s string) bool { return strings.Contains(s, "wikipedia") },
			build: func(s string) Command {
				// Strips every occurrence of the literal substring, not
				// just whole words. Kept for compatibility.
				return Command{WikipediaLookup, strings.TrimSpace(strings.ReplaceAll(s, "wikipedia", ""))}
			},
		},
		{
			match: func(s string) bool { return strings.HasPrefix(s, "open ") },
			build: func(s string) Command {
				return Command{OpenWebsite, strings.TrimSpace(strings.ReplaceAll(s, "open ", ""))}
			},
		},
		{
			match: func(s string) bool {
				return strings.Contains(s, "search for") || strings.HasPrefix(s, "search ") || strings.Contains(s, "google ")
			},
			build: func(s string) Command {
				var q string
				if strings.Contains(s, "search for") || strings.HasPrefix(s, "search ") {
					q = strings.ReplaceAll(s, "search for", "")
					q = strings.ReplaceAll(q, "search", "")
				} else {
					q = strings.ReplaceAll(s, "google", "")
				}
				return Command{WebSearch, strings.TrimSpace(q)}
			},
		},
		{
			match: func(s string) bool { return strings.Contains(s, "time") },
			build: func(s string) Command { return Command{Intent: TellTime} },
		},
		{
			match: func(s string) bool { return strings.Contains(s, "date") },
			build: func(s string) Command { return Command{Intent: TellDate} },
		},
		{
			match: func(s string) bool {
				return strings.Contains(s, "write a note") || strings.Contains(s, "take note") || strings.Contains(s, "note")
			},
			build: func(s string) Command { return Command{Intent: WriteNote} },
		},
		{
			match: func(s string) bool {
				return strings.Contains(s, "remind me") || strings.Contains(s, "set reminder")
			},
			build: func(s string) Command { return Command{Intent: SetReminder} },
		},
		{
			match: func(s string) bool {
				return strings.Contains(s, "take a photo") || strings.Contains(s, "take photo") || strings.Contains(s, "capture photo")
			},
			build: func(s string) Command { return Command{Intent: TakePhoto} },
		},
		{
			match: func(s string) bool {
				return hasAnyPrefix(s, "who is ", "what is ", "tell me about ")
			},
			build: func(s string) Command {
				for _, p := range []string{"who is ", "what is ", "tell me about "} {
					if strings.HasPrefix(s, p) {
						return Command{WikipediaLookup, strings.TrimSpace(strings.TrimPrefix(s, p))}
					}
				}
				return Command{Intent: WikipediaLookup}
			},
		},
		{
			match: func(s string) bool { return strings.Contains(s, "shutdown") },
			build: func(s string) Command { return Command{Intent: ShutdownSystem} },
		},
		{
			match: func(s string) bool {
				return strings.Contains(s, "restart") || strings.Contains(s, "reboot")
			},
			build: func(s string) Command { return Command{Intent: RestartSystem} },
		},
		{
			match: func(s string) bool { return shortcutKey(s, keys) != "" },
			build: func(s string) Command { return Command{OpenWebsite, shortcutKey(s, keys)} },
		},
		{
			match: func(s string) bool { return true },
			build: func(s string) Command { return Command{SmallTalk, s} },
		},
	}

	return c
}

// Classify normalizes the utterance and walks the rule chain. Empty text
// yields Unknown, which the dispatcher treats as a no-op.
func (c *Classifier) Classify(text string) Command {
	s := strings.TrimSpace(strings.ToLower(text))
	if s == "" {
		return Command{Intent: Unknown}
	}

	for _, r := range c.rules {
		if r.match(s) {
			return r.build(s)
		}
	}

	return Command{Intent: Unknown}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func shortcutKey(s string, keys []string) string {
	if !strings.Contains(s, "open") {
		return ""
	}
	for _, k := range keys {
		if strings.Contains(s, k) {
			return k
		}
	}
	return ""
}
