package speech

import (
	"encoding/json"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Remote speaks the assistant's JSON channel protocol over a websocket, for
// running the dispatch loop against a remote audio frontend instead of
// local devices. The frontend sends "command" messages with recognized text
// and plays back "speech" messages.
//
// Speak can be called from reminder timers and the interrupt handler while
// the dispatch loop is talking; writeMu serializes them because the
// websocket allows only one concurrent writer.
type Remote struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

type channelMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

func DialRemote(wsURL string) (*Remote, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("channel url: %w", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial channel: %w", err)
	}

	log.Info("Connected to speech channel", "url", wsURL)
	return &Remote{conn: conn}, nil
}

func (r *Remote) Close() error { return r.conn.Close() }

// Listen waits for the next "command" message. A read deadline stands in
// for the microphone timeout; hitting it is silence, not an error.
func (r *Remote) Listen(timeout, phraseLimit time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if err := r.conn.SetReadDeadline(time.Now().Add(timeout + phraseLimit)); err != nil {
		return "", err
	}

	for {
		_, data, err := r.conn.ReadMessage()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				return "", nil
			}
			return "", fmt.Errorf("channel read: %w", err)
		}

		var m channelMessage
		if err := json.Unmarshal(data, &m); err != nil {
			log.Warn("Bad channel message", "err", err)
			continue
		}
		if m.Kind != "command" {
			continue
		}
		return m.Content, nil
	}
}

func (r *Remote) Speak(text string) {
	if text == "" {
		return
	}

	fmt.Println("[Assistant]:", text)

	m := channelMessage{From: "aide", Kind: "speech", Content: text}
	data, err := json.Marshal(m)
	if err != nil {
		log.Error("Marshal speech message", "err", err)
		return
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if err := r.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Error("Write speech message", "err", err)
	}
}
