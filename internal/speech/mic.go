package speech

import (
	"context"
	"fmt"
	log "log/slog"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"

	"aide/pkg/stt"
)

const (
	sampleRate    = 16000
	frameSize     = 320 // 20ms
	frameDuration = 20 * time.Millisecond

	baseThresholdRMS = 0.015
	calibrationTime  = 600 * time.Millisecond
	trailingSilence  = 800 * time.Millisecond
)

// Microphone captures from the default input device and transcribes with
// whisper.cpp. Each Listen call opens and closes its own stream, so the
// device is never held between commands.
type Microphone struct {
	tr    *stt.Transcriber
	Chime func()
}

func NewMicrophone(tr *stt.Transcriber) *Microphone {
	return &Microphone{tr: tr}
}

// Init must be called once before Listen, Close once after the last one.
func (m *Microphone) Init() error { return portaudio.Initialize() }
func (m *Microphone) Close()      { portaudio.Terminate() }

// Listen waits up to timeout for speech to start, records until the speaker
// pauses or phraseLimit is reached, then transcribes. It returns "" on
// silence; errors cover device and transcription failures only.
func (m *Microphone) Listen(timeout, phraseLimit time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if phraseLimit <= 0 {
		phraseLimit = 8 * time.Second
	}

	if m.Chime != nil {
		m.Chime()
	}

	pcm, err := record(timeout, phraseLimit)
	if err != nil {
		return "", fmt.Errorf("microphone: %w", err)
	}
	if len(pcm) == 0 {
		return "", nil
	}

	log.Debug("Recorded", "samples", len(pcm))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res, err := m.tr.Transcribe(ctx, pcm, stt.Options{Language: "en"})
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	log.Info("Recognized", "text", res.Text)
	return res.Text, nil
}

func record(timeout, phraseLimit time.Duration) ([]float32, error) {
	buf := make([]float32, frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	// Ambient-noise calibration: measure the room for a moment and raise
	// the speech threshold above whatever hum is already there.
	var ambient float64
	calFrames := int(calibrationTime / frameDuration)
	for i := 0; i < calFrames; i++ {
		if err := stream.Read(); err != nil {
			return nil, err
		}
		ambient += frameRMS(buf)
	}
	ambient /= float64(calFrames)

	threshold := baseThresholdRMS
	if t := ambient * 1.5; t > threshold {
		threshold = t
	}

	out := make([]float32, 0, sampleRate*3)
	silenceLimit := int(trailingSilence / frameDuration)

	var (
		speaking      bool
		silenceFrames int
		waited        time.Duration
		recorded      time.Duration
	)

	for {
		if !speaking && waited >= timeout {
			return nil, nil
		}
		if speaking && recorded >= phraseLimit {
			break
		}

		if err := stream.Read(); err != nil {
			return nil, err
		}

		if frameRMS(buf) > threshold {
			speaking = true
			silenceFrames = 0
			out = append(out, buf...)
		} else if speaking {
			silenceFrames++
			if silenceFrames >= silenceLimit {
				break
			}
			out = append(out, buf...)
		}

		if speaking {
			recorded += frameDuration
		} else {
			waited += frameDuration
		}
	}

	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
