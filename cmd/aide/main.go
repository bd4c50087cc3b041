package main

import (
	"context"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	cli "github.com/spf13/pflag"

	"aide/internal/assistant"
	"aide/internal/camera"
	"aide/internal/ipc"
	"aide/internal/notes"
	"aide/internal/notify"
	"aide/internal/platform"
	"aide/internal/remind"
	"aide/internal/speech"
	"aide/internal/web"
	"aide/internal/wiki"
	"aide/pkg/audioconv"
	"aide/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	console := cli.BoolP("console", "c", false, "Type commands instead of speaking them")
	channel := cli.String("channel", "", "Websocket URL of a remote speech frontend")
	proxyAddr := cli.StringP("proxy", "p", "", "SOCKS proxy address for Wikipedia lookups")
	notesPath := cli.StringP("notes", "n", "", "Notes file path")
	modelPath := cli.StringP("model", "m", "", "Whisper model path")
	chimePath := cli.String("chime", "chime.mp3", "Listening chime mp3")
	socketPath := cli.String("socket", ipc.DefaultSocketPath, "Control socket path")
	listenTimeout := cli.Duration("listen-timeout", 10*time.Second, "How long to wait for speech to start")
	phraseLimit := cli.Duration("phrase-limit", 8*time.Second, "Maximum phrase length")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)

	if *notesPath == "" {
		*notesPath = os.Getenv("AIDE_NOTES_FILE")
	}
	if *notesPath == "" {
		*notesPath = "notes.json"
	}
	if *modelPath == "" {
		*modelPath = os.Getenv("WHISPER_MODEL")
	}
	if *modelPath == "" {
		*modelPath = "models/ggml-base.en.bin"
	}

	var transcriber *stt.Transcriber
	if _, err := os.Stat(*modelPath); err == nil {
		transcriber, err = stt.NewTranscriber(*modelPath)
		if err != nil {
			log.Error("Failed to load whisper model", "path", *modelPath, "err", err)
			os.Exit(1)
		}
		defer transcriber.Close()
		log.Debug("Loaded whisper model", "path", *modelPath)
	}

	var (
		in  speech.Input
		out speech.Output
	)

	switch {
	case *console:
		c := speech.NewConsole()
		in, out = c, c
		log.Debug("Console speech adapters")
	case *channel != "":
		remote, err := speech.DialRemote(*channel)
		if err != nil {
			log.Error("Failed to connect speech channel", "url", *channel, "err", err)
			os.Exit(1)
		}
		defer remote.Close()
		in, out = remote, remote
	default:
		if transcriber == nil {
			log.Error("Whisper model not found, microphone mode needs one", "path", *modelPath)
			os.Exit(1)
		}
		mic := speech.NewMicrophone(transcriber)
		if err := mic.Init(); err != nil {
			log.Error("Failed to init audio", "err", err)
			os.Exit(1)
		}
		defer mic.Close()
		if *chimePath != "" {
			mic.Chime = notify.Chimer(*chimePath)
		}
		in, out = mic, speech.Voice{}
		log.Debug("Loaded recorder")
	}

	queue := speech.NewQueue(in)

	wikiOpts := []wiki.Option{}
	if *proxyAddr != "" {
		httpClient, err := wiki.SocksClient(*proxyAddr)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
			os.Exit(1)
		}
		wikiOpts = append(wikiOpts, wiki.WithHTTPClient(httpClient))
		log.Debug("Loaded proxy")
	}

	cam := camera.Detect(".")
	if !cam.Available() {
		log.Debug("No camera capture tool found")
	}

	dispatcher := &assistant.Dispatcher{
		In:            queue,
		Out:           out,
		Knowledge:     wiki.NewClient(wikiOpts...),
		Browser:       web.Browser{},
		Opener:        platform.Opener{},
		Power:         platform.Power{},
		Camera:        cam,
		Notes:         notes.NewStore(*notesPath),
		Reminders:     remind.NewScheduler(out.Speak),
		Shortcuts:     web.DefaultShortcuts(),
		ListenTimeout: *listenTimeout,
		PhraseLimit:   *phraseLimit,
	}

	if err := ipc.StartServer(*socketPath, func(msg ipc.ControlMessage) {
		handleControl(msg, queue, transcriber)
	}); err != nil {
		log.Error("Failed to start control socket", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the first signal cancels the loop, which speaks its own farewell; a
	// second one falls through to the default disposition and kills us
	go func() {
		<-ctx.Done()
		stop()
	}()

	log.Info("Boot up - successful")

	assistant.New(dispatcher).Run(ctx)
}

func handleControl(msg ipc.ControlMessage, queue *speech.Queue, transcriber *stt.Transcriber) {
	switch msg.Cmd {
	case "say":
		queue.Push(msg.Text)
	case "transcribe":
		if transcriber == nil {
			log.Warn("No whisper model loaded, cannot transcribe", "file", msg.Text)
			return
		}
		pcm, err := audioconv.DecodeFile(msg.Text)
		if err != nil {
			log.Error("Failed to decode audio file", "file", msg.Text, "err", err)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		res, err := transcriber.Transcribe(ctx, pcm, stt.Options{Language: "en"})
		if err != nil {
			log.Error("Failed to transcribe audio file", "file", msg.Text, "err", err)
			return
		}
		log.Info("Transcribed control audio", "file", msg.Text, "text", res.Text)
		queue.Push(res.Text)
	default:
		log.Warn("Unknown control command", "cmd", msg.Cmd)
	}
}
