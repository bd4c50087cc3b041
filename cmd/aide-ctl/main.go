package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"aide/internal/ipc"
)

func main() {
	socketPath := cli.String("socket", ipc.DefaultSocketPath, "Control socket path")
	audioFile := cli.StringP("audio", "a", "", "Recorded audio file to run as a command")
	cli.Parse()

	var msg ipc.ControlMessage
	switch {
	case *audioFile != "":
		msg = ipc.ControlMessage{Cmd: "transcribe", Text: *audioFile}
	case cli.NArg() > 0:
		msg = ipc.ControlMessage{Cmd: "say", Text: strings.Join(cli.Args(), " ")}
	default:
		fmt.Fprintln(os.Stderr, "usage: aide-ctl [--audio file] [command text]")
		os.Exit(2)
	}

	if err := ipc.Send(*socketPath, msg); err != nil {
		fmt.Println("aide not running:", err)
		os.Exit(1)
	}
}
