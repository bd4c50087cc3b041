package speech

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Console is a text stand-in for the audio adapters: commands are typed,
// responses are printed. Dispatch logic upstream cannot tell the
// difference.
type Console struct {
	r *bufio.Reader
	w io.Writer
}

func NewConsole() *Console {
	return &Console{r: bufio.NewReader(os.Stdin), w: os.Stdout}
}

func (c *Console) Listen(timeout, phraseLimit time.Duration) (string, error) {
	fmt.Fprint(c.w, "[You]: ")
	line, err := c.r.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			// closed stdin ends the session instead of spinning
			return "goodbye", nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) Speak(text string) {
	if text == "" {
		return
	}
	fmt.Fprintln(c.w, "[Assistant]:", text)
}
