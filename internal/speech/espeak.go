package speech

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <espeak-ng/speak_lib.h>

int
espeak_say(const char *text)
{
	if (!text)
	{ return -1; }

	espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0);
	espeak_VOICE specs = { .languages = "en" };
	espeak_SetVoiceByProperties(&specs);

	espeak_Synth(text, 500, 0, 0, 0, espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return 0;
}
*/
import "C"

import (
	"fmt"
	log "log/slog"
	"sync"
	"unsafe"
)

// espeak_say tears the whole engine up and down per call and is not
// reentrant; reminder timers fire on their own goroutines, so calls must
// be serialized.
var espeakMu sync.Mutex

// Voice speaks through espeak-ng. Synthesis is synchronous: Speak returns
// only after the audio has played. Text is always echoed to the console so
// the session is readable without sound.
type Voice struct{}

func (Voice) Speak(text string) {
	if text == "" {
		return
	}

	espeakMu.Lock()
	defer espeakMu.Unlock()

	fmt.Println("[Assistant]:", text)

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))

	if rc := C.espeak_say(ctext); rc != 0 {
		log.Error("espeak synthesis failed", "rc", int(rc))
	}
}
