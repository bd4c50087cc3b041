package speech

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInput struct{ text string }

func (s stubInput) Listen(timeout, phraseLimit time.Duration) (string, error) {
	return s.text, nil
}

func TestQueuePrefersInjectedCommands(t *testing.T) {
	q := NewQueue(stubInput{text: "from device"})

	q.Push("open youtube")
	q.Push("what time is it")

	got, err := q.Listen(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "open youtube", got)

	got, err = q.Listen(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "what time is it", got)

	got, err = q.Listen(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "from device", got)
}
