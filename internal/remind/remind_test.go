package remind

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleFiresOnceWithMessage(t *testing.T) {
	spoken := make(chan string, 2)
	s := NewScheduler(func(text string) { spoken <- text })

	s.Schedule(10*time.Millisecond, "drink water")

	select {
	case got := <-spoken:
		assert.Equal(t, "Reminder: drink water", got)
	case <-time.After(2 * time.Second):
		t.Fatal("reminder never fired")
	}

	select {
	case got := <-spoken:
		t.Fatalf("reminder fired twice: %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestScheduleDoesNotBlockCaller(t *testing.T) {
	s := NewScheduler(func(string) {})

	start := time.Now()
	s.Schedule(time.Hour, "far future")
	require.Less(t, time.Since(start), 100*time.Millisecond)
}
