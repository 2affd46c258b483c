package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake_AdvanceFiresDueTimers(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFake(start)

	var fired []string
	c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	c.AfterFunc(time.Second, func() { fired = append(fired, "a") })

	c.Advance(500 * time.Millisecond)
	assert.Empty(t, fired)
	assert.Equal(t, 2, c.Pending())

	c.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, start.Add(2500*time.Millisecond), c.Now())
	assert.Equal(t, 0, c.Pending())
}

func TestFake_StopPreventsFire(t *testing.T) {
	c := NewFake(time.Now())

	called := false
	timer := c.AfterFunc(time.Second, func() { called = true })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	c.Advance(2 * time.Second)
	assert.False(t, called)
}

func TestFake_SleepAdvances(t *testing.T) {
	start := time.Now()
	c := NewFake(start)

	c.Sleep(200 * time.Millisecond)
	c.Sleep(200 * time.Millisecond)

	assert.Equal(t, []time.Duration{200 * time.Millisecond, 200 * time.Millisecond}, c.Slept())
	assert.Equal(t, start.Add(400*time.Millisecond), c.Now())
}
