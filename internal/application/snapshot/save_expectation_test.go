package snapshot

import (
	"testing"
	"time"

	"github.com/estlcameo/backend/internal/infrastructure/clock"
	"github.com/stretchr/testify/assert"
)

func TestSaveExpectation_FiresWhenNotObserved(t *testing.T) {
	clk := clock.NewFake(testStart)
	e := NewSaveExpectation(clk)
	missed := 0
	e.OnMissed(func() { missed++ })

	e.Arm(3 * time.Second)
	assert.True(t, e.Armed())

	clk.Advance(2 * time.Second)
	assert.Equal(t, 0, missed)

	clk.Advance(time.Second)
	assert.Equal(t, 1, missed)
	assert.False(t, e.Armed())
}

func TestSaveExpectation_ObserveClears(t *testing.T) {
	clk := clock.NewFake(testStart)
	e := NewSaveExpectation(clk)
	missed := 0
	e.OnMissed(func() { missed++ })

	e.Arm(3 * time.Second)
	assert.True(t, e.Observe())
	assert.False(t, e.Observe())

	clk.Advance(10 * time.Second)
	assert.Equal(t, 0, missed)
	assert.Equal(t, 0, clk.Pending())
}

func TestSaveExpectation_RearmReplaces(t *testing.T) {
	clk := clock.NewFake(testStart)
	e := NewSaveExpectation(clk)
	missed := 0
	e.OnMissed(func() { missed++ })

	e.Arm(3 * time.Second)
	clk.Advance(2 * time.Second)
	e.Arm(3 * time.Second)

	clk.Advance(2 * time.Second)
	assert.Equal(t, 0, missed, "first deadline must not fire after re-arm")

	clk.Advance(time.Second)
	assert.Equal(t, 1, missed)

	clk.Advance(10 * time.Second)
	assert.Equal(t, 1, missed)
}

func TestSaveExpectation_Cancel(t *testing.T) {
	clk := clock.NewFake(testStart)
	e := NewSaveExpectation(clk)
	missed := 0
	e.OnMissed(func() { missed++ })

	e.Arm(time.Second)
	e.Cancel()
	clk.Advance(5 * time.Second)

	assert.Equal(t, 0, missed)
	assert.False(t, e.Armed())
}

func TestSaveExpectation_CallbackMayRearm(t *testing.T) {
	clk := clock.NewFake(testStart)
	e := NewSaveExpectation(clk)
	missed := 0
	e.OnMissed(func() {
		missed++
		if missed == 1 {
			e.Arm(time.Second)
		}
	})

	e.Arm(time.Second)
	clk.Advance(time.Second)
	assert.True(t, e.Armed())
	clk.Advance(time.Second)
	assert.Equal(t, 2, missed)
}
