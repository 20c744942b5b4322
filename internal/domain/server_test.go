package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyStart(t *testing.T) {
	now := time.Now()

	// Start only transitions a stopped server
	s := RentedServer{Status: StatusStopped, StoppedAt: &now}
	changed, err := s.Apply(ActionStart, now)
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusRunning, s.Status)
	assert.Equal(t, &now, s.StartedAt)
	assert.Nil(t, s.StoppedAt) // Stop timestamp cleared on start

	// Starting an already-running server is a no-op
	started := now.Add(-time.Hour)
	s = RentedServer{Status: StatusRunning, StartedAt: &started}
	changed, err = s.Apply(ActionStart, now)
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, StatusRunning, s.Status)
	assert.Equal(t, &started, s.StartedAt) // Untouched
}

func TestApplyStop(t *testing.T) {
	now := time.Now()

	s := RentedServer{Status: StatusRunning}
	changed, err := s.Apply(ActionStop, now)
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusStopped, s.Status)
	assert.Equal(t, &now, s.StoppedAt)

	// Stopping a stopped server is a no-op
	changed, err = s.Apply(ActionStop, now.Add(time.Minute))
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, &now, s.StoppedAt) // Untouched
}

func TestApplyRestart(t *testing.T) {
	now := time.Now()

	// Restart from running
	s := RentedServer{Status: StatusRunning}
	changed, err := s.Apply(ActionRestart, now)
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusRunning, s.Status)
	assert.Equal(t, &now, s.StartedAt)

	// Restart from stopped
	s = RentedServer{Status: StatusStopped, StoppedAt: &now}
	changed, err = s.Apply(ActionRestart, now)
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusRunning, s.Status)
	assert.Nil(t, s.StoppedAt)
}

func TestApplyTerminate(t *testing.T) {
	now := time.Now()

	// Terminate works from every non-terminated state
	for _, status := range []string{StatusStarting, StatusRunning, StatusStopped} {
		s := RentedServer{Status: status}
		changed, err := s.Apply(ActionTerminate, now)
		assert.NoError(t, err)
		assert.True(t, changed, "terminate from %s", status)
		assert.Equal(t, StatusTerminated, s.Status)
		assert.Equal(t, &now, s.TerminatedAt)
	}
}

func TestTerminatedIsTerminal(t *testing.T) {
	then := time.Now()
	s := RentedServer{Status: StatusTerminated, TerminatedAt: &then}

	// No action moves a terminated server
	for _, action := range []string{ActionStart, ActionStop, ActionRestart, ActionTerminate} {
		changed, err := s.Apply(action, then.Add(time.Minute))
		assert.NoError(t, err)
		assert.False(t, changed, "action %s on terminated server", action)
		assert.Equal(t, StatusTerminated, s.Status)
		assert.Equal(t, &then, s.TerminatedAt) // Untouched
	}
}

func TestApplyUnknownAction(t *testing.T) {
	s := RentedServer{Status: StatusRunning}
	changed, err := s.Apply("reboot", time.Now())
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.False(t, changed)
	assert.Equal(t, StatusRunning, s.Status)
}
