package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPauseExpiresOnItsOwn(t *testing.T) {
	registry := NewPauseRegistry()
	current := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	registry.now = func() time.Time { return current }

	registry.Pause("5534991112222", 60)
	assert.True(t, registry.IsPaused("5534991112222"))

	current = current.Add(59 * time.Minute)
	assert.True(t, registry.IsPaused("5534991112222"))

	current = current.Add(2 * time.Minute)
	assert.False(t, registry.IsPaused("5534991112222"))
	assert.Empty(t, registry.ListPaused())
}

func TestResumeClearsImmediately(t *testing.T) {
	registry := NewPauseRegistry()
	registry.Pause("5534991112222", 60)
	registry.Resume("5534991112222")
	assert.False(t, registry.IsPaused("5534991112222"))
}

func TestListPausedIsSorted(t *testing.T) {
	registry := NewPauseRegistry()
	registry.Pause("5534993334444", 60)
	registry.Pause("5534991112222", 60)
	assert.Equal(t, []string{"5534991112222", "5534993334444"}, registry.ListPaused())
}
