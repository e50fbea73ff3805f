package taskController

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartInstant(t *testing.T) {
	now := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)

	t.Run("defaults to now", func(t *testing.T) {
		assert.Equal(t, now, startInstant(nil, now))
		assert.Equal(t, now, startInstant(&StartTaskRequest{}, now))
	})

	t.Run("uses the supplied instant", func(t *testing.T) {
		reported := now.Add(-20 * time.Minute)
		request := &StartTaskRequest{StartedAt: &reported}
		assert.Equal(t, reported, startInstant(request, now))
	})
}
