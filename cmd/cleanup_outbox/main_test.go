package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/light-bringer/rawsy-service/internal/models/m_outbox"
)

func TestRetentionParams(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	r := retention{Completed: 30 * 24 * time.Hour, Failed: 90 * 24 * time.Hour}

	p := r.params(now)
	assert.Equal(t, m_outbox.StatusCompleted, p["completed"])
	assert.Equal(t, m_outbox.StatusFailed, p["failed"])
	assert.Equal(t, time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), p["completedCutoff"])
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), p["failedCutoff"])
}
