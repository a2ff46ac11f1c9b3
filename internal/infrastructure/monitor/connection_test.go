package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonitor_Refresh(t *testing.T) {
	healthy := true
	m := New(time.Hour, nil)
	m.AddProbe("storage", time.Second, func(context.Context) error { return nil })
	m.AddProbe("redis", time.Second, func(context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("connection refused")
	})

	assert.False(t, m.IsOnline(), "no check has run yet")

	m.Refresh()
	assert.True(t, m.IsOnline())
	assert.Equal(t, map[string]bool{"storage": true, "redis": true}, m.GetStatus().Services)

	healthy = false
	m.Refresh()
	assert.False(t, m.IsOnline())
	assert.False(t, m.GetStatus().Services["redis"])
	assert.True(t, m.GetStatus().Services["storage"])
}

func TestMonitor_ProbeTimeout(t *testing.T) {
	m := New(time.Hour, nil)
	m.AddProbe("slow", 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	m.Refresh()
	assert.False(t, m.GetStatus().Services["slow"])
}

func TestMonitor_StartStop(t *testing.T) {
	m := New(time.Millisecond, nil)
	m.AddProbe("storage", time.Second, func(context.Context) error { return nil })
	m.Start()
	assert.True(t, m.IsOnline())
	m.Stop()
	m.Stop()
}
