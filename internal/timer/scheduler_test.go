package timer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerSchedulerPostsOntoLoop(t *testing.T) {
	loop := NewLoop(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	var ticks atomic.Int32
	sched := NewTickerScheduler(loop.Post).WithInterval(time.Millisecond)
	stop := sched.Every(time.Hour, func() { ticks.Add(1) })

	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)
	stop()
	stop()

	settled := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, ticks.Load(), settled+1)

	cancel()
	assert.True(t, errors.Is(<-done, context.Canceled))

	// Posting after Run returned must not block.
	loop.Post(func() {})
}

func TestManualSchedulerCancel(t *testing.T) {
	sched := NewManualScheduler()
	var a, b int
	cancelA := sched.Every(time.Second, func() { a++ })
	sched.Every(time.Second, func() { b++ })

	sched.Fire(2)
	cancelA()
	sched.Fire(1)

	assert.Equal(t, 2, a)
	assert.Equal(t, 3, b)
	assert.Equal(t, 1, sched.Active())
}
