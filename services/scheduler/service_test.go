package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService_Validation(t *testing.T) {
	_, err := NewService("not a cron", nil, 0)
	require.Error(t, err)

	_, err = NewService("*/30 * * * *", nil, 0, Task{Name: "a"})
	require.Error(t, err, "task without run func")

	noop := func(context.Context) error { return nil }
	_, err = NewService("*/30 * * * *", nil, 0, Task{Name: "a", Run: noop}, Task{Name: "a", Run: noop})
	require.Error(t, err, "duplicate task")
}

func TestRunNow_RecordsStatus(t *testing.T) {
	boom := errors.New("upstream down")
	svc, err := NewService("*/30 * * * *", time.UTC, time.Second,
		Task{Name: "schedule", Run: func(context.Context) error { return nil }},
		Task{Name: "tvplus", Run: func(context.Context) error { return boom }},
	)
	require.NoError(t, err)

	require.NoError(t, svc.RunNow(context.Background(), "schedule"))
	require.ErrorIs(t, svc.RunNow(context.Background(), "tvplus"), boom)
	require.ErrorIs(t, svc.RunNow(context.Background(), "nope"), ErrUnknownTask)

	status := svc.Status()
	require.Len(t, status, 2)
	assert.Equal(t, "schedule", status[0].Name)
	assert.NotNil(t, status[0].LastRunAt)
	assert.Empty(t, status[0].LastError)
	assert.Equal(t, "tvplus", status[1].Name)
	assert.Equal(t, "upstream down", status[1].LastError)
}

func TestRunNow_SkipsOverlappingRun(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	svc, err := NewService("*/30 * * * *", time.UTC, time.Second, Task{Name: "slow", Run: func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- svc.RunNow(context.Background(), "slow") }()
	<-started

	require.ErrorIs(t, svc.RunNow(context.Background(), "slow"), ErrTaskRunning)
	assert.True(t, svc.Status()[0].Running)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, svc.Status()[0].Running)
}

func TestRunNow_AppliesTimeout(t *testing.T) {
	svc, err := NewService("*/30 * * * *", time.UTC, 20*time.Millisecond, Task{Name: "hang", Run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})
	require.NoError(t, err)

	err = svc.RunNow(context.Background(), "hang")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStartWarmAndStop(t *testing.T) {
	var runs atomic.Int32
	ran := make(chan struct{}, 2)
	svc, err := NewService("0 4 * * *", time.UTC, time.Second,
		Task{Name: "a", Run: func(context.Context) error { runs.Add(1); ran <- struct{}{}; return nil }},
		Task{Name: "b", Run: func(context.Context) error { runs.Add(1); ran <- struct{}{}; return nil }},
	)
	require.NoError(t, err)

	require.NoError(t, svc.Start(context.Background(), true))
	require.ErrorIs(t, svc.Start(context.Background(), true), ErrAlreadyStarted)

	for i := 0; i < 2; i++ {
		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatal("warm-up did not run every task")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, svc.Stop(ctx))
	assert.Equal(t, int32(2), runs.Load())
	require.NoError(t, svc.Stop(ctx), "second stop is a no-op")
}
