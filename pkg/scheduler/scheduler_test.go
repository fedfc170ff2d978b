package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lockStub struct {
	mu       sync.Mutex
	held     map[string]string
	released []string
	err      error
}

func (l *lockStub) AcquireLock(_ context.Context, key, owner string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	if l.held == nil {
		l.held = map[string]string{}
	}
	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = owner
	return true, nil
}

func (l *lockStub) ReleaseLock(_ context.Context, key, owner string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == owner {
		delete(l.held, key)
	}
	l.released = append(l.released, key)
	return nil
}

func TestRunOnceTakesAndReleasesLock(t *testing.T) {
	locks := &lockStub{}
	s := New(locks, nil)
	runs := 0
	ran := s.RunOnce(context.Background(), Task{Name: "risk-scan", Timeout: time.Second, LockTTL: time.Minute, Run: func(context.Context) error {
		runs++
		return nil
	}})
	assert.True(t, ran)
	assert.Equal(t, 1, runs)
	assert.Equal(t, []string{"lock:task:risk-scan"}, locks.released)
	assert.Empty(t, locks.held)
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	locks := &lockStub{held: map[string]string{"lock:task:risk-scan": "other"}}
	s := New(locks, nil)
	ran := s.RunOnce(context.Background(), Task{Name: "risk-scan", Timeout: time.Second, LockTTL: time.Minute, Run: func(context.Context) error {
		t.Fatal("task must not run")
		return nil
	}})
	assert.False(t, ran)

	locks = &lockStub{err: errors.New("redis down")}
	ran = New(locks, nil).RunOnce(context.Background(), Task{Name: "risk-scan", Timeout: time.Second, LockTTL: time.Minute, Run: func(context.Context) error {
		return nil
	}})
	assert.False(t, ran)
}

func TestAddValidatesSpec(t *testing.T) {
	s := New(nil, nil)
	require.Error(t, s.Add(Task{Name: "bad", Spec: "not a spec", Run: func(context.Context) error { return nil }}))
	require.Error(t, s.Add(Task{Name: "empty", Spec: "@every 1m"}))
	require.NoError(t, s.Add(Task{Name: "ok", Spec: "@every 1m", Run: func(context.Context) error { return nil }}))
}
