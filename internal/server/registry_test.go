package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travellabs/tripbot/internal/dialogue"
	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/testutil"
)

func newBareSession() *dialogue.Session {
	return dialogue.NewSession(testutil.NewScriptedLLM(), dialogue.Config{})
}

func TestRegistry_SweepDropsIdleSessions(t *testing.T) {
	clock := may19
	r := NewRegistry()
	r.now = func() time.Time { return clock }

	idle, active := newBareSession(), newBareSession()
	r.Put(idle)
	r.Put(active)

	clock = clock.Add(20 * time.Minute)
	_, ok := r.Get(active.ID())
	require.True(t, ok)

	clock = clock.Add(15 * time.Minute)
	assert.Equal(t, 1, r.Sweep(30*time.Minute))

	_, ok = r.Get(idle.ID())
	assert.False(t, ok)
	_, ok = r.Get(active.ID())
	assert.True(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_SweepKeepsFreshSessions(t *testing.T) {
	r := NewRegistry()
	r.Put(newBareSession())
	assert.Zero(t, r.Sweep(time.Hour))
	assert.Equal(t, 1, r.Len())
}

func TestServer_SweepsIdleSessionsWhileRunning(t *testing.T) {
	srv, err := New(func(lang domain.Language) *dialogue.Session {
		return dialogue.NewSession(testutil.NewScriptedLLM(), dialogue.Config{Language: lang})
	}, nil, Config{SessionTTL: time.Millisecond, SweepInterval: 5 * time.Millisecond}, nil)
	require.NoError(t, err)
	srv.Registry().Put(newBareSession())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.sweepIdle(ctx)
	}()

	assert.Eventually(t, func() bool { return srv.Registry().Len() == 0 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
