package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScope_DisposeReleasesOnlyItsOwn(t *testing.T) {
	bus := NewBus()

	shellCalls, pageCalls := 0, 0
	bus.Subscribe(SessionChanged, func(any) { shellCalls++ })

	scope := bus.Scope()
	scope.Subscribe(SessionChanged, func(any) { pageCalls++ })
	scope.Subscribe(Navigated, func(any) { pageCalls++ })

	scope.Publish(SessionChanged, nil)
	assert.Equal(t, 1, shellCalls)
	assert.Equal(t, 1, pageCalls)

	scope.Dispose()
	bus.Publish(SessionChanged, nil)
	bus.Publish(Navigated, nil)

	assert.Equal(t, 2, shellCalls)
	assert.Equal(t, 1, pageCalls)
	assert.Equal(t, 0, bus.Len(Navigated))

	// Subscriptions after disposal are inert
	scope.Subscribe(SessionChanged, func(any) { pageCalls++ }).Unsubscribe()
	bus.Publish(SessionChanged, nil)
	assert.Equal(t, 1, pageCalls)
}
