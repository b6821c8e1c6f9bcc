package keymutex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerializesSameKey(t *testing.T) {
	km := New()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("user-1")
			counter++ // data race here would trip -race without the lock
			km.Unlock("user-1")
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestIndependentKeysDoNotBlock(t *testing.T) {
	km := New()
	km.Lock("user-1")

	done := make(chan struct{})
	go func() {
		km.Lock("user-2")
		km.Unlock("user-2")
		close(done)
	}()
	<-done // would deadlock if keys shared one mutex

	km.Unlock("user-1")
}

func TestEntriesAreReleased(t *testing.T) {
	km := New()
	km.Lock("user-1")
	km.Unlock("user-1")

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.locks)
}
