package timer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTimerManager_OneShot(t *testing.T) {
	manager := NewTimerManager()
	defer manager.Stop()

	var fired int64
	manager.AddTimer(50*time.Millisecond, 0, func() {
		atomic.AddInt64(&fired, 1)
	})

	time.Sleep(400 * time.Millisecond)

	if n := atomic.LoadInt64(&fired); n != 1 {
		t.Errorf("Expected a one-shot task to fire exactly once, got %d", n)
	}
}

func TestTimerManager_Repeating(t *testing.T) {
	manager := NewTimerManager()
	defer manager.Stop()

	var fired int64
	manager.AddTimer(50*time.Millisecond, 100*time.Millisecond, func() {
		atomic.AddInt64(&fired, 1)
	})

	time.Sleep(600 * time.Millisecond)

	if n := atomic.LoadInt64(&fired); n < 2 {
		t.Errorf("Expected a repeating task to fire more than once, got %d", n)
	}
}

func TestTimerManager_Remove(t *testing.T) {
	manager := NewTimerManager()
	defer manager.Stop()

	var fired int64
	id := manager.AddTimer(200*time.Millisecond, 0, func() {
		atomic.AddInt64(&fired, 1)
	})
	manager.RemoveTimer(id)

	time.Sleep(500 * time.Millisecond)

	if n := atomic.LoadInt64(&fired); n != 0 {
		t.Errorf("Removed task should never fire, got %d", n)
	}
}
