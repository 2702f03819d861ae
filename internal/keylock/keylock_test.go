package keylock

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDo_SerializesSameKey(t *testing.T) {
	l := New()

	var active, overlaps int32
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Do("schema", func() error {
				if atomic.AddInt32(&active, 1) != 1 {
					atomic.AddInt32(&overlaps, 1)
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&overlaps); n != 0 {
		t.Errorf("observed %d overlapping holders of the same key", n)
	}
}

func TestDo_IndependentKeys(t *testing.T) {
	l := New()

	held := make(chan struct{})
	done := make(chan struct{})
	release := make(chan struct{})

	go l.Do("a", func() error {
		close(held)
		<-release
		return nil
	})
	<-held

	go func() {
		l.Do("b", func() error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("a held lock on one key blocked another key")
	}
	close(release)
}

func TestDo_PropagatesError(t *testing.T) {
	l := New()
	want := errors.New("boom")
	if got := l.Do("k", func() error { return want }); got != want {
		t.Errorf("Do returned %v, want %v", got, want)
	}
}

func TestDo_CollectsIdleEntries(t *testing.T) {
	l := New()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%4))
			l.Do(key, func() error { return nil })
		}(i)
	}
	wg.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.locks) != 0 {
		t.Errorf("expected no retained entries, found %d", len(l.locks))
	}
}
