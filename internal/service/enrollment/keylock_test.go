package enrollment

import (
	"sync"
	"testing"
)

func TestKeyLockSerializesSameKey(t *testing.T) {
	k := newKeyLock()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(enrollmentKey("u1", "c1"))
			defer unlock()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Fatalf("counter = %d, want 50", counter)
	}
	if k.size() != 0 {
		t.Fatalf("size = %d, want 0", k.size())
	}
}

func TestKeyLockIndependentKeys(t *testing.T) {
	k := newKeyLock()
	unlockA := k.Lock(enrollmentKey("u1", "c1"))
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := k.Lock(enrollmentKey("u1", "c2"))
		unlock()
		close(done)
	}()
	<-done
	if k.size() != 1 {
		t.Fatalf("size = %d, want 1", k.size())
	}
}
