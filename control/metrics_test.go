// Package control tests the metrics registry.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package control

import (
	"sync"
	"testing"
)

func TestCounterRegistryReturnsSameInstance(t *testing.T) {
	mr := NewMetricsRegistry()

	a := mr.Counter("reactor.events")
	b := mr.Counter("reactor.events")
	if a != b {
		t.Fatal("expected the same counter instance per key")
	}

	a.Inc()
	a.Add(2)
	if b.Value() != 3 {
		t.Errorf("expected 3, got %d", b.Value())
	}
}

func TestGetSnapshot(t *testing.T) {
	mr := NewMetricsRegistry()
	mr.Counter("wakeups").Add(5)
	mr.Counter("events").Inc()

	snap := mr.GetSnapshot()
	if snap["wakeups"] != 5 || snap["events"] != 1 {
		t.Errorf("unexpected snapshot %v", snap)
	}

	// Snapshots are copies.
	snap["wakeups"] = 99
	if mr.Counter("wakeups").Value() != 5 {
		t.Error("snapshot mutation leaked into registry")
	}
}

func TestCounterConcurrentInc(t *testing.T) {
	mr := NewMetricsRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := mr.Counter("shared")
			for j := 0; j < 1000; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()

	if got := mr.Counter("shared").Value(); got != 8000 {
		t.Errorf("expected 8000, got %d", got)
	}
}
