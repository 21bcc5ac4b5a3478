// Package poll_test tests the readiness-caching poll/clear protocol.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package poll_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/momentics/hioload-poll/api"
	"github.com/momentics/hioload-poll/fake"
	"github.com/momentics/hioload-poll/poll"
)

// newSource wires a fake conn through a fake registrar and returns all
// the pieces a test needs to inject readiness and observe wakes.
func newSource(t *testing.T) (*poll.Source, *fake.Conn, *fake.Registration, *fake.Registrar) {
	t.Helper()
	conn := fake.NewConn()
	registrar := fake.NewRegistrar()
	src, err := poll.Wrap(conn, registrar)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	return src, conn, registrar.RegistrationFor(conn), registrar
}

func TestWrapNilRegistrar(t *testing.T) {
	_, err := poll.Wrap(fake.NewConn(), nil)
	if !errors.Is(err, poll.ErrNoRegistrar) {
		t.Fatalf("expected ErrNoRegistrar, got %v", err)
	}
}

func TestWrapRegisterError(t *testing.T) {
	registrar := fake.NewRegistrar()
	wantErr := fmt.Errorf("reactor unavailable")
	registrar.SetRegisterError(wantErr)

	_, err := poll.Wrap(fake.NewConn(), registrar)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected registration error to propagate, got %v", err)
	}
}

// TestPollReadReadyPendsWithoutEvents covers the first half of the
// wrap-then-poll scenario: with no prior events the poll parks the
// waker and reports pending.
func TestPollReadReadyPendsWithoutEvents(t *testing.T) {
	src, _, reg, _ := newSource(t)
	waker := &fake.Waker{}

	ready, ok, err := src.PollReadReady(waker)
	if err != nil {
		t.Fatalf("PollReadReady failed: %v", err)
	}
	if ok {
		t.Fatalf("expected pending, got ready %v", ready)
	}
	if !reg.Parked(api.DirRead) {
		t.Error("expected waker parked on the read side")
	}
	if waker.Woken() != 0 {
		t.Errorf("expected no wake yet, got %d", waker.Woken())
	}
}

// TestPollReadReadyWakesOnInject completes the scenario: injecting a
// read-ready event fires the parked waker and the re-poll observes the
// read bit.
func TestPollReadReadyWakesOnInject(t *testing.T) {
	src, _, reg, _ := newSource(t)
	waker := &fake.Waker{}

	if _, ok, _ := src.PollReadReady(waker); ok {
		t.Fatal("expected pending before any event")
	}

	reg.InjectEvent(api.ReadReady)
	if waker.Woken() != 1 {
		t.Fatalf("expected one wake, got %d", waker.Woken())
	}

	ready, ok, err := src.PollReadReady(waker)
	if err != nil {
		t.Fatalf("PollReadReady failed: %v", err)
	}
	if !ok {
		t.Fatal("expected ready after injected event")
	}
	if !ready.Contains(api.ReadReady) {
		t.Errorf("expected read bit in %v", ready)
	}
}

// TestPollReadyIdempotent checks that two polls without an intervening
// clear or event both report ready; the second must not consult the
// suspend path at all.
func TestPollReadyIdempotent(t *testing.T) {
	src, _, reg, _ := newSource(t)
	waker := &fake.Waker{}

	reg.InjectEvent(api.ReadReady)

	first, ok, err := src.PollReadReady(waker)
	if err != nil || !ok {
		t.Fatalf("first poll: ready=%v err=%v", ok, err)
	}
	second, ok, err := src.PollReadReady(waker)
	if err != nil || !ok {
		t.Fatalf("second poll: ready=%v err=%v", ok, err)
	}
	if first != second {
		t.Errorf("readiness changed between polls: %v then %v", first, second)
	}
	if reg.Parked(api.DirRead) {
		t.Error("ready-path poll must not park a waker")
	}
}

// TestPollReadyDrainsIrrelevantReadiness feeds the read-side stream a
// value outside the read mask. The drain loop must absorb it, keep
// draining and end up pending rather than reporting a false ready.
func TestPollReadyDrainsIrrelevantReadiness(t *testing.T) {
	src, _, reg, _ := newSource(t)
	waker := &fake.Waker{}

	reg.Inject(api.DirRead, api.WriteReady)

	ready, ok, err := src.PollReadReady(waker)
	if err != nil {
		t.Fatalf("PollReadReady failed: %v", err)
	}
	if ok {
		t.Fatalf("write-only readiness must not satisfy a read poll, got %v", ready)
	}
	if !reg.Parked(api.DirRead) {
		t.Error("expected waker parked after draining irrelevant readiness")
	}

	reg.Inject(api.DirRead, api.ReadReady)
	ready, ok, err = src.PollReadReady(waker)
	if err != nil || !ok {
		t.Fatalf("expected ready after read event, ready=%v err=%v", ok, err)
	}
	if !ready.Contains(api.ReadReady) {
		t.Errorf("expected read bit in %v", ready)
	}
}

// TestErrorStickyBothSides verifies that an observed error condition
// keeps both sides permanently ready, surviving clears.
func TestErrorStickyBothSides(t *testing.T) {
	src, _, reg, _ := newSource(t)
	waker := &fake.Waker{}

	reg.InjectEvent(api.ErrorReady)

	for i := 0; i < 3; i++ {
		ready, ok, err := src.PollReadReady(waker)
		if err != nil || !ok || !ready.Contains(api.ErrorReady) {
			t.Fatalf("read poll %d: ready=%v ok=%v err=%v", i, ready, ok, err)
		}
		ready, ok, err = src.PollWriteReady(waker)
		if err != nil || !ok || !ready.Contains(api.ErrorReady) {
			t.Fatalf("write poll %d: ready=%v ok=%v err=%v", i, ready, ok, err)
		}
		if err := src.ClearReadReady(waker); err != nil {
			t.Fatalf("clear read: %v", err)
		}
		if err := src.ClearWriteReady(waker); err != nil {
			t.Fatalf("clear write: %v", err)
		}
	}
}

// TestHangupStickyBothSides mirrors the error case for peer hangup.
func TestHangupStickyBothSides(t *testing.T) {
	src, _, reg, _ := newSource(t)
	waker := &fake.Waker{}

	reg.InjectEvent(api.HangupReady)

	ready, ok, err := src.PollReadReady(waker)
	if err != nil || !ok || !ready.Contains(api.HangupReady) {
		t.Fatalf("read poll: ready=%v ok=%v err=%v", ready, ok, err)
	}
	if err := src.ClearReadReady(waker); err != nil {
		t.Fatalf("clear read: %v", err)
	}
	ready, ok, err = src.PollWriteReady(waker)
	if err != nil || !ok || !ready.Contains(api.HangupReady) {
		t.Fatalf("write poll after clear: ready=%v ok=%v err=%v", ready, ok, err)
	}
}

// TestClearReadRearms checks the quiet path of clear: with no racing
// event the next poll is pending and the waker is parked, not woken.
func TestClearReadRearms(t *testing.T) {
	src, _, reg, _ := newSource(t)
	waker := &fake.Waker{}

	reg.InjectEvent(api.ReadReady)
	if _, ok, _ := src.PollReadReady(waker); !ok {
		t.Fatal("expected ready")
	}

	if err := src.ClearReadReady(waker); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if waker.Woken() != 0 {
		t.Errorf("no racing event, expected no wake, got %d", waker.Woken())
	}
	if !reg.Parked(api.DirRead) {
		t.Error("expected waker parked by clear")
	}

	if _, ok, _ := src.PollReadReady(waker); ok {
		t.Error("expected pending after clear with no new event")
	}
}

// TestClearWakesOnRacingEvent covers the mandatory re-check-and-wake:
// readiness delivered between the would-block and the clear must fire
// the waker synchronously inside the clear.
func TestClearWakesOnRacingEvent(t *testing.T) {
	src, _, reg, _ := newSource(t)
	waker := &fake.Waker{}

	reg.InjectEvent(api.ReadReady)
	if _, ok, _ := src.PollReadReady(waker); !ok {
		t.Fatal("expected ready")
	}

	// The "concurrent" notification lands before the clear runs.
	reg.InjectEvent(api.ReadReady)

	if err := src.ClearReadReady(waker); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if waker.Woken() != 1 {
		t.Fatalf("expected synchronous wake from clear, got %d", waker.Woken())
	}
	if _, ok, _ := src.PollReadReady(waker); !ok {
		t.Error("expected ready after racing event")
	}
}

func TestPollReadyPropagatesStreamError(t *testing.T) {
	src, _, reg, _ := newSource(t)
	waker := &fake.Waker{}
	wantErr := fmt.Errorf("driver gone")
	reg.SetPollError(wantErr)

	_, _, err := src.PollReadReady(waker)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected stream error, got %v", err)
	}
}

func TestFastPathPropagatesTakeError(t *testing.T) {
	src, _, reg, _ := newSource(t)
	waker := &fake.Waker{}

	reg.InjectEvent(api.ReadReady)
	if _, ok, _ := src.PollReadReady(waker); !ok {
		t.Fatal("expected ready")
	}

	wantErr := fmt.Errorf("driver gone")
	reg.SetTakeError(wantErr)
	_, _, err := src.PollReadReady(waker)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected take error, got %v", err)
	}
}

// TestFastPathDrainsNewReadiness verifies that a ready-path poll picks
// up freshly delivered bits opportunistically without parking.
func TestFastPathDrainsNewReadiness(t *testing.T) {
	src, _, reg, _ := newSource(t)
	waker := &fake.Waker{}

	reg.InjectEvent(api.ReadReady)
	if _, ok, _ := src.PollReadReady(waker); !ok {
		t.Fatal("expected ready")
	}

	// Deliver more readiness with no waker parked.
	reg.Inject(api.DirRead, api.HangupReady)

	ready, ok, err := src.PollReadReady(waker)
	if err != nil || !ok {
		t.Fatalf("ready=%v err=%v", ok, err)
	}
	if !ready.Contains(api.ReadReady | api.HangupReady) {
		t.Errorf("expected enlarged readiness, got %v", ready)
	}
	if reg.Parked(api.DirRead) {
		t.Error("fast path must not park a waker")
	}
}

// TestReadAndWriteSidesIndependent drives both sides concurrently-ish
// and checks one side's clear never disturbs the other's cache.
func TestReadAndWriteSidesIndependent(t *testing.T) {
	src, _, reg, _ := newSource(t)
	rw, ww := &fake.Waker{}, &fake.Waker{}

	reg.InjectEvent(api.ReadReady | api.WriteReady)

	if _, ok, _ := src.PollReadReady(rw); !ok {
		t.Fatal("expected read ready")
	}
	if _, ok, _ := src.PollWriteReady(ww); !ok {
		t.Fatal("expected write ready")
	}

	if err := src.ClearReadReady(rw); err != nil {
		t.Fatalf("clear read: %v", err)
	}
	if _, ok, _ := src.PollWriteReady(ww); !ok {
		t.Error("clearing the read side must not clear write readiness")
	}
	if _, ok, _ := src.PollReadReady(rw); ok {
		t.Error("expected read side pending after clear")
	}
}
