package timer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestStartFiresOnce(t *testing.T) {
	r := NewRegistry()
	defer r.Stop()

	var fired atomic.Int32
	r.Start("ABCDEF", "p1", 10*time.Millisecond, func() {
		fired.Add(1)
	})

	time.Sleep(50 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Fatalf("expected callback to fire exactly once, fired %d times", got)
	}
	if _, ok := r.Deadline("ABCDEF"); ok {
		t.Fatal("expected entry to be cleared after firing")
	}
}

func TestStartReplacesPendingTimer(t *testing.T) {
	r := NewRegistry()
	defer r.Stop()

	var first, second atomic.Int32
	r.Start("ABCDEF", "p1", 20*time.Millisecond, func() { first.Add(1) })
	r.Start("ABCDEF", "p2", 20*time.Millisecond, func() { second.Add(1) })

	time.Sleep(60 * time.Millisecond)
	if first.Load() != 0 {
		t.Fatal("expected the replaced callback never to fire")
	}
	if second.Load() != 1 {
		t.Fatal("expected the replacement callback to fire")
	}
}

func TestCancel(t *testing.T) {
	r := NewRegistry()
	defer r.Stop()

	var fired atomic.Int32
	r.Start("ABCDEF", "p1", 20*time.Millisecond, func() { fired.Add(1) })

	if !r.Cancel("ABCDEF") {
		t.Fatal("expected cancel to report an active timer")
	}
	if r.Cancel("ABCDEF") {
		t.Fatal("expected second cancel to report no active timer")
	}

	time.Sleep(50 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatal("expected cancelled callback never to fire")
	}
}

func TestDeadlineAndSubject(t *testing.T) {
	r := NewRegistry()
	defer r.Stop()

	before := time.Now().UTC()
	deadline := r.Start("ABCDEF", "p1", time.Minute, func() {})

	if deadline.Before(before.Add(59 * time.Second)) {
		t.Fatalf("deadline %v fires too early", deadline)
	}
	got, ok := r.Deadline("ABCDEF")
	if !ok || !got.Equal(deadline) {
		t.Fatalf("expected queryable deadline %v, got %v (ok=%v)", deadline, got, ok)
	}
	subject, ok := r.Subject("ABCDEF")
	if !ok || subject != "p1" {
		t.Fatalf("expected subject p1, got %q (ok=%v)", subject, ok)
	}

	if _, ok := r.Deadline("OTHER"); ok {
		t.Fatal("expected no deadline for an unknown code")
	}
}

func TestTimersAreIndependentPerCode(t *testing.T) {
	r := NewRegistry()
	defer r.Stop()

	var a, b atomic.Int32
	r.Start("AAAAAA", "p1", 10*time.Millisecond, func() { a.Add(1) })
	r.Start("BBBBBB", "p2", 10*time.Millisecond, func() { b.Add(1) })
	r.Cancel("AAAAAA")

	time.Sleep(50 * time.Millisecond)
	if a.Load() != 0 {
		t.Fatal("expected cancelled code not to fire")
	}
	if b.Load() != 1 {
		t.Fatal("expected the other code to fire")
	}
}

func TestStopCancelsEverything(t *testing.T) {
	r := NewRegistry()

	var fired atomic.Int32
	r.Start("AAAAAA", "p1", 20*time.Millisecond, func() { fired.Add(1) })
	r.Start("BBBBBB", "p2", 20*time.Millisecond, func() { fired.Add(1) })
	r.Stop()

	time.Sleep(50 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatal("expected no callbacks after Stop")
	}
}
