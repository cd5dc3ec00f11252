package control

import (
	"errors"
	"testing"
	"time"
)

func TestBreaker_StartsClosed(t *testing.T) {
	b := NewBreaker(3, 100*time.Millisecond)
	if b.State() != BreakerClosed {
		t.Errorf("expected closed, got %v", b.State())
	}
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	b := NewBreaker(3, 100*time.Millisecond)
	errFail := errors.New("fail")

	for i := 0; i < 3; i++ {
		if err := b.Do(func() error { return errFail }); err != errFail {
			t.Fatalf("expected errFail, got %v", err)
		}
	}
	if b.State() != BreakerOpen {
		t.Errorf("expected open after 3 failures, got %v", b.State())
	}

	// calls are rejected without running fn
	ran := false
	err := b.Do(func() error { ran = true; return nil })
	if err != ErrBreakerOpen {
		t.Errorf("expected ErrBreakerOpen, got %v", err)
	}
	if ran {
		t.Error("fn must not run while open")
	}
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	b := NewBreaker(2, 50*time.Millisecond)
	errFail := errors.New("fail")

	for i := 0; i < 2; i++ {
		b.Do(func() error { return errFail })
	}
	if b.State() != BreakerOpen {
		t.Fatal("expected open")
	}

	time.Sleep(60 * time.Millisecond)

	if err := b.Do(func() error { return nil }); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if b.State() != BreakerClosed {
		t.Errorf("expected closed after successful probe, got %v", b.State())
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b := NewBreaker(2, 50*time.Millisecond)
	errFail := errors.New("fail")

	for i := 0; i < 2; i++ {
		b.Do(func() error { return errFail })
	}
	time.Sleep(60 * time.Millisecond)
	b.Do(func() error { return errFail })

	if b.State() != BreakerOpen {
		t.Errorf("expected open after failed probe, got %v", b.State())
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker(3, 100*time.Millisecond)
	errFail := errors.New("fail")

	b.Do(func() error { return errFail })
	b.Do(func() error { return errFail })
	b.Do(func() error { return nil })

	b.Do(func() error { return errFail })
	b.Do(func() error { return errFail })

	if b.State() != BreakerClosed {
		t.Errorf("expected closed after counter reset, got %v", b.State())
	}
}

func TestBreaker_OnStateChange(t *testing.T) {
	var transitions []BreakerState
	b := NewBreaker(1, 50*time.Millisecond)
	b.OnStateChange = func(from, to BreakerState) {
		transitions = append(transitions, to)
	}

	b.Do(func() error { return errors.New("fail") })
	if len(transitions) != 1 || transitions[0] != BreakerOpen {
		t.Fatalf("expected [open], got %v", transitions)
	}

	time.Sleep(60 * time.Millisecond)
	b.Do(func() error { return nil })

	if len(transitions) != 3 || transitions[1] != BreakerHalfOpen || transitions[2] != BreakerClosed {
		t.Errorf("expected [open half-open closed], got %v", transitions)
	}
}
