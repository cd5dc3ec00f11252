package control

import (
	"errors"
	"sync"
	"time"
)

// BreakerState is the circuit breaker state.
type BreakerState int

const (
	BreakerClosed   BreakerState = iota // normal operation, calls pass through
	BreakerOpen                         // tripped, calls rejected immediately
	BreakerHalfOpen                     // cooling down, one probe allowed
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrBreakerOpen is returned while the breaker is rejecting calls.
var ErrBreakerOpen = errors.New("control channel unavailable")

// Breaker trips after maxFailures consecutive failures and rejects calls
// for cooldown. After the cooldown one probe call is let through: success
// closes the breaker, failure reopens it.
type Breaker struct {
	mu          sync.Mutex
	state       BreakerState
	failures    int
	maxFailures int
	cooldown    time.Duration
	lastFailure time.Time

	OnStateChange func(from, to BreakerState)
}

// NewBreaker creates a closed breaker.
func NewBreaker(maxFailures int, cooldown time.Duration) *Breaker {
	return &Breaker{
		maxFailures: maxFailures,
		cooldown:    cooldown,
		state:       BreakerClosed,
	}
}

// Do runs fn through the breaker.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	if b.state == BreakerOpen {
		if time.Since(b.lastFailure) > b.cooldown {
			b.transition(BreakerHalfOpen)
		} else {
			b.mu.Unlock()
			return ErrBreakerOpen
		}
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		b.lastFailure = time.Now()
		if b.state == BreakerHalfOpen || b.failures >= b.maxFailures {
			b.transition(BreakerOpen)
		}
		return err
	}

	if b.state == BreakerHalfOpen {
		b.transition(BreakerClosed)
	}
	b.failures = 0
	return nil
}

// State returns the current state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) transition(to BreakerState) {
	from := b.state
	b.state = to
	if to == BreakerClosed {
		b.failures = 0
	}
	if b.OnStateChange != nil {
		b.OnStateChange(from, to)
	}
}
