package syncer

import "time"

// Ticker is a minimal ticker abstraction so tests can advance virtual time
// deterministically instead of waiting on the wall clock.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers and tells the time.
type Clock interface {
	NewTicker(d time.Duration) Ticker
	Now() time.Time
}

// NewClock returns the real wall clock.
func NewClock() Clock { return realClock{} }

type realClock struct{}

func (realClock) NewTicker(d time.Duration) Ticker { return realTicker{t: time.NewTicker(d)} }
func (realClock) Now() time.Time                   { return time.Now() }

type realTicker struct {
	t *time.Ticker
}

func (t realTicker) C() <-chan time.Time { return t.t.C }
func (t realTicker) Stop()               { t.t.Stop() }
