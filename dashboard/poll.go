package dashboard

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"credinews/models"
)

// TrendsFetcher loads one trends payload for the given window.
type TrendsFetcher func(rangeDays int) (*models.TrendsData, error)

// PollLoop refreshes the dashboard on a fixed interval and on demand.
// Background ticks are suppressed while a refresh is in flight; explicit
// user refreshes always run. A monotonic sequence number makes sure an
// overlapping earlier response never overwrites a later one.
type PollLoop struct {
	fetch    TrendsFetcher
	onData   func(*models.TrendsData)
	onError  func(error)
	interval time.Duration

	mu        sync.Mutex
	rangeDays int
	inFlight  int

	// deliverMu makes the stale check and the onData call one atomic step,
	// so a response that passes the check cannot be interleaved with a
	// newer delivery.
	deliverMu sync.Mutex
	applied   uint64

	seq  atomic.Uint64
	stop chan struct{}
	once sync.Once
}

func NewPollLoop(interval time.Duration, rangeDays int, fetch TrendsFetcher, onData func(*models.TrendsData), onError func(error)) *PollLoop {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &PollLoop{
		fetch:     fetch,
		onData:    onData,
		onError:   onError,
		interval:  interval,
		rangeDays: rangeDays,
		stop:      make(chan struct{}),
	}
}

// Start launches the timer and performs the initial load.
func (p *PollLoop) Start() {
	p.Refresh(true)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.Refresh(false)
			case <-p.stop:
				return
			}
		}
	}()
}

// Stop ends background polling. In-flight refreshes finish and their
// results are still delivered.
func (p *PollLoop) Stop() {
	p.once.Do(func() { close(p.stop) })
}

// SetRange changes the window and refreshes immediately. User-triggered,
// so it bypasses the in-flight guard.
func (p *PollLoop) SetRange(days int) {
	p.mu.Lock()
	p.rangeDays = days
	p.mu.Unlock()
	p.Refresh(true)
}

// Refresh triggers one fetch. force=false is a background tick and is
// skipped while another refresh is running; force=true always proceeds.
func (p *PollLoop) Refresh(force bool) {
	p.mu.Lock()
	if !force && p.inFlight > 0 {
		p.mu.Unlock()
		log.Println("[POLL] ⏭ Refresh already in flight, skipping tick")
		return
	}
	p.inFlight++
	rangeDays := p.rangeDays
	p.mu.Unlock()

	seq := p.seq.Add(1)

	go func() {
		data, err := p.fetch(rangeDays)

		p.mu.Lock()
		p.inFlight--
		p.mu.Unlock()

		if err != nil {
			log.Printf("[POLL] ⚠ Refresh failed: %v", err)
			if p.onError != nil {
				p.onError(err)
			}
			return
		}

		p.deliverMu.Lock()
		defer p.deliverMu.Unlock()
		if seq <= p.applied {
			// A newer refresh already landed; this response is stale.
			log.Printf("[POLL] ⏭ Discarding stale response (seq %d)", seq)
			return
		}
		p.applied = seq
		if p.onData != nil {
			p.onData(data)
		}
	}()
}

// InFlight reports whether a refresh is currently running.
func (p *PollLoop) InFlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight > 0
}
