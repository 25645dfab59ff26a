package swaps

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// TickHandler is called on every poller tick, in its own go routine. The generation identifies the arming that
// fired the tick
type TickHandler func(ctx context.Context, params SwapRequestParams, tick uint64, generation uint64)

// ArgsQuotePoller is the argument DTO for the quote poller
type ArgsQuotePoller struct {
	PollingInterval time.Duration
	TickHandler     TickHandler
}

type quotePoller struct {
	mut             sync.Mutex
	pollingInterval time.Duration
	tickHandler     TickHandler
	cancel          func()
	loopDone        chan struct{}
	generation      uint64
	numTicks        atomic.Uint64
}

// NewQuotePoller creates a new stopped quote poller
func NewQuotePoller(args ArgsQuotePoller) (*quotePoller, error) {
	if args.PollingInterval <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPollingInterval, args.PollingInterval)
	}
	if args.TickHandler == nil {
		return nil, ErrNilTickHandler
	}

	return &quotePoller{
		pollingInterval: args.PollingInterval,
		tickHandler:     args.TickHandler,
	}, nil
}

// Start arms the poller with the provided params. The first tick fires immediately. A running poller is re-armed
// and its tick counter restarts
func (qp *quotePoller) Start(params SwapRequestParams) {
	qp.mut.Lock()
	defer qp.mut.Unlock()

	qp.stopUnprotected()

	ctx, cancel := context.WithCancel(context.Background())
	qp.cancel = cancel
	qp.loopDone = make(chan struct{})
	qp.generation++
	qp.numTicks.Store(0)

	go qp.processLoop(ctx, params.clone(), qp.generation, qp.loopDone)
}

// Stop disarms the poller. No tick fires after Stop returns, the ticks already in flight are not cancelled
func (qp *quotePoller) Stop() {
	qp.mut.Lock()
	defer qp.mut.Unlock()

	qp.stopUnprotected()
}

func (qp *quotePoller) stopUnprotected() {
	if qp.cancel == nil {
		return
	}

	qp.cancel()
	<-qp.loopDone
	qp.cancel = nil
	qp.loopDone = nil
}

// RunIfCurrent calls handler while holding the poller, if the provided generation is the armed one. It returns false
// if the poller was stopped or re-armed since that generation
func (qp *quotePoller) RunIfCurrent(generation uint64, handler func()) bool {
	qp.mut.Lock()
	defer qp.mut.Unlock()

	if !qp.isCurrentUnprotected(generation) {
		return false
	}

	handler()

	return true
}

// StopIfCurrent disarms the poller and calls onStopped while still holding it, only if the provided generation is
// the armed one
func (qp *quotePoller) StopIfCurrent(generation uint64, onStopped func()) bool {
	qp.mut.Lock()
	defer qp.mut.Unlock()

	if !qp.isCurrentUnprotected(generation) {
		return false
	}

	qp.stopUnprotected()
	onStopped()

	return true
}

func (qp *quotePoller) isCurrentUnprotected(generation uint64) bool {
	return qp.cancel != nil && qp.generation == generation
}

// IsRunning returns true if the poller is armed
func (qp *quotePoller) IsRunning() bool {
	qp.mut.Lock()
	defer qp.mut.Unlock()

	return qp.cancel != nil
}

// NumTicks returns the number of ticks fired since the poller was last armed
func (qp *quotePoller) NumTicks() uint64 {
	return qp.numTicks.Load()
}

func (qp *quotePoller) processLoop(ctx context.Context, params SwapRequestParams, generation uint64, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(qp.pollingInterval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return
		}

		tick := qp.numTicks.Add(1)
		go qp.tickHandler(context.Background(), params, tick, generation)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
