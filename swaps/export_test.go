package swaps

import (
	"context"
	"time"
)

// SetTimeNowHandler -
func (sc *swapsController) SetTimeNowHandler(handler func() time.Time) {
	sc.timeNowHandler = handler
}

// LatestSequence -
func (sc *swapsController) LatestSequence() uint64 {
	return sc.sessions.latestSequence()
}

// NumPollTicks -
func (sc *swapsController) NumPollTicks() uint64 {
	return sc.poller.NumTicks()
}

// PollGeneration -
func (sc *swapsController) PollGeneration() uint64 {
	sc.poller.mut.Lock()
	defer sc.poller.mut.Unlock()

	return sc.poller.generation
}

// OnPollTick -
func (sc *swapsController) OnPollTick(ctx context.Context, params SwapRequestParams, tick uint64, generation uint64) {
	sc.onPollTick(ctx, params, tick, generation)
}
