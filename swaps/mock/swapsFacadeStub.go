package mock

import (
	"context"
	"net/http"

	"github.com/klever-io/klv-swaps-go/swaps"
	gas "github.com/klever-io/klv-swaps-go/swaps/gasStation"
)

// SwapsFacadeStub -
type SwapsFacadeStub struct {
	StateCalled                   func() swaps.SwapsState
	FetchAndSetQuotesCalled       func(ctx context.Context, params swaps.SwapRequestParams) (swaps.QuoteMap, string, error)
	SafeRefetchQuotesCalled       func(ctx context.Context) error
	StartPollingCalled            func(params swaps.SwapRequestParams) error
	StopPollingCalled             func()
	IsPollingCalled               func() bool
	FetchTokensWithCacheCalled    func(ctx context.Context) ([]swaps.Token, error)
	FetchTopAssetsCalled          func(ctx context.Context) ([]swaps.Asset, error)
	FetchAggregatorMetadataCalled func(ctx context.Context) (map[string]swaps.AggregatorMetadata, error)
	FetchGasPricesCalled          func(ctx context.Context) (gas.GasPrices, error)
	ResetStateCalled              func()
}

// State -
func (stub *SwapsFacadeStub) State() swaps.SwapsState {
	if stub.StateCalled != nil {
		return stub.StateCalled()
	}

	return swaps.SwapsState{}
}

// FetchAndSetQuotes -
func (stub *SwapsFacadeStub) FetchAndSetQuotes(ctx context.Context, params swaps.SwapRequestParams) (swaps.QuoteMap, string, error) {
	if stub.FetchAndSetQuotesCalled != nil {
		return stub.FetchAndSetQuotesCalled(ctx, params)
	}

	return make(swaps.QuoteMap), "", nil
}

// SafeRefetchQuotes -
func (stub *SwapsFacadeStub) SafeRefetchQuotes(ctx context.Context) error {
	if stub.SafeRefetchQuotesCalled != nil {
		return stub.SafeRefetchQuotesCalled(ctx)
	}

	return nil
}

// StartPolling -
func (stub *SwapsFacadeStub) StartPolling(params swaps.SwapRequestParams) error {
	if stub.StartPollingCalled != nil {
		return stub.StartPollingCalled(params)
	}

	return nil
}

// StopPolling -
func (stub *SwapsFacadeStub) StopPolling() {
	if stub.StopPollingCalled != nil {
		stub.StopPollingCalled()
	}
}

// IsPolling -
func (stub *SwapsFacadeStub) IsPolling() bool {
	if stub.IsPollingCalled != nil {
		return stub.IsPollingCalled()
	}

	return false
}

// FetchTokensWithCache -
func (stub *SwapsFacadeStub) FetchTokensWithCache(ctx context.Context) ([]swaps.Token, error) {
	if stub.FetchTokensWithCacheCalled != nil {
		return stub.FetchTokensWithCacheCalled(ctx)
	}

	return make([]swaps.Token, 0), nil
}

// FetchTopAssets -
func (stub *SwapsFacadeStub) FetchTopAssets(ctx context.Context) ([]swaps.Asset, error) {
	if stub.FetchTopAssetsCalled != nil {
		return stub.FetchTopAssetsCalled(ctx)
	}

	return make([]swaps.Asset, 0), nil
}

// FetchAggregatorMetadata -
func (stub *SwapsFacadeStub) FetchAggregatorMetadata(ctx context.Context) (map[string]swaps.AggregatorMetadata, error) {
	if stub.FetchAggregatorMetadataCalled != nil {
		return stub.FetchAggregatorMetadataCalled(ctx)
	}

	return make(map[string]swaps.AggregatorMetadata), nil
}

// FetchGasPrices -
func (stub *SwapsFacadeStub) FetchGasPrices(ctx context.Context) (gas.GasPrices, error) {
	if stub.FetchGasPricesCalled != nil {
		return stub.FetchGasPricesCalled(ctx)
	}

	return gas.GasPrices{}, nil
}

// ResetState -
func (stub *SwapsFacadeStub) ResetState() {
	if stub.ResetStateCalled != nil {
		stub.ResetStateCalled()
	}
}

// IsInterfaceNil -
func (stub *SwapsFacadeStub) IsInterfaceNil() bool {
	return stub == nil
}

// WSHandlerStub -
type WSHandlerStub struct {
	ServeWSCalled func(w http.ResponseWriter, r *http.Request) error
}

// ServeWS -
func (stub *WSHandlerStub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	if stub.ServeWSCalled != nil {
		return stub.ServeWSCalled(w, r)
	}

	return nil
}

// IsInterfaceNil -
func (stub *WSHandlerStub) IsInterfaceNil() bool {
	return stub == nil
}
