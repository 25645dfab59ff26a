package mock

import (
	"context"

	"github.com/klever-io/klv-swaps-go/swaps"
	"github.com/shopspring/decimal"
)

// SwapsAPIStub -
type SwapsAPIStub struct {
	FetchQuotesCalled             func(ctx context.Context, params swaps.SwapRequestParams) ([]*swaps.RawAggregatorQuote, error)
	FetchTokensCalled             func(ctx context.Context) ([]swaps.Token, error)
	FetchTopAssetsCalled          func(ctx context.Context) ([]swaps.Asset, error)
	FetchAggregatorMetadataCalled func(ctx context.Context) (map[string]swaps.AggregatorMetadata, error)
	FetchFeatureLivenessCalled    func(ctx context.Context) bool
	FetchTokenPriceCalled         func(ctx context.Context, address string) (decimal.Decimal, error)
}

// FetchQuotes -
func (stub *SwapsAPIStub) FetchQuotes(ctx context.Context, params swaps.SwapRequestParams) ([]*swaps.RawAggregatorQuote, error) {
	if stub.FetchQuotesCalled != nil {
		return stub.FetchQuotesCalled(ctx, params)
	}

	return make([]*swaps.RawAggregatorQuote, 0), nil
}

// FetchTokens -
func (stub *SwapsAPIStub) FetchTokens(ctx context.Context) ([]swaps.Token, error) {
	if stub.FetchTokensCalled != nil {
		return stub.FetchTokensCalled(ctx)
	}

	return make([]swaps.Token, 0), nil
}

// FetchTopAssets -
func (stub *SwapsAPIStub) FetchTopAssets(ctx context.Context) ([]swaps.Asset, error) {
	if stub.FetchTopAssetsCalled != nil {
		return stub.FetchTopAssetsCalled(ctx)
	}

	return make([]swaps.Asset, 0), nil
}

// FetchAggregatorMetadata -
func (stub *SwapsAPIStub) FetchAggregatorMetadata(ctx context.Context) (map[string]swaps.AggregatorMetadata, error) {
	if stub.FetchAggregatorMetadataCalled != nil {
		return stub.FetchAggregatorMetadataCalled(ctx)
	}

	return make(map[string]swaps.AggregatorMetadata), nil
}

// FetchFeatureLiveness -
func (stub *SwapsAPIStub) FetchFeatureLiveness(ctx context.Context) bool {
	if stub.FetchFeatureLivenessCalled != nil {
		return stub.FetchFeatureLivenessCalled(ctx)
	}

	return false
}

// FetchTokenPrice -
func (stub *SwapsAPIStub) FetchTokenPrice(ctx context.Context, address string) (decimal.Decimal, error) {
	if stub.FetchTokenPriceCalled != nil {
		return stub.FetchTokenPriceCalled(ctx, address)
	}

	return decimal.Zero, nil
}

// IsInterfaceNil -
func (stub *SwapsAPIStub) IsInterfaceNil() bool {
	return stub == nil
}
