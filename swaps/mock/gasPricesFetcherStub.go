package mock

import (
	"context"

	gas "github.com/klever-io/klv-swaps-go/swaps/gasStation"
)

// GasPricesFetcherStub -
type GasPricesFetcherStub struct {
	FetchGasPricesCalled func(ctx context.Context) (gas.GasPrices, error)
}

// FetchGasPrices -
func (stub *GasPricesFetcherStub) FetchGasPrices(ctx context.Context) (gas.GasPrices, error) {
	if stub.FetchGasPricesCalled != nil {
		return stub.FetchGasPricesCalled(ctx)
	}

	return gas.GasPrices{}, nil
}

// IsInterfaceNil -
func (stub *GasPricesFetcherStub) IsInterfaceNil() bool {
	return stub == nil
}
