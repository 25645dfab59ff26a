package mock

import (
	"context"
	"math/big"

	gas "github.com/klever-io/klv-swaps-go/swaps/gasStation"
)

// GasPriceProviderStub -
type GasPriceProviderStub struct {
	GasPriceCalled       func(ctx context.Context) (*big.Int, error)
	FetchGasPricesCalled func(ctx context.Context) (gas.GasPrices, error)
}

// GasPrice -
func (stub *GasPriceProviderStub) GasPrice(ctx context.Context) (*big.Int, error) {
	if stub.GasPriceCalled != nil {
		return stub.GasPriceCalled(ctx)
	}

	return big.NewInt(0), nil
}

// FetchGasPrices -
func (stub *GasPriceProviderStub) FetchGasPrices(ctx context.Context) (gas.GasPrices, error) {
	if stub.FetchGasPricesCalled != nil {
		return stub.FetchGasPricesCalled(ctx)
	}

	return gas.GasPrices{}, nil
}

// IsInterfaceNil -
func (stub *GasPriceProviderStub) IsInterfaceNil() bool {
	return stub == nil
}
