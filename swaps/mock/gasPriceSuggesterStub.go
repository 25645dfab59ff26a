package mock

import (
	"context"
	"math/big"
)

// GasPriceSuggesterStub -
type GasPriceSuggesterStub struct {
	SuggestGasPriceCalled func(ctx context.Context) (*big.Int, error)
}

// SuggestGasPrice -
func (stub *GasPriceSuggesterStub) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if stub.SuggestGasPriceCalled != nil {
		return stub.SuggestGasPriceCalled(ctx)
	}

	return big.NewInt(0), nil
}

// IsInterfaceNil -
func (stub *GasPriceSuggesterStub) IsInterfaceNil() bool {
	return stub == nil
}
