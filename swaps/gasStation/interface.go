package gas

import (
	"context"
	"math/big"
)

// GasPricesFetcher defines the behavior of a component able to query the gas station prices
type GasPricesFetcher interface {
	FetchGasPrices(ctx context.Context) (GasPrices, error)
	IsInterfaceNil() bool
}

// GasPriceSuggester defines the behavior of a component able to suggest a gas price straight from the node
type GasPriceSuggester interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	IsInterfaceNil() bool
}
