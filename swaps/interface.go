package swaps

import (
	"context"
	"math/big"

	gas "github.com/klever-io/klv-swaps-go/swaps/gasStation"
	"github.com/shopspring/decimal"
)

// ResponseGetter is the component able to execute a get operation on the provided URL
type ResponseGetter interface {
	Get(ctx context.Context, url string, response interface{}) error
}

// SwapsAPI defines the behavior of the read-only swaps API collaborator
type SwapsAPI interface {
	FetchQuotes(ctx context.Context, params SwapRequestParams) ([]*RawAggregatorQuote, error)
	FetchTokens(ctx context.Context) ([]Token, error)
	FetchTopAssets(ctx context.Context) ([]Asset, error)
	FetchAggregatorMetadata(ctx context.Context) (map[string]AggregatorMetadata, error)
	// FetchFeatureLiveness returns false when the feature flag can not be read
	FetchFeatureLiveness(ctx context.Context) bool
	// FetchTokenPrice returns the price of the token expressed in ETH
	FetchTokenPrice(ctx context.Context, address string) (decimal.Decimal, error)
	IsInterfaceNil() bool
}

// GasPriceProvider handles all gas price related queries
type GasPriceProvider interface {
	// GasPrice returns the gas price to be used when computing the quotes cost, in wei
	GasPrice(ctx context.Context) (*big.Int, error)
	// FetchGasPrices returns the slow, average and fast gas prices in GWEI
	FetchGasPrices(ctx context.Context) (gas.GasPrices, error)
	IsInterfaceNil() bool
}

// ChainInteractor defines the on-chain queries needed to size the offered transactions
type ChainInteractor interface {
	EstimateGas(ctx context.Context, tx TxParams) (uint64, error)
	Allowance(ctx context.Context, token string, owner string, spender string) (*big.Int, error)
	IsInterfaceNil() bool
}

// ArgsQuotesChanged is the argument used when notifying the notifee instances
type ArgsQuotesChanged struct {
	Sequence        uint64
	Quotes          QuoteMap
	TopAggregatorID string
	FetchParams     SwapRequestParams
	Timestamp       int64
}

// QuotesNotifee defines the behavior of a component able to be notified over an accepted quotes update
type QuotesNotifee interface {
	QuotesChanged(ctx context.Context, args ArgsQuotesChanged) error
	IsInterfaceNil() bool
}
