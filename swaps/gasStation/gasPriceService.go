package gas

import (
	"context"
	"fmt"
	"math/big"

	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/shopspring/decimal"
)

const (
	// SafeGasPriceSelector selects the slow gas price
	SafeGasPriceSelector = "SafeGasPrice"
	// ProposeGasPriceSelector selects the average gas price
	ProposeGasPriceSelector = "ProposeGasPrice"
	// FastGasPriceSelector selects the fast gas price
	FastGasPriceSelector = "FastGasPrice"
)

const gweiDecimals = 9

var log = logger.GetOrCreate("klv-swaps-go/swaps/gasStation")

// GasPrices holds the gas station prices, expressed in GWEI
type GasPrices struct {
	SafeGasPrice    decimal.Decimal `json:"SafeGasPrice"`
	ProposeGasPrice decimal.Decimal `json:"ProposeGasPrice"`
	FastGasPrice    decimal.Decimal `json:"FastGasPrice"`
}

// ArgsGasPriceService is the DTO used to create a new GasPriceService
type ArgsGasPriceService struct {
	GasPricesFetcher  GasPricesFetcher  // Fetcher for the gas station prices
	GasPriceSuggester GasPriceSuggester // Node backed fallback
	Selector          string
}

type gasPriceService struct {
	gasPricesFetcher  GasPricesFetcher
	gasPriceSuggester GasPriceSuggester
	selector          string
}

// NewGasPriceService creates a new instance of the gas price service
func NewGasPriceService(args ArgsGasPriceService) (*gasPriceService, error) {
	if err := checkArgsGasPriceService(args); err != nil {
		return nil, err
	}

	return &gasPriceService{
		gasPricesFetcher:  args.GasPricesFetcher,
		gasPriceSuggester: args.GasPriceSuggester,
		selector:          args.Selector,
	}, nil
}

func checkArgsGasPriceService(args ArgsGasPriceService) error {
	if check.IfNil(args.GasPricesFetcher) {
		return ErrNilGasPricesFetcher
	}
	if check.IfNil(args.GasPriceSuggester) {
		return ErrNilGasPriceSuggester
	}

	switch args.Selector {
	case SafeGasPriceSelector, ProposeGasPriceSelector, FastGasPriceSelector:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidGasPriceSelector, args.Selector)
	}
}

// FetchGasPrices returns the slow, average and fast gas prices in GWEI
func (gps *gasPriceService) FetchGasPrices(ctx context.Context) (GasPrices, error) {
	return gps.gasPricesFetcher.FetchGasPrices(ctx)
}

// GasPrice returns the configured gas price in wei. When the gas station can not be queried the node's
// suggested gas price is used instead
func (gps *gasPriceService) GasPrice(ctx context.Context) (*big.Int, error) {
	prices, err := gps.gasPricesFetcher.FetchGasPrices(ctx)
	if err == nil {
		var gasPrice *big.Int
		gasPrice, err = gweiToWei(selectGasPrice(prices, gps.selector))
		if err == nil {
			return gasPrice, nil
		}
	}

	log.Debug("gas station unavailable, falling back to the node gas price", "error", err)

	gasPrice, err := gps.gasPriceSuggester.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	return gasPrice, nil
}

func selectGasPrice(prices GasPrices, selector string) decimal.Decimal {
	switch selector {
	case SafeGasPriceSelector:
		return prices.SafeGasPrice
	case FastGasPriceSelector:
		return prices.FastGasPrice
	default:
		return prices.ProposeGasPrice
	}
}

func gweiToWei(gwei decimal.Decimal) (*big.Int, error) {
	if !gwei.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidGasPrice, gwei.String())
	}

	return gwei.Shift(gweiDecimals).BigInt(), nil
}

// IsInterfaceNil returns true if there is no value under the interface
func (gps *gasPriceService) IsInterfaceNil() bool {
	return gps == nil
}
