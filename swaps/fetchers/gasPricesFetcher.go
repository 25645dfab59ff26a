package fetchers

import (
	"context"
	"fmt"

	"github.com/klever-io/klv-swaps-go/swaps"
	gas "github.com/klever-io/klv-swaps-go/swaps/gasStation"
)

// ArgsGasPricesFetcher is the argument DTO for the gas station fetcher
type ArgsGasPricesFetcher struct {
	ResponseGetter swaps.ResponseGetter
	// ApiURL defaults to the swaps API gas prices endpoint
	ApiURL string
}

type gasPricesFetcher struct {
	responseGetter swaps.ResponseGetter
	apiURL         string
}

// NewGasPricesFetcher creates a new gas station fetcher
func NewGasPricesFetcher(args ArgsGasPricesFetcher) (*gasPricesFetcher, error) {
	if args.ResponseGetter == nil {
		return nil, errNilResponseGetter
	}

	apiURL, err := checkURL(args.ApiURL, DefaultSwapsAPIURL+"/"+gasPricesEndpoint)
	if err != nil {
		return nil, err
	}

	return &gasPricesFetcher{
		responseGetter: args.ResponseGetter,
		apiURL:         apiURL,
	}, nil
}

// FetchGasPrices returns the slow, average and fast gas prices in GWEI
func (fetcher *gasPricesFetcher) FetchGasPrices(ctx context.Context) (gas.GasPrices, error) {
	response := gas.GasPrices{}
	err := fetcher.responseGetter.Get(ctx, fetcher.apiURL, &response)
	if err != nil {
		return gas.GasPrices{}, err
	}

	if !response.SafeGasPrice.IsPositive() || !response.ProposeGasPrice.IsPositive() || !response.FastGasPrice.IsPositive() {
		return gas.GasPrices{}, fmt.Errorf("%w: gas prices %s/%s/%s", errInvalidResponseData,
			response.SafeGasPrice.String(), response.ProposeGasPrice.String(), response.FastGasPrice.String())
	}

	return response, nil
}

// IsInterfaceNil returns true if there is no value under the interface
func (fetcher *gasPricesFetcher) IsInterfaceNil() bool {
	return fetcher == nil
}
