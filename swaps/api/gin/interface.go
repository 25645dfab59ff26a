package gin

import (
	"context"
	"net/http"

	"github.com/klever-io/klv-swaps-go/swaps"
	gas "github.com/klever-io/klv-swaps-go/swaps/gasStation"
)

// SwapsFacade defines the swaps operations exposed over REST
type SwapsFacade interface {
	State() swaps.SwapsState
	FetchAndSetQuotes(ctx context.Context, params swaps.SwapRequestParams) (swaps.QuoteMap, string, error)
	SafeRefetchQuotes(ctx context.Context) error
	StartPolling(params swaps.SwapRequestParams) error
	StopPolling()
	IsPolling() bool
	FetchTokensWithCache(ctx context.Context) ([]swaps.Token, error)
	FetchTopAssets(ctx context.Context) ([]swaps.Asset, error)
	FetchAggregatorMetadata(ctx context.Context) (map[string]swaps.AggregatorMetadata, error)
	FetchGasPrices(ctx context.Context) (gas.GasPrices, error)
	ResetState()
	IsInterfaceNil() bool
}

// WSHandler defines the component able to serve the quotes updates over websocket
type WSHandler interface {
	ServeWS(w http.ResponseWriter, r *http.Request) error
	IsInterfaceNil() bool
}
