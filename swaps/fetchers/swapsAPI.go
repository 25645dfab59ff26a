package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/klever-io/klv-swaps-go/swaps"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/shopspring/decimal"
)

const (
	// DefaultSwapsAPIURL is the base URL of the swaps API
	DefaultSwapsAPIURL = "https://api.metaswap.codefi.network"
	// DefaultTokenPriceAPIURL is the coingecko endpoint returning the token prices
	DefaultTokenPriceAPIURL = "https://api.coingecko.com/api/v3/simple/token_price/ethereum"
	// DefaultAggregatorTimeout is the time the swaps API waits for each aggregator
	DefaultAggregatorTimeout = 10 * time.Second

	tradesEndpoint             = "trades"
	tokensEndpoint             = "tokens"
	topAssetsEndpoint          = "topAssets"
	featureFlagEndpoint        = "featureFlag"
	aggregatorMetadataEndpoint = "aggregatorMetadata"
	gasPricesEndpoint          = "gasPrices"
	ethCurrency                = "eth"
)

var log = logger.GetOrCreate("klv-swaps-go/swaps/fetchers")

type featureFlagResponse struct {
	Active bool `json:"active"`
}

// ArgsSwapsAPI is the argument DTO for the swaps API client
type ArgsSwapsAPI struct {
	ResponseGetter    swaps.ResponseGetter
	BaseURL           string
	TokenPriceURL     string
	AggregatorTimeout time.Duration
}

type swapsAPI struct {
	responseGetter    swaps.ResponseGetter
	baseURL           string
	tokenPriceURL     string
	aggregatorTimeout time.Duration
}

// NewSwapsAPI creates a new swaps API client. Empty URLs fall back to the public endpoints
func NewSwapsAPI(args ArgsSwapsAPI) (*swapsAPI, error) {
	if args.ResponseGetter == nil {
		return nil, errNilResponseGetter
	}
	if args.AggregatorTimeout < 0 {
		return nil, fmt.Errorf("%w: %v", errInvalidTimeout, args.AggregatorTimeout)
	}

	baseURL, err := checkURL(args.BaseURL, DefaultSwapsAPIURL)
	if err != nil {
		return nil, err
	}
	tokenPriceURL, err := checkURL(args.TokenPriceURL, DefaultTokenPriceAPIURL)
	if err != nil {
		return nil, err
	}

	api := &swapsAPI{
		responseGetter:    args.ResponseGetter,
		baseURL:           baseURL,
		tokenPriceURL:     tokenPriceURL,
		aggregatorTimeout: args.AggregatorTimeout,
	}
	if api.aggregatorTimeout == 0 {
		api.aggregatorTimeout = DefaultAggregatorTimeout
	}

	return api, nil
}

func checkURL(value string, defaultValue string) (string, error) {
	if len(value) == 0 {
		return defaultValue, nil
	}

	parsed, err := url.Parse(value)
	if err != nil || len(parsed.Scheme) == 0 || len(parsed.Host) == 0 {
		return "", fmt.Errorf("%w: %q", errInvalidURL, value)
	}

	return strings.TrimSuffix(value, "/"), nil
}

func (api *swapsAPI) endpoint(name string) string {
	return api.baseURL + "/" + name
}

// FetchQuotes requests the aggregator quotes of the provided swap request
func (api *swapsAPI) FetchQuotes(ctx context.Context, params swaps.SwapRequestParams) ([]*swaps.RawAggregatorQuote, error) {
	query := url.Values{}
	query.Set("destinationToken", params.DestinationToken)
	query.Set("sourceToken", params.SourceToken)
	query.Set("sourceAmount", params.SourceAmount)
	query.Set("slippage", params.Slippage.String())
	query.Set("timeout", strconv.FormatInt(api.aggregatorTimeout.Milliseconds(), 10))
	query.Set("walletAddress", params.FromAddress)
	if len(params.ExchangeList) > 0 {
		query.Set("exchangeList", strings.Join(params.ExchangeList, ","))
	}

	response := make([]json.RawMessage, 0)
	err := api.responseGetter.Get(ctx, api.endpoint(tradesEndpoint)+"?"+query.Encode(), &response)
	if err != nil {
		return nil, err
	}

	quotes := make([]*swaps.RawAggregatorQuote, 0, len(response))
	for _, entry := range response {
		quotes = append(quotes, decodeAggregatorQuote(entry))
	}

	log.Trace("fetched aggregator quotes", "num quotes", len(quotes))

	return quotes, nil
}

// decodeAggregatorQuote decodes one element of the trades response. An element that does not match the expected
// shape is returned as a failed quote of its aggregator so the rest of the batch is kept
func decodeAggregatorQuote(entry json.RawMessage) *swaps.RawAggregatorQuote {
	quote := &swaps.RawAggregatorQuote{}
	err := json.Unmarshal(entry, quote)
	if err == nil {
		return quote
	}

	header := struct {
		Aggregator interface{} `json:"aggregator"`
	}{}
	_ = json.Unmarshal(entry, &header)
	aggregator, _ := header.Aggregator.(string)

	reason, _ := json.Marshal(fmt.Sprintf("%s: %v", errInvalidResponseData.Error(), err))
	log.Debug("malformed aggregator quote", "aggregator", aggregator, "error", err)

	return &swaps.RawAggregatorQuote{
		Aggregator: aggregator,
		Error:      reason,
	}
}

// FetchTokens returns the swappable tokens. The API native currency entry is replaced with the canonical one
func (api *swapsAPI) FetchTokens(ctx context.Context) ([]swaps.Token, error) {
	response := make([]swaps.Token, 0)
	err := api.responseGetter.Get(ctx, api.endpoint(tokensEndpoint), &response)
	if err != nil {
		return nil, err
	}

	tokens := make([]swaps.Token, 0, len(response)+1)
	for _, token := range response {
		if swaps.IsETHAddress(token.Address) {
			continue
		}
		tokens = append(tokens, token)
	}

	return append(tokens, swaps.ETHSwapsToken), nil
}

// FetchTopAssets returns the most swapped assets
func (api *swapsAPI) FetchTopAssets(ctx context.Context) ([]swaps.Asset, error) {
	response := make([]swaps.Asset, 0)
	err := api.responseGetter.Get(ctx, api.endpoint(topAssetsEndpoint), &response)
	if err != nil {
		return nil, err
	}

	return response, nil
}

// FetchAggregatorMetadata returns the display information of every aggregator
func (api *swapsAPI) FetchAggregatorMetadata(ctx context.Context) (map[string]swaps.AggregatorMetadata, error) {
	response := make(map[string]swaps.AggregatorMetadata)
	err := api.responseGetter.Get(ctx, api.endpoint(aggregatorMetadataEndpoint), &response)
	if err != nil {
		return nil, err
	}

	return response, nil
}

// FetchFeatureLiveness returns the swaps feature flag, false if it can not be read
func (api *swapsAPI) FetchFeatureLiveness(ctx context.Context) bool {
	response := featureFlagResponse{}
	err := api.responseGetter.Get(ctx, api.endpoint(featureFlagEndpoint), &response)
	if err != nil {
		log.Debug("can not read the swaps feature flag", "error", err)
		return false
	}

	return response.Active
}

// FetchTokenPrice returns the price of the provided token expressed in ETH
func (api *swapsAPI) FetchTokenPrice(ctx context.Context, address string) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("contract_addresses", address)
	query.Set("vs_currencies", ethCurrency)

	response := make(map[string]map[string]decimal.Decimal)
	err := api.responseGetter.Get(ctx, api.tokenPriceURL+"?"+query.Encode(), &response)
	if err != nil {
		return decimal.Zero, err
	}

	for token, prices := range response {
		if !strings.EqualFold(token, address) {
			continue
		}

		price, found := prices[ethCurrency]
		if !found {
			break
		}
		if !price.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: price %s for %s", errInvalidResponseData, price.String(), address)
		}

		return price, nil
	}

	return decimal.Zero, fmt.Errorf("%w: %s", errTokenPriceNotFound, address)
}

// IsInterfaceNil returns true if there is no value under the interface
func (api *swapsAPI) IsInterfaceNil() bool {
	return api == nil
}
