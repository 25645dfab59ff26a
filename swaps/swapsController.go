package swaps

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gas "github.com/klever-io/klv-swaps-go/swaps/gasStation"
	"github.com/klever-io/klv-swaps-go/swaps/stats"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/shopspring/decimal"
)

const (
	// DefaultQuotePollingInterval is the default interval between two polled quotes fetches
	DefaultQuotePollingInterval = 50 * time.Second
	// DefaultPollCountLimit is the default number of extra polled fetches before the quotes expire
	DefaultPollCountLimit = 3
	// DefaultFetchTokensThreshold is the default validity of the cached tokens list
	DefaultFetchTokensThreshold = 24 * time.Hour
)

var log = logger.GetOrCreate("klv-swaps-go/swaps")

// ArgsSwapsController is the argument DTO for the swaps controller
type ArgsSwapsController struct {
	SwapsAPI             SwapsAPI
	GasPriceProvider     GasPriceProvider
	ChainInteractor      ChainInteractor
	Notifees             []QuotesNotifee
	Comparator           QuoteComparator
	QuotePollingInterval time.Duration
	PollCountLimit       uint32
	FetchTokensThreshold time.Duration
	SwapsContractAddress string
}

type swapsController struct {
	swapsAPI             SwapsAPI
	gasPriceProvider     GasPriceProvider
	chainInteractor      ChainInteractor
	notifees             []QuotesNotifee
	comparator           QuoteComparator
	pollCountLimit       uint64
	fetchTokensThreshold time.Duration
	swapsContractAddress string
	sessions             *sessionTracker
	state                *swapsStore
	poller               *quotePoller
	timeNowHandler       func() time.Time
}

// NewSwapsController will create a new swaps controller instance
func NewSwapsController(args ArgsSwapsController) (*swapsController, error) {
	err := checkArgsSwapsController(args)
	if err != nil {
		return nil, err
	}

	sc := &swapsController{
		swapsAPI:             args.SwapsAPI,
		gasPriceProvider:     args.GasPriceProvider,
		chainInteractor:      args.ChainInteractor,
		notifees:             args.Notifees,
		comparator:           args.Comparator,
		pollCountLimit:       uint64(args.PollCountLimit),
		fetchTokensThreshold: args.FetchTokensThreshold,
		swapsContractAddress: args.SwapsContractAddress,
		sessions:             newSessionTracker(),
		timeNowHandler:       time.Now,
	}
	if sc.comparator == nil {
		sc.comparator = DefaultQuoteComparator
	}
	sc.state = newSwapsStore(func() time.Time {
		return sc.timeNowHandler()
	})

	sc.poller, err = NewQuotePoller(ArgsQuotePoller{
		PollingInterval: args.QuotePollingInterval,
		TickHandler:     sc.onPollTick,
	})
	if err != nil {
		return nil, err
	}

	return sc, nil
}

func checkArgsSwapsController(args ArgsSwapsController) error {
	if check.IfNil(args.SwapsAPI) {
		return ErrNilSwapsAPI
	}
	if check.IfNil(args.GasPriceProvider) {
		return ErrNilGasPriceProvider
	}
	if check.IfNil(args.ChainInteractor) {
		return ErrNilChainInteractor
	}
	for idx, notifee := range args.Notifees {
		if check.IfNil(notifee) {
			return fmt.Errorf("%w, index %d", ErrNilQuotesNotifee, idx)
		}
	}
	if args.QuotePollingInterval <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPollingInterval, args.QuotePollingInterval)
	}
	if args.FetchTokensThreshold <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidFetchTokensThreshold, args.FetchTokensThreshold)
	}
	if !common.IsHexAddress(args.SwapsContractAddress) {
		return fmt.Errorf("%w: %q", ErrInvalidSwapsContractAddress, args.SwapsContractAddress)
	}

	return nil
}

// FetchAndSetQuotes fetches, normalizes and ranks the quotes of the provided swap request. The results are written
// in the state only if no newer fetch was started in the meantime, otherwise FetchOrderConflict is returned
func (sc *swapsController) FetchAndSetQuotes(ctx context.Context, params SwapRequestParams) (QuoteMap, string, error) {
	params, err := sc.prepareSwapRequest(ctx, params)
	if err != nil {
		return nil, "", err
	}

	return sc.processSession(ctx, sc.openSession(params))
}

func (sc *swapsController) prepareSwapRequest(ctx context.Context, params SwapRequestParams) (SwapRequestParams, error) {
	err := params.Validate()
	if err != nil {
		return params, err
	}

	return sc.resolveDestinationTokenInfo(ctx, params)
}

func (sc *swapsController) openSession(params SwapRequestParams) *FetchSession {
	return sc.sessions.newSession(params, func() {
		sc.state.SetFetchParams(params)
	})
}

// resolveDestinationTokenInfo makes sure the destination token metadata, and its decimals, describes the requested
// destination token. Missing or mismatched metadata is looked up in the cached tokens list
func (sc *swapsController) resolveDestinationTokenInfo(ctx context.Context, params SwapRequestParams) (SwapRequestParams, error) {
	if IsETHAddress(params.DestinationToken) {
		params.MetaData.DestinationTokenInfo = ETHSwapsToken
		return params, nil
	}
	if strings.EqualFold(params.MetaData.DestinationTokenInfo.Address, params.DestinationToken) {
		return params, nil
	}

	tokens, err := sc.FetchTokensWithCache(ctx)
	if err != nil {
		return params, fmt.Errorf("%w: can not resolve the destination token %q: %v",
			ErrInvalidSwapRequest, params.DestinationToken, err)
	}

	for _, token := range tokens {
		if strings.EqualFold(token.Address, params.DestinationToken) {
			log.Debug("destination token metadata resolved from the tokens list",
				"token", params.DestinationToken, "decimals", token.Decimals)
			params.MetaData.DestinationTokenInfo = token
			return params, nil
		}
	}

	return params, fmt.Errorf("%w: unknown destination token %q", ErrInvalidSwapRequest, params.DestinationToken)
}

func (sc *swapsController) processSession(ctx context.Context, session *FetchSession) (QuoteMap, string, error) {
	log.Debug("fetching quotes", "session", session.ID, "sequence", session.Sequence,
		"source", session.Params.SourceToken, "destination", session.Params.DestinationToken)

	quotes, topAggID, err := sc.fetchQuotes(ctx, session.Params)
	if err != nil {
		accepted := sc.sessions.commit(session, func() {
			sc.state.SetSwapsErrorKey(ErrorFetchingQuotes)
		})
		if !accepted {
			return nil, "", FetchOrderConflict
		}

		log.Debug("error fetching quotes", "session", session.ID, "error", err)
		return nil, "", fmt.Errorf("%w: %w", ErrorFetchingQuotes, err)
	}

	if len(quotes) == 0 {
		accepted := sc.sessions.commit(session, func() {
			sc.state.SetQuotes(make(QuoteMap), "")
			sc.state.SetSwapsErrorKey(QuotesNotAvailableError)
		})
		if !accepted {
			return nil, "", FetchOrderConflict
		}

		return make(QuoteMap), "", QuotesNotAvailableError
	}

	accepted := sc.sessions.commit(session, func() {
		sc.state.SetQuotes(quotes.Clone(), topAggID)
	})
	if !accepted {
		log.Debug("discarding the quotes of a superseded session", "session", session.ID,
			"sequence", session.Sequence, "latest", sc.sessions.latestSequence())
		return nil, "", FetchOrderConflict
	}

	log.Debug("quotes updated", "session", session.ID, "num quotes", len(quotes), "top aggregator", topAggID)
	sc.notify(ctx, ArgsQuotesChanged{
		Sequence:        session.Sequence,
		Quotes:          quotes.Clone(),
		TopAggregatorID: topAggID,
		FetchParams:     session.Params,
		Timestamp:       sc.timeNowHandler().UnixMilli(),
	})

	return quotes, topAggID, nil
}

func (sc *swapsController) fetchQuotes(ctx context.Context, params SwapRequestParams) (QuoteMap, string, error) {
	rawQuotes, err := sc.swapsAPI.FetchQuotes(ctx, params)
	if err != nil {
		return nil, "", err
	}

	quotes := NormalizeQuotes(rawQuotes, params.Slippage)
	if len(quotes) == 0 {
		return quotes, "", nil
	}

	approvalRequired := sc.resolveApprovals(ctx, params, quotes)

	gasPrice, err := sc.gasPriceProvider.GasPrice(ctx)
	if err != nil {
		return nil, "", err
	}

	topAggID, err := sc.rankQuotes(ctx, params, quotes, gasPrice)
	if err != nil {
		return nil, "", err
	}
	if len(quotes) == 0 {
		return quotes, "", nil
	}

	if !approvalRequired {
		sc.estimateTradeGas(ctx, quotes[topAggID])
	}

	return quotes, topAggID, nil
}

// resolveApprovals drops the approval transactions when the swaps contract already has an allowance, otherwise sizes
// them using the node estimation. It returns true if the approval transactions are still required
func (sc *swapsController) resolveApprovals(ctx context.Context, params SwapRequestParams, quotes QuoteMap) bool {
	if IsETHAddress(params.SourceToken) {
		dropApprovals(quotes)
		return false
	}

	allowance, err := sc.chainInteractor.Allowance(ctx, params.SourceToken, params.FromAddress, sc.swapsContractAddress)
	if err != nil {
		log.Debug("allowance check failed, keeping the aggregators approvals", "token", params.SourceToken, "error", err)
	}
	if err == nil && allowance != nil && allowance.Sign() > 0 {
		dropApprovals(quotes)
		return false
	}

	aggregators := sortedAggregators(quotes)
	var approval *TxParams
	for _, aggregator := range aggregators {
		if quotes[aggregator].ApprovalNeeded != nil {
			approval = quotes[aggregator].ApprovalNeeded
			break
		}
	}
	if approval == nil {
		return false
	}

	approvalGas := gas.DefaultERC20ApproveGas
	estimated, err := sc.chainInteractor.EstimateGas(ctx, *approval)
	if err != nil {
		log.Debug("approval gas estimation failed, using the default", "gas", approvalGas, "error", err)
	} else {
		approvalGas = hexutil.EncodeUint64(estimated)
	}

	for _, trade := range quotes {
		if trade.ApprovalNeeded != nil {
			trade.ApprovalNeeded.Gas = approvalGas
		}
	}

	return true
}

func dropApprovals(quotes QuoteMap) {
	for _, trade := range quotes {
		trade.ApprovalNeeded = nil
	}
}

// rankQuotes computes the fees of every quote, selects the top one and attaches its savings. Quotes whose fees
// can not be computed are removed from the map
func (sc *swapsController) rankQuotes(
	ctx context.Context,
	params SwapRequestParams,
	quotes QuoteMap,
	gasPrice *big.Int,
) (string, error) {
	args := argsTradeFees{
		gasPrice:             gasPrice,
		sourceToken:          params.SourceToken,
		destinationToken:     params.DestinationToken,
		destinationDecimals:  params.MetaData.DestinationTokenInfo.Decimals,
		destinationTokenRate: sc.destinationTokenRate(ctx, params.DestinationToken),
	}

	allFees := make([]stats.TradeFees, 0, len(quotes))
	for _, aggregator := range sortedAggregators(quotes) {
		fees, err := computeTradeFees(quotes[aggregator], args)
		if err != nil {
			log.Debug("dropping quote", "aggregator", aggregator, "error", err)
			delete(quotes, aggregator)
			continue
		}

		quotes[aggregator].Fees = &fees
		allFees = append(allFees, fees)
	}
	if len(quotes) == 0 {
		return "", nil
	}

	topAggID, err := RankTop(RankedQuotesFromMap(quotes), sc.comparator)
	if err != nil {
		return "", err
	}

	_, rateIsKnown := destinationConversionRate(args)
	if !rateIsKnown {
		return topAggID, nil
	}

	top := quotes[topAggID]
	top.Savings, err = computeSavings(*top.Fees, allFees)
	if err != nil {
		return "", err
	}

	return topAggID, nil
}

func (sc *swapsController) destinationTokenRate(ctx context.Context, destinationToken string) *decimal.Decimal {
	if IsETHAddress(destinationToken) {
		return nil
	}

	rate, err := sc.swapsAPI.FetchTokenPrice(ctx, destinationToken)
	if err != nil || !rate.IsPositive() {
		log.Debug("destination token rate unavailable", "token", destinationToken, "error", err)
		return nil
	}

	return &rate
}

// estimateTradeGas stores the node gas estimation of the trade and its refund adjusted value
func (sc *swapsController) estimateTradeGas(ctx context.Context, trade *CanonicalTrade) {
	gasEstimate := trade.Trade.Gas
	estimated, err := sc.chainInteractor.EstimateGas(ctx, trade.Trade)
	if err != nil {
		log.Debug("trade gas estimation failed, using the aggregator gas", "aggregator", trade.Aggregator, "error", err)
	} else {
		gasEstimate = hexutil.EncodeUint64(estimated)
	}

	maxGas := new(big.Int).SetUint64(trade.MaxGas)
	estimatedRefund := new(big.Int).SetUint64(trade.EstimatedRefund)
	gasEstimateWithRefund, err := gas.CalculateGasEstimateWithRefund(maxGas, estimatedRefund, gasEstimate)
	if err != nil {
		log.Debug("can not compute the gas estimate with refund", "aggregator", trade.Aggregator, "error", err)
		return
	}

	trade.GasEstimate = gasEstimate
	trade.GasEstimateWithRefund = hexutil.EncodeBig(gasEstimateWithRefund)
}

func sortedAggregators(quotes QuoteMap) []string {
	aggregators := make([]string, 0, len(quotes))
	for aggregator := range quotes {
		aggregators = append(aggregators, aggregator)
	}
	sort.Strings(aggregators)

	return aggregators
}

func (sc *swapsController) notify(ctx context.Context, args ArgsQuotesChanged) {
	for _, notifee := range sc.notifees {
		err := notifee.QuotesChanged(ctx, args)
		if err != nil {
			log.Warn("quotes notifee failed", "sequence", args.Sequence, "error", err)
		}
	}
}

// StartPolling arms the quotes polling for the provided swap request. The first fetch starts immediately
func (sc *swapsController) StartPolling(params SwapRequestParams) error {
	err := params.Validate()
	if err != nil {
		return err
	}

	sc.poller.Start(params)
	log.Debug("quotes polling started", "source", params.SourceToken, "destination", params.DestinationToken)

	return nil
}

// StopPolling disarms the quotes polling. The fetches already in flight are allowed to complete
func (sc *swapsController) StopPolling() {
	sc.poller.Stop()
	log.Debug("quotes polling stopped")
}

// IsPolling returns true if the quotes polling is armed
func (sc *swapsController) IsPolling() bool {
	return sc.poller.IsRunning()
}

// onPollTick ignores the ticks of a previous arming. The session is opened while the poller is held so a re-arming
// can not open its sessions before it
func (sc *swapsController) onPollTick(ctx context.Context, params SwapRequestParams, tick uint64, generation uint64) {
	if sc.pollCountLimit > 0 && tick > sc.pollCountLimit+1 {
		sc.expireQuotes(generation)
		return
	}

	params, err := sc.prepareSwapRequest(ctx, params)
	if err != nil {
		log.Debug("polled quotes fetch", "tick", tick, "error", err)
		return
	}

	var session *FetchSession
	isCurrent := sc.poller.RunIfCurrent(generation, func() {
		session = sc.openSession(params)
	})
	if !isCurrent {
		log.Trace("dropping the tick of a previous polling", "tick", tick, "generation", generation)
		return
	}

	_, _, err = sc.processSession(ctx, session)
	if err != nil {
		log.Debug("polled quotes fetch", "tick", tick, "error", err)
	}
}

// expireQuotes stops the polling and resets the fetch state, unless the polling was re-armed in the meantime. A new
// session is used so the fetches still in flight can not overwrite the expired state
func (sc *swapsController) expireQuotes(generation uint64) {
	var sequence uint64
	expired := sc.poller.StopIfCurrent(generation, func() {
		session := sc.sessions.newSession(SwapRequestParams{}, nil)
		sc.sessions.commit(session, func() {
			sc.state.ResetPostFetchState()
			sc.state.SetSwapsErrorKey(QuotesExpiredError)
		})
		sequence = session.Sequence
	})
	if !expired {
		log.Trace("dropping the expiry of a previous polling", "generation", generation)
		return
	}

	log.Debug("quotes expired", "sequence", sequence)
}

// SafeRefetchQuotes refetches the quotes of the last swap request, unless the polling is already doing so
func (sc *swapsController) SafeRefetchQuotes(ctx context.Context) error {
	if sc.poller.IsRunning() {
		return nil
	}

	params := sc.state.State().FetchParams
	if params.Validate() != nil {
		return ErrNoFetchParams
	}

	_, _, err := sc.FetchAndSetQuotes(ctx, params)

	return err
}

// FetchTokensWithCache returns the cached tokens list while it is still valid, otherwise it refreshes it
func (sc *swapsController) FetchTokensWithCache(ctx context.Context) ([]Token, error) {
	state := sc.state.State()
	if state.Tokens != nil && !sc.tokensCacheExpired(state.TokensLastFetched) {
		return state.Tokens, nil
	}

	tokens, err := sc.swapsAPI.FetchTokens(ctx)
	if err != nil {
		return nil, err
	}

	sc.state.SetSwapsTokens(tokens)
	log.Debug("tokens list refreshed", "num tokens", len(tokens))

	return tokens, nil
}

func (sc *swapsController) tokensCacheExpired(tokensLastFetched int64) bool {
	expiry := time.UnixMilli(tokensLastFetched).Add(sc.fetchTokensThreshold)

	return !sc.timeNowHandler().Before(expiry)
}

// FetchSwapsLiveness queries and stores the swaps feature flag
func (sc *swapsController) FetchSwapsLiveness(ctx context.Context) bool {
	isLive := sc.swapsAPI.FetchFeatureLiveness(ctx)
	sc.state.SetSwapsLiveness(isLive)

	return isLive
}

// FetchTopAssets returns the swaps top assets
func (sc *swapsController) FetchTopAssets(ctx context.Context) ([]Asset, error) {
	return sc.swapsAPI.FetchTopAssets(ctx)
}

// FetchAggregatorMetadata returns the aggregators display information
func (sc *swapsController) FetchAggregatorMetadata(ctx context.Context) (map[string]AggregatorMetadata, error) {
	return sc.swapsAPI.FetchAggregatorMetadata(ctx)
}

// FetchGasPrices returns the slow, average and fast gas prices in GWEI
func (sc *swapsController) FetchGasPrices(ctx context.Context) (gas.GasPrices, error) {
	return sc.gasPriceProvider.FetchGasPrices(ctx)
}

// Execute refreshes the swaps feature flag and the tokens cache
func (sc *swapsController) Execute(ctx context.Context) error {
	isLive := sc.FetchSwapsLiveness(ctx)
	log.Trace("swaps liveness", "is live", isLive)

	_, err := sc.FetchTokensWithCache(ctx)

	return err
}

// State returns a snapshot of the swaps state
func (sc *swapsController) State() SwapsState {
	return sc.state.State()
}

// SetSwapsTokens stores the tokens list
func (sc *swapsController) SetSwapsTokens(tokens []Token) {
	sc.state.SetSwapsTokens(tokens)
}

// SetSwapsErrorKey stores the provided error key
func (sc *swapsController) SetSwapsErrorKey(key SwapsErrorKey) {
	sc.state.SetSwapsErrorKey(key)
}

// SetQuotesLastFetched overrides the quotes fetch timestamp
func (sc *swapsController) SetQuotesLastFetched(timestamp int64) {
	sc.state.SetQuotesLastFetched(timestamp)
}

// SetSwapsLiveness stores the swaps feature flag
func (sc *swapsController) SetSwapsLiveness(isLive bool) {
	sc.state.SetSwapsLiveness(isLive)
}

// ResetState stops the polling and restores the default state. Fetches still in flight are discarded
func (sc *swapsController) ResetState() {
	sc.poller.Stop()

	session := sc.sessions.newSession(SwapRequestParams{}, nil)
	sc.sessions.commit(session, sc.state.Reset)
}

// Close stops the quotes polling
func (sc *swapsController) Close() error {
	sc.poller.Stop()

	return nil
}

// IsInterfaceNil returns true if there is no value under the interface
func (sc *swapsController) IsInterfaceNil() bool {
	return sc == nil
}
