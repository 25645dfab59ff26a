package swaps

import (
	"sync"
	"time"
)

// SwapsState is a snapshot of the swaps state
type SwapsState struct {
	Quotes             QuoteMap          `json:"quotes"`
	FetchParams        SwapRequestParams `json:"fetchParams"`
	Tokens             []Token           `json:"tokens"`
	QuotesLastFetched  int64             `json:"quotesLastFetched"`
	ErrorKey           SwapsErrorKey     `json:"errorKey"`
	TopAggID           string            `json:"topAggId"`
	SwapsFeatureIsLive bool              `json:"swapsFeatureIsLive"`
	TokensLastFetched  int64             `json:"tokensLastFetched"`
}

func defaultSwapsState() SwapsState {
	return SwapsState{
		Quotes: make(QuoteMap),
		FetchParams: SwapRequestParams{
			MetaData: RequestMetaData{
				AccountBalance: "0x",
			},
		},
	}
}

// swapsStore is the single writer container of the swaps state. Timestamps are expressed in unix milliseconds
type swapsStore struct {
	mut            sync.RWMutex
	state          SwapsState
	timeNowHandler func() time.Time
}

func newSwapsStore(timeNowHandler func() time.Time) *swapsStore {
	return &swapsStore{
		state:          defaultSwapsState(),
		timeNowHandler: timeNowHandler,
	}
}

// State returns a deep copy of the current state
func (store *swapsStore) State() SwapsState {
	store.mut.RLock()
	defer store.mut.RUnlock()

	snapshot := store.state
	snapshot.Quotes = store.state.Quotes.Clone()
	snapshot.FetchParams = store.state.FetchParams.clone()
	if store.state.Tokens != nil {
		snapshot.Tokens = append(make([]Token, 0, len(store.state.Tokens)), store.state.Tokens...)
	}

	return snapshot
}

// SetSwapsTokens stores the tokens list and its fetch timestamp
func (store *swapsStore) SetSwapsTokens(tokens []Token) {
	store.mut.Lock()
	defer store.mut.Unlock()

	store.state.Tokens = tokens
	store.state.TokensLastFetched = store.timeNowHandler().UnixMilli()
}

// SetQuotes stores the quotes, the top aggregator and the fetch timestamp, clearing any previous error
func (store *swapsStore) SetQuotes(quotes QuoteMap, topAggID string) {
	store.mut.Lock()
	defer store.mut.Unlock()

	store.state.Quotes = quotes
	store.state.TopAggID = topAggID
	store.state.QuotesLastFetched = store.timeNowHandler().UnixMilli()
	store.state.ErrorKey = ""
}

// SetSwapsErrorKey stores the error key. The last known quotes are left untouched
func (store *swapsStore) SetSwapsErrorKey(key SwapsErrorKey) {
	store.mut.Lock()
	defer store.mut.Unlock()

	store.state.ErrorKey = key
}

// SetQuotesLastFetched overrides the quotes fetch timestamp
func (store *swapsStore) SetQuotesLastFetched(timestamp int64) {
	store.mut.Lock()
	defer store.mut.Unlock()

	store.state.QuotesLastFetched = timestamp
}

// SetSwapsLiveness stores the swaps feature flag
func (store *swapsStore) SetSwapsLiveness(isLive bool) {
	store.mut.Lock()
	defer store.mut.Unlock()

	store.state.SwapsFeatureIsLive = isLive
}

// SetFetchParams stores the params of the most recently requested fetch
func (store *swapsStore) SetFetchParams(params SwapRequestParams) {
	store.mut.Lock()
	defer store.mut.Unlock()

	store.state.FetchParams = params.clone()
}

// ResetPostFetchState restores the fetch related fields while keeping the tokens and the feature liveness
func (store *swapsStore) ResetPostFetchState() {
	store.mut.Lock()
	defer store.mut.Unlock()

	defaults := defaultSwapsState()
	defaults.Tokens = store.state.Tokens
	defaults.TokensLastFetched = store.state.TokensLastFetched
	defaults.SwapsFeatureIsLive = store.state.SwapsFeatureIsLive
	store.state = defaults
}

// Reset restores the whole state to its defaults
func (store *swapsStore) Reset() {
	store.mut.Lock()
	defer store.mut.Unlock()

	store.state = defaultSwapsState()
}
