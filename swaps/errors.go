package swaps

import "errors"

// SwapsErrorKey is the error key stored in the swaps state and reported to the callers
type SwapsErrorKey string

const (
	// QuotesExpiredError signals that the quotes polling reached its limit
	QuotesExpiredError SwapsErrorKey = "quotes-expired"
	// SwapFailedError signals that the swap transaction failed
	SwapFailedError SwapsErrorKey = "swap-failed-error"
	// ErrorFetchingQuotes signals that the quotes could not be fetched from the swaps API
	ErrorFetchingQuotes SwapsErrorKey = "error-fetching-quotes"
	// QuotesNotAvailableError signals that no aggregator provided a usable quote
	QuotesNotAvailableError SwapsErrorKey = "quotes-not-available"
	// OfflineForMaintenance signals that the swaps feature is not live
	OfflineForMaintenance SwapsErrorKey = "offline-for-maintenance"
	// FetchOrderConflict signals that a newer fetch was started before the current one completed
	FetchOrderConflict SwapsErrorKey = "swaps-fetch-order-conflict"
)

// Error returns the error key as string
func (key SwapsErrorKey) Error() string {
	return string(key)
}

var (
	// ErrNilSwapsAPI signals that a nil swaps API was provided
	ErrNilSwapsAPI = errors.New("nil swaps API")
	// ErrNilGasPriceProvider signals that a nil gas price provider was provided
	ErrNilGasPriceProvider = errors.New("nil gas price provider")
	// ErrNilChainInteractor signals that a nil chain interactor was provided
	ErrNilChainInteractor = errors.New("nil chain interactor")
	// ErrNilQuotesNotifee signals that a nil quotes notifee was provided
	ErrNilQuotesNotifee = errors.New("nil quotes notifee")
	// ErrNilTickHandler signals that a nil tick handler was provided
	ErrNilTickHandler = errors.New("nil tick handler")
	// ErrInvalidPollingInterval signals that an invalid polling interval was provided
	ErrInvalidPollingInterval = errors.New("invalid polling interval")
	// ErrInvalidFetchTokensThreshold signals that an invalid tokens cache threshold was provided
	ErrInvalidFetchTokensThreshold = errors.New("invalid fetch tokens threshold")
	// ErrInvalidSwapsContractAddress signals that an invalid swaps contract address was provided
	ErrInvalidSwapsContractAddress = errors.New("invalid swaps contract address")
	// ErrInvalidSwapRequest signals that the swap request parameters are not valid
	ErrInvalidSwapRequest = errors.New("invalid swap request")
	// ErrEmptyQuotes signals that no quotes were provided for ranking
	ErrEmptyQuotes = errors.New("empty quotes")
	// ErrNoFetchParams signals that no previous fetch parameters are available
	ErrNoFetchParams = errors.New("no fetch params available")
	// ErrNilHttpClient signals that a nil http client was provided
	ErrNilHttpClient = errors.New("nil http client")
)
