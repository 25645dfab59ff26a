package gas

import "errors"

var (
	// ErrNilGasPricesFetcher signals that a nil gas prices fetcher was provided
	ErrNilGasPricesFetcher = errors.New("nil gas prices fetcher")
	// ErrNilGasPriceSuggester signals that a nil gas price suggester was provided
	ErrNilGasPriceSuggester = errors.New("nil gas price suggester")
	// ErrInvalidGasPriceSelector signals that an unknown gas price selector was provided
	ErrInvalidGasPriceSelector = errors.New("invalid gas price selector")
	// ErrInvalidGasValue signals that a gas value could not be parsed
	ErrInvalidGasValue = errors.New("invalid gas value")
	// ErrInvalidGasPrice signals that the fetched gas price is not a positive value
	ErrInvalidGasPrice = errors.New("invalid gas price")
)
