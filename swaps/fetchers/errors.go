package fetchers

import "errors"

var (
	errInvalidResponseData = errors.New("invalid response data")
	errNilResponseGetter   = errors.New("nil response getter")
	errInvalidURL          = errors.New("invalid URL")
	errInvalidTimeout      = errors.New("invalid aggregator timeout")
	errTokenPriceNotFound  = errors.New("token price not found")
)
