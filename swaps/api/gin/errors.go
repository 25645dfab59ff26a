package gin

import "errors"

var (
	errNilSwapsFacade      = errors.New("nil swaps facade")
	errEmptyListenAddress  = errors.New("empty listen address")
	errServerAlreadyActive = errors.New("http server already started")
)
