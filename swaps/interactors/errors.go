package interactors

import "errors"

var (
	errNilEthClient       = errors.New("nil eth client")
	errInvalidAddress     = errors.New("invalid address")
	errInvalidTxField     = errors.New("invalid transaction field")
	errUnexpectedResponse = errors.New("unexpected contract response")
)
