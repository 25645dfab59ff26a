package notifees

import "errors"

var (
	errInvalidWriteTimeout = errors.New("invalid write timeout")
	errInvalidBufferSize   = errors.New("invalid client buffer size")
	errNotifeeClosed       = errors.New("notifee closed")
)
