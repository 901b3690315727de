package websocket

import "errors"

var ErrInvalidEvent = errors.New("invalid event format")
