package channel

import "errors"

var (
	// ErrInvalidModel indicates a channel model that failed construction.
	ErrInvalidModel = errors.New("channel: invalid model")

	// ErrInvalidProtocol indicates a stimulus protocol that failed construction.
	ErrInvalidProtocol = errors.New("channel: invalid protocol")
)
