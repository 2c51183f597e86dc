package protocol

import "errors"

var (
	// ErrMalformedMessage is returned for inbound messages that are not valid
	// JSON, have no type, or miss fields required by their type.
	ErrMalformedMessage = errors.New("malformed message")
	// ErrUnknownCommand is returned when encoding a command of an unknown type.
	ErrUnknownCommand = errors.New("unknown command")
)
