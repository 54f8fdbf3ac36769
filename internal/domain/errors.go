package domain

import "errors"

var (
	// ErrMalformedEntityKey is returned when an entity key has no name delimiter
	ErrMalformedEntityKey = errors.New("malformed entity key")

	// ErrMalformedRecord is returned when a stored item cannot be normalized into an event record
	ErrMalformedRecord = errors.New("malformed event record")

	// ErrUnknownMember is returned when a member name is not in the directory
	ErrUnknownMember = errors.New("unknown member")

	// ErrUnsupportedTimezone is returned when a timezone is not one of the configured zones
	ErrUnsupportedTimezone = errors.New("unsupported timezone")

	// ErrInvalidTopN is returned when a top-N value is outside the allowed range
	ErrInvalidTopN = errors.New("invalid top-n value")
)
