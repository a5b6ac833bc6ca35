package domain

import "errors"

var (
	// ErrSubscriptionFailed is returned when subscription to contract logs fails
	ErrSubscriptionFailed = errors.New("subscription failed")

	// ErrTokenNotFound is returned when a token is not found
	ErrTokenNotFound = errors.New("token not found")

	// ErrOrderNotFound is returned when an order is not found
	ErrOrderNotFound = errors.New("order not found")

	// ErrCollectionNotFound is returned when a collection is not found
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrMalformedEvent is returned when a log cannot be decoded into the expected event
	ErrMalformedEvent = errors.New("malformed event")

	// ErrUnsupportedURI is returned when a metadata URI uses a scheme that cannot be fetched
	ErrUnsupportedURI = errors.New("unsupported uri")
)

// IsNotFound reports whether err is one of the entity not-found sentinels
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTokenNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrCollectionNotFound)
}
