package domain

import "errors"

var (
	// ErrInvalidListingData is returned when required input is missing or malformed.
	ErrInvalidListingData = errors.New("invalid listing data")
	// ErrListingNotFound is returned when the referenced listing does not exist.
	ErrListingNotFound = errors.New("listing not found")
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthorized is returned when the caller is not allowed to act on the listing.
	ErrUnauthorized = errors.New("user not authorized to perform this action")
	// ErrStore wraps any failure of the underlying persistence layer.
	ErrStore = errors.New("store error")
)
