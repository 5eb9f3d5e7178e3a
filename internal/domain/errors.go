package domain

import "errors"

var (
	// ErrQueryRequired signals a missing or blank search query.
	ErrQueryRequired = errors.New("query is required")
	// ErrQueryTooLong signals a query above the accepted length.
	ErrQueryTooLong = errors.New("query too long")
	// ErrSearchFailed signals that candidates could not be fetched from the store.
	ErrSearchFailed = errors.New("search failed")
	// ErrInvalidCandidate signals a candidate record that fails validation.
	ErrInvalidCandidate = errors.New("invalid candidate")
	// ErrInvalidDate signals an unparsable date bucket.
	ErrInvalidDate = errors.New("invalid date")
)
