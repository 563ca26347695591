package domain

import "errors"

// ErrUnsupportedOperation indicates the item has no cacheable media URL
var ErrUnsupportedOperation = errors.New("item has no media to cache")

// ErrWorkerUnavailable indicates no cache worker is active to take the command
var ErrWorkerUnavailable = errors.New("cache worker is not ready")

// ErrInvalidCommand indicates a worker message could not be decoded
var ErrInvalidCommand = errors.New("invalid worker command")

// ErrCacheMiss indicates the cache store holds no entry for the url
var ErrCacheMiss = errors.New("cache miss")

// ErrNetworkFailure indicates a media fetch failed or returned a non-success status
var ErrNetworkFailure = errors.New("network fetch failed")

var ErrItemNotFound = errors.New("item not found")
