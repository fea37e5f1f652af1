package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrMarketResolved  = errors.New("market already resolved")
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrRateLimited     = errors.New("rate limited")
)
