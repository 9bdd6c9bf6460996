package domain

import "errors"

var (
	ErrEmptyDescription    = errors.New("empty description")
	ErrInvalidStyle        = errors.New("invalid style")
	ErrInvalidOrientation  = errors.New("invalid orientation")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrProviderFailure     = errors.New("provider failure")
	ErrJobFailed           = errors.New("generation job failed")
	ErrPollTimeout         = errors.New("status polling exceeded its bound")
	ErrAssetFetch          = errors.New("asset download failed")
	ErrNotFound            = errors.New("not found")
)
