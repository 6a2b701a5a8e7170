package models

import "errors"

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrFeedUnavailable  = errors.New("price feed unavailable")
	ErrNoRealizedPrice  = errors.New("no realized price within tolerance")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyVerified  = errors.New("prediction already verified")
	ErrNonFinite        = errors.New("non-finite value")
	ErrNoWeight         = errors.New("no applicable predictor weight")
	ErrNotRunning       = errors.New("engine not running")
	ErrAlreadyRunning   = errors.New("engine already running")
)
