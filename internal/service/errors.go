package service

import "errors"

var (
	ErrTripNotConfirmed = errors.New("trip is not confirmed")
	ErrTripIncomplete   = errors.New("trip record is incomplete")
)
