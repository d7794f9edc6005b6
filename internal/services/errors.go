package services

import "errors"

// Lifecycle failures. Handlers recover these at the request boundary and
// turn them into a flash message or a JSON failure, never a 500.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("debate is not in the expected status")
	ErrSlotTaken    = errors.New("side already has a participant")
	ErrUnauthorized = errors.New("not allowed")
	ErrValidation   = errors.New("invalid input")
)

// Identity exchange failures, one per step of the callback handshake.
var (
	ErrProviderDenied = errors.New("provider denied the authorization request")
	ErrMissingCode    = errors.New("authorization code missing from callback")
	ErrStateMismatch  = errors.New("state token mismatch")
	ErrTokenExchange  = errors.New("token exchange failed")
	ErrProfileFetch   = errors.New("profile fetch failed")
)
