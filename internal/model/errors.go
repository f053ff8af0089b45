package model

import "errors"

// Common errors used across the application
var (
	// Credential errors
	ErrInvalidCredentials = errors.New("invalid shirt number or PIN")
	ErrUnauthorized       = errors.New("admin access required")
	ErrWeakPIN            = errors.New("PIN must be at least 4 characters")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Voting errors
	ErrAlreadyVoted     = errors.New("player has already voted this round")
	ErrIncompleteBallot = errors.New("ballot is incomplete")
	ErrTargetNotFound   = errors.New("ballot target not found")
	ErrSelfVote         = errors.New("players cannot vote for themselves")

	// Messaging errors
	ErrEmptyMessage = errors.New("message text is empty")

	// ErrPersistence wraps any record store failure surfaced by a service
	ErrPersistence = errors.New("persistence failure")
)
