package utils

import "errors"

var (
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrDatabaseError   = errors.New("database error")

	ErrInvalidTripForm    = errors.New("trip form has validation errors")
	ErrInvalidTransition  = errors.New("action not allowed in the current step")
	ErrSuggestionNotFound = errors.New("suggestion not found")
	ErrViewClosed         = errors.New("planner view is closed")

	ErrBackendUnavailable = errors.New("planning backend unavailable")
	ErrBackendBadStatus   = errors.New("planning backend returned non-2xx status")
	ErrBackendMalformed   = errors.New("planning backend returned malformed json")

	ErrNoFlightFound       = errors.New("no flight found")
	ErrNoAffordableHotel   = errors.New("no affordable hotel found within the budget")
	ErrUnexpectedAIPricing = errors.New("unexpected pricing response from AI")

	ErrInvalidSessionToken = errors.New("invalid session token")
)
