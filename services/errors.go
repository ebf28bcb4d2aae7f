package services

import "errors"

// Failure classes of the webhook pipeline. Callers branch with errors.Is;
// the concrete detail travels in the wrapping message.
var (
	// ErrAuthentication: bad or missing signature. Rejected before any
	// webhook row is written.
	ErrAuthentication = errors.New("authentication failed")

	// ErrValidation: malformed payload, or an event missing a required
	// source identifier. Aborts the batch.
	ErrValidation = errors.New("validation failed")

	// ErrState: missing profile, missing access token, history fetch
	// failure. Annotated on the event row, then propagated.
	ErrState = errors.New("invalid state")

	// ErrExternalService: a messaging-gateway call failed. The completion
	// gateway never surfaces this class; it swallows its own failures
	// into a fallback reply.
	ErrExternalService = errors.New("external service failure")
)
