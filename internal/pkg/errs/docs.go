// Package errs provides standardized error types for the fulfillment core.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes error types for common validation scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ObjectNotFoundError: For when an object cannot be found
//
// and for the orchestrator's own failure modes:
//   - InvalidTransitionError: A command is illegal from the current composite
//     state. Returned before any mutation, so callers can re-submit safely.
//   - ConflictError: An optimistic-concurrency check lost to a concurrent
//     writer, e.g. a second driver accepting an already-taken offer.
//   - OfferExpiredError: A driver acted on an offer after its window closed.
//   - AttemptsExhaustedError: The re-offer cycle exceeded its attempt ceiling.
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrInvalidTransition)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is classifies against the sentinel
//
// The HTTP adapter relies on this classification to map error kinds onto
// response status codes without inspecting message text.
package errs
