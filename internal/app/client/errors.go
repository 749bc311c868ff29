package client

import "errors"

var (
	// ErrAuthRejected is returned when the backend refuses the credentials
	// handed to Login. No session state changes.
	ErrAuthRejected = errors.New("credentials rejected")

	// ErrAuthExpired marks an unauthorized response on an authenticated
	// request. It is handled centrally: the session is force-expired and the
	// guard redirects to the login view.
	ErrAuthExpired = errors.New("session expired")

	// ErrFetchFailed wraps a failed read from the backend during bootstrap.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrUpdateRejected wraps a failed mutation issued by the action layer.
	ErrUpdateRejected = errors.New("update rejected")

	// ErrMalformedEvent marks a live channel message that cannot be matched
	// to the message schema. The message is dropped, the stream continues.
	ErrMalformedEvent = errors.New("malformed event")

	// ErrPartialChain marks a two-step remote sequence whose second step
	// failed after the first succeeded. There is no automatic compensation.
	ErrPartialChain = errors.New("partial chain failure")
)
