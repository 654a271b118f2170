/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Messaging Business Logic Errors
const (
	// ErrMessageEmpty indicates that the message text was empty after trimming whitespace.
	ErrMessageEmpty = 2101

	// ErrMessageContentTooLong indicates that the message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2102

	// ErrPeerNotFound indicates that the named peer does not resolve to a known identity.
	ErrPeerNotFound = 2103

	// ErrMessageNotStored indicates that the message could not be durably recorded.
	// The message was not delivered to anyone.
	ErrMessageNotStored = 2104
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrUnauthorized indicates the request lacks a valid identity token.
	ErrUnauthorized = 3001

	// ErrInvalidUsername indicates the submitted username fails the format rules.
	ErrInvalidUsername = 3002

	// ErrInvalidPassword indicates the submitted password fails the length rules.
	ErrInvalidPassword = 3003

	// ErrUserAlreadyExists indicates the username is already taken.
	ErrUserAlreadyExists = 3004

	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = 3005

	// ErrAlreadyLoggedIn indicates an authenticated caller hit an anonymous-only endpoint.
	ErrAlreadyLoggedIn = 3006
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
