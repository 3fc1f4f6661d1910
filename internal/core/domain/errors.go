package domain

import "net/http"

// Error is the single error taxonomy of the platform: a human-readable
// message paired with the HTTP status it translates to at the boundary.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

// User directory.
var (
	ErrUserNotFound     = newError(http.StatusNotFound, "user not found")
	ErrEmailNotFound    = newError(http.StatusNotFound, "email not found")
	ErrUsernameNotFound = newError(http.StatusNotFound, "username not found")
	ErrUserExists       = newError(http.StatusConflict, "user already exists")
	ErrCreateUser       = newError(http.StatusInternalServerError, "failed to create user")
	ErrUpdateUser       = newError(http.StatusInternalServerError, "failed to update user")
	ErrGetUsers         = newError(http.StatusInternalServerError, "failed to get users")
	ErrDeleteUser       = newError(http.StatusInternalServerError, "failed to delete user")
	ErrDefaultRole      = newError(http.StatusInternalServerError, "default role USER not found")
)

// Session state.
var (
	ErrPasswordRequired = newError(http.StatusUnprocessableEntity, "password cannot be empty")
	ErrAlreadyLoggedIn  = newError(http.StatusConflict, "user already logged in")
	ErrNotLoggedIn      = newError(http.StatusUnprocessableEntity, "user is not logged in")
	ErrLogoutNotAllowed = newError(http.StatusPreconditionFailed, "user is not logged in")
	ErrPasswordMismatch = newError(http.StatusUnauthorized, "password does not match")
	ErrMalformedDigest  = newError(http.StatusBadRequest, "password does not match")
)

// Authentication.
var (
	ErrUnauthenticated    = newError(http.StatusUnauthorized, "authentication required")
	ErrInvalidCredentials = newError(http.StatusUnauthorized, "invalid credentials")
	ErrInvalidToken       = newError(http.StatusUnauthorized, "invalid token")
	ErrForbidden          = newError(http.StatusForbidden, "access forbidden")
)

// Posts and comments.
var (
	ErrPostNotFound    = newError(http.StatusNotFound, "post not found")
	ErrCommentNotFound = newError(http.StatusNotFound, "comment not found")
	ErrCreatePost      = newError(http.StatusInternalServerError, "failed to create post")
	ErrUpdatePost      = newError(http.StatusInternalServerError, "failed to update post")
	ErrGetPosts        = newError(http.StatusInternalServerError, "failed to get posts")
	ErrDeletePost      = newError(http.StatusInternalServerError, "failed to delete post")
	ErrCreateComment   = newError(http.StatusInternalServerError, "failed to create comment")
	ErrUpdateComment   = newError(http.StatusInternalServerError, "failed to update comment")
	ErrGetComments     = newError(http.StatusInternalServerError, "failed to get comments")
	ErrDeleteComment   = newError(http.StatusInternalServerError, "failed to delete comment")
)

// Gateway.
var (
	ErrUpstreamUnavailable = newError(http.StatusServiceUnavailable, "upstream service unavailable")
)

// BadRequest builds an ad-hoc 400 error, used for malformed ids and payloads.
func BadRequest(msg string) *Error {
	return newError(http.StatusBadRequest, msg)
}

// UpstreamFailure builds the error the gateway reports when a backend could
// not be reached. The status depends on the operation.
func UpstreamFailure(status int, msg string) *Error {
	return newError(status, msg)
}
