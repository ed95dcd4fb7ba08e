package entity

import "errors"

// Domain errors
var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")

	// Chat errors
	ErrChatNotFound = errors.New("chat not found")
	ErrInvalidRole  = errors.New("invalid message role")

	// Document errors
	ErrNoDocuments       = errors.New("no documents uploaded in this chat")
	ErrMissingSession    = errors.New("session id is missing")
	ErrInvalidFile       = errors.New("invalid file")
	ErrFileTooLarge      = errors.New("file too large")
	ErrTooManyFiles      = errors.New("too many files")
	ErrTotalSizeTooLarge = errors.New("total file size too large")

	// Answer errors
	ErrModelNotConfigured = errors.New("language model credential is not configured")
	ErrModelTransport     = errors.New("language model request failed")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
