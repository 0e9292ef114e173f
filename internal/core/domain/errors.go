package domain

import "errors"

var ErrValidation = errors.New("validation failed")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")
var ErrAccountNotFound = errors.New("account not found")
var ErrInvalidResetToken = errors.New("invalid or expired token")
var ErrRateLimited = errors.New("too many requests")
