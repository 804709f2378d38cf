package domain

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrUserExists          = errors.New("username already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrForbidden           = errors.New("access forbidden")
	ErrCropNotFound        = errors.New("crop not found")
	ErrUnsupportedImage    = errors.New("unsupported image type")
	ErrImageTooLarge       = errors.New("image too large")
	ErrStorage             = errors.New("storage failure")
	ErrIdempotencyConflict = errors.New("idempotency key conflict")
)
