package services

import "errors"

// ErrNotFound is returned when a record does not exist or belongs to another
// owner. Handlers map it to a 404 response.
var ErrNotFound = errors.New("not found")

// ErrValidation wraps input validation failures. Handlers map it to a 400
// response with the wrapped message.
var ErrValidation = errors.New("validation failed")
