package commons

import "errors"

var ErrRecordNotFound = errors.New("Record not found")

// ErrValidation marks request payloads rejected before any state is read.
var ErrValidation = errors.New("validation failed")
