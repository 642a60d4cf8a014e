package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidPeriod indicates that a period selector (month, year or date range)
// could not be resolved into a valid date window.
var ErrInvalidPeriod = errors.New("invalid period")

// ErrDataUnavailable indicates that the transaction store could not be read or written.
var ErrDataUnavailable = errors.New("data unavailable")

// ErrAnalysisParse indicates that a model response was not valid JSON or was
// missing required keys for the requested analysis shape.
var ErrAnalysisParse = errors.New("analysis response parse error")

// ErrExternalService indicates that the language-model service was unreachable
// or rejected the request.
var ErrExternalService = errors.New("external service error")
