package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// ErrorValidation marks recoverable input errors: absent required field,
// non-positive amount, malformed date. Never retried.
var ErrorValidation = errors.New("validation failed")

// ErrorConsistency marks a paired transaction+balance write that could not
// be committed atomically. Retried once with a fresh read before surfacing.
var ErrorConsistency = errors.New("consistency conflict")

var ErrorForbidden = errors.New("forbidden")

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
