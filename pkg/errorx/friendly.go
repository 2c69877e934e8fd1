package errorx

import (
	"errors"
	"strings"
)

// friendlyRules maps substrings of raw storage or provider errors to the
// message shown to the client. First match wins.
var friendlyRules = []struct {
	substr string
	err    Error
}{
	{"Duplicate entry", Error{AlreadyExists, "This value is already taken"}},
	{"UNIQUE constraint failed", Error{AlreadyExists, "This value is already taken"}},
	{"record not found", Error{NotFound, "Not found"}},
	{"invalid credentials", Error{Unauthenticated, "Invalid username or password"}},
	{"crypto/bcrypt", Error{Unauthenticated, "Invalid username or password"}},
	{"rate limit", Error{TooManyRequests, "You are sending requests too quickly"}},
	{"too many requests", Error{TooManyRequests, "You are sending requests too quickly"}},
}

// Friendly rewrites a raw error into a client-facing Error. Values that are
// already an Error pass through untouched; anything unrecognized collapses
// into Unknown.
func Friendly(err error) Error {
	if err == nil {
		return Error{}
	}

	var errx Error
	if errors.As(err, &errx) {
		return errx
	}

	msg := err.Error()
	for _, rule := range friendlyRules {
		if strings.Contains(msg, rule.substr) {
			return rule.err
		}
	}

	return Unknown
}
