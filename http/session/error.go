package session

import "errors"

var (
	ErrNotValid = errors.New("not valid")
	ErrNoTokens = errors.New("no tokens")
)
