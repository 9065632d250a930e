package service

import (
	"errors"
	"fmt"
)

var (
	// Auth-related errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("token is invalid")
	ErrTokenExpired       = fmt.Errorf("%w: token has expired", ErrInvalidToken)

	ErrInvalidUsage = errors.New("invalid usage record")
)
