package domain

import (
	"errors"
	"fmt"
)

var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidFilter    = errors.New("invalid filter")
	ErrNotFound         = errors.New("not found")
)

// MaxErrorDetail bounds the store error text that may reach a caller.
const MaxErrorDetail = 80

// StoreWriteError reports a failed document write. Detail is already truncated.
type StoreWriteError struct {
	Detail string
	err    error
}

func NewStoreWriteError(err error) *StoreWriteError {
	return &StoreWriteError{Detail: Truncate(err.Error(), MaxErrorDetail), err: err}
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store write failed: %s", e.Detail)
}

func (e *StoreWriteError) Unwrap() error {
	return e.err
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

type StoreState int

const (
	StoreUninitialized StoreState = iota
	StoreReady
	StoreFailed
)

func (s StoreState) String() string {
	switch s {
	case StoreReady:
		return "ready"
	case StoreFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}
