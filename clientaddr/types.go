package clientaddr

import (
	"errors"
	"fmt"
)

var (
	ErrChainTooLong = errors.New("proxy chain too long")

	ErrUnknownHostingMode = errors.New("unknown hosting mode")

	ErrNoSources = errors.New("at least one source required")
)

// ChainTooLongError reports a forwarded chain longer than the accepted limit.
type ChainTooLongError struct {
	Header      string
	ChainLength int
	MaxLength   int
}

func (e *ChainTooLongError) Error() string {
	return fmt.Sprintf("%s: %v (chain_length=%d, max_length=%d)",
		e.Header, ErrChainTooLong, e.ChainLength, e.MaxLength)
}

func (e *ChainTooLongError) Unwrap() error {
	return ErrChainTooLong
}

// Resolution is the outcome of a successful source lookup.
type Resolution struct {
	// Address is the caller address reported by the source. It may be empty
	// when the source context was present but carried no address.
	Address string

	// Source is the name of the source that produced Address.
	Source string
}
